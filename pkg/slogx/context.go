package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

func WithRequestID(ctx context.Context, reqID string) context.Context {
	l := FromContext(ctx)
	return WithContext(ctx, l.With("req_id", reqID))
}

// WithPrincipal attaches the authenticated caller to the contextual logger.
func WithPrincipal(ctx context.Context, userID, role string) context.Context {
	l := FromContext(ctx)
	return WithContext(ctx, l.With("user_id", userID, "role", role))
}

// Alert logs at error level with alert=true so operators can route the
// record to a pager. Use for states that need manual repair.
func Alert(ctx context.Context, msg string, attrs ...slog.Attr) {
	attrs = append(attrs, slog.Bool("alert", true))
	FromContext(ctx).LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

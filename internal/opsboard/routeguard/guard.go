// Package routeguard gates dashboard navigation. Each navigation runs a
// small state machine: Checking while the caller's principal is resolved,
// then Authorized or Denied, and a Denied navigation issues at most one
// redirect. Each generation is decided exactly once, which bounds a Denied
// instance to a single redirect; the last redirect target stops loops
// across generations.
package routeguard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/access"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
	"github.com/aussiebroadwan/opsboard/pkg/slogx"
)

type State string

const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateAuthorized  State = "authorized"
	StateDenied      State = "denied"
	StateRedirecting State = "redirecting"
)

// DefaultLoginPath is the entry point for unauthenticated callers.
const DefaultLoginPath = "/login"

// ErrStale is returned by Navigate when a newer navigation or principal
// change superseded it before its principal was resolved.
var ErrStale = errors.New("routeguard: navigation superseded")

// PrincipalSource resolves the current principal. ok is false when nobody
// is signed in.
type PrincipalSource interface {
	Principal(ctx context.Context) (p domain.Principal, ok bool, err error)
}

// PrincipalFunc adapts a function to PrincipalSource.
type PrincipalFunc func(ctx context.Context) (domain.Principal, bool, error)

func (f PrincipalFunc) Principal(ctx context.Context) (domain.Principal, bool, error) {
	return f(ctx)
}

// Static always resolves to p, or to nobody when p has no ID.
func Static(p domain.Principal) PrincipalSource {
	return PrincipalFunc(func(context.Context) (domain.Principal, bool, error) {
		return p, p.ID != "", nil
	})
}

// Redirector performs a redirect decided by the guard.
type Redirector interface {
	Redirect(ctx context.Context, target string)
}

type RedirectFunc func(ctx context.Context, target string)

func (f RedirectFunc) Redirect(ctx context.Context, target string) { f(ctx, target) }

// Transition is one state change of the guard.
type Transition struct {
	From       State
	To         State
	Path       string
	Generation uint64
}

// Decision is the outcome of one navigation.
type Decision struct {
	State      State
	Path       string
	Item       access.NavigationItem
	RedirectTo string // Set when State is Redirecting
	Generation uint64
}

type Guard struct {
	Access     *access.Resolver
	Principals PrincipalSource
	Redirector Redirector
	LoginPath  string

	// OnTransition, if set, is called for every state change while the
	// guard's lock is held. It must not call back into the guard.
	OnTransition func(Transition)

	mu         sync.Mutex
	state      State
	gen        uint64
	path       string
	redirectTo string // Target of the last redirect, used to stop loops
	cancel     context.CancelFunc
}

// State returns the current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == "" {
		return StateIdle
	}
	return g.state
}

// Generation returns the current navigation generation.
func (g *Guard) Generation() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen
}

// Navigate evaluates access to path. It starts a new generation, which
// cancels any in-flight evaluation; a superseded call returns ErrStale and
// its result is never acted upon.
func (g *Guard) Navigate(ctx context.Context, path string) (Decision, error) {
	log := slogx.FromContext(ctx)

	// 1. Start a new generation in Checking
	ctx, gen := g.begin(ctx, path)

	// 2. Resolve the principal outside the lock
	principal, ok, err := g.Principals.Principal(ctx)

	g.mu.Lock()
	if gen != g.gen {
		g.mu.Unlock()
		log.Debug("discarding stale navigation", slog.String("path", path), slog.Uint64("generation", gen))
		return Decision{}, ErrStale
	}

	// 3. Decide
	decision := Decision{Path: path, Generation: gen}
	switch {
	case err != nil:
		log.Warn("principal resolution failed, denying", slog.String("path", path), slog.Any("error", err))
		g.transition(StateDenied)
	case !ok:
		if path == g.loginPath() {
			g.transition(StateAuthorized)
		} else {
			g.transition(StateDenied)
		}
	default:
		item, found := g.Access.ItemByPath(path)
		decision.Item = item
		if found && g.Access.CanAccess(principal.Role, item) {
			g.transition(StateAuthorized)
		} else {
			g.transition(StateDenied)
		}
	}

	if g.state == StateAuthorized {
		g.redirectTo = ""
		decision.State = StateAuthorized
		g.mu.Unlock()
		return decision, nil
	}

	// 4. Redirect once
	target := g.loginPath()
	if ok && err == nil {
		target = g.Access.LandingPath(principal.Role)
	}
	if target == "" || target == path || g.redirectTo == path {
		// Either there is nowhere to go, or we just redirected here and
		// were denied again.
		decision.State = StateDenied
		g.mu.Unlock()
		log.Warn("navigation denied without redirect",
			slog.String("path", path),
			slog.String("role", principal.Role),
		)
		return decision, nil
	}

	g.redirectTo = target
	g.transition(StateRedirecting)
	decision.State = StateRedirecting
	decision.RedirectTo = target
	g.mu.Unlock()

	log.Info("navigation denied, redirecting",
		slog.String("path", path),
		slog.String("role", principal.Role),
		slog.String("redirect_to", target),
	)
	if g.Redirector != nil {
		g.Redirector.Redirect(ctx, target)
	}
	return decision, nil
}

// PrincipalChanged discards any decision made for the previous principal
// and re-evaluates the current path from Checking.
func (g *Guard) PrincipalChanged(ctx context.Context) (Decision, error) {
	g.mu.Lock()
	path := g.path
	g.redirectTo = ""
	g.mu.Unlock()

	if path == "" {
		return Decision{}, nil
	}
	return g.Navigate(ctx, path)
}

// Close cancels any in-flight evaluation.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

func (g *Guard) begin(ctx context.Context, path string) (context.Context, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	ctx, g.cancel = context.WithCancel(ctx)

	g.gen++
	g.path = path
	g.transition(StateChecking)
	return ctx, g.gen
}

// transition must be called with g.mu held.
func (g *Guard) transition(to State) {
	from := g.state
	if from == "" {
		from = StateIdle
	}
	g.state = to
	if g.OnTransition != nil {
		g.OnTransition(Transition{From: from, To: to, Path: g.path, Generation: g.gen})
	}
}

func (g *Guard) loginPath() string {
	if g.LoginPath != "" {
		return g.LoginPath
	}
	return DefaultLoginPath
}

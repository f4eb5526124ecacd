package sqlite

import (
	"context"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
)

type identitiesRepo struct {
	q queryer
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, id domain.Identity) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO identities (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		id.ID, id.Email, id.PasswordHash, toMillis(id.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	return r.get(ctx, `SELECT id, email, password_hash, created_at FROM identities WHERE id = ?`, id)
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	return r.get(ctx, `SELECT id, email, password_hash, created_at FROM identities WHERE email = ?`, email)
}

func (r *identitiesRepo) get(ctx context.Context, query string, arg string) (domain.Identity, error) {
	var (
		out       domain.Identity
		createdAt int64
	)
	err := r.q.QueryRowContext(ctx, query, arg).Scan(&out.ID, &out.Email, &out.PasswordHash, &createdAt)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	out.CreatedAt = fromMillis(createdAt)
	return out, nil
}

func (r *identitiesRepo) DeleteIdentity(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, id)
	return affectedOr(res, err, store.ErrNotFound)
}

func (r *identitiesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM identities)`).Scan(&exists)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

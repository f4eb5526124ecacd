package sqlite

import (
	"context"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
)

type profilesRepo struct {
	q queryer
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO profiles (id, identity_id, email, full_name, phone, location, role, department, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.IdentityID,
		p.Email,
		p.FullName,
		p.Phone,
		p.Location,
		p.Role,
		p.Department,
		toMillis(p.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *profilesRepo) GetProfileByIdentityID(ctx context.Context, identityID string) (domain.Profile, error) {
	var (
		p         domain.Profile
		createdAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, identity_id, email, full_name, phone, location, role, department, created_at
		FROM profiles WHERE identity_id = ?`, identityID,
	).Scan(&p.ID, &p.IdentityID, &p.Email, &p.FullName, &p.Phone, &p.Location, &p.Role, &p.Department, &createdAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
)

const invitationColumns = `id, email, role, department, token_hash, status,
	issued_at, expires_at, invited_by, accepted_at, account_id, claimed_at`

type invitationsRepo struct {
	q queryer
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invitations (id, email, role, department, token_hash, status, issued_at, expires_at, invited_by)
		VALUES (?, ?, ?, ?, ?, 'pending', ?, ?, ?)`,
		inv.ID,
		inv.Email,
		inv.Role,
		inv.Department,
		inv.TokenHash,
		toMillis(inv.IssuedAt),
		toMillis(inv.ExpiresAt),
		inv.InvitedBy,
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	return scanInvitation(row)
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)
	return scanInvitation(row)
}

func (r *invitationsRepo) ListInvitations(ctx context.Context, filter domain.InvitationFilter) ([]domain.Invitation, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.InvitedBy != "" {
		where = append(where, "invited_by = ?")
		args = append(args, filter.InvitedBy)
	}
	if filter.Email != "" {
		where = append(where, "email = ? COLLATE NOCASE")
		args = append(args, filter.Email)
	}

	query := `SELECT ` + invitationColumns + ` FROM invitations`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY issued_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) ClaimInvitation(ctx context.Context, id string, now, staleBefore time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations
		SET claimed_at = ?
		WHERE id = ? AND status = 'pending' AND expires_at >= ?
		  AND (claimed_at IS NULL OR claimed_at < ?)`,
		toMillis(now), id, toMillis(now), toMillis(staleBefore),
	)
	return affectedOr(res, err, store.ErrConflict)
}

func (r *invitationsRepo) ReleaseInvitationClaim(ctx context.Context, id string, claimedAt time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations
		SET claimed_at = NULL
		WHERE id = ? AND status = 'pending' AND claimed_at = ?`,
		id, toMillis(claimedAt),
	)
	return affectedOr(res, err, store.ErrConflict)
}

func (r *invitationsRepo) CompleteInvitation(ctx context.Context, id, accountID string, claimedAt, now time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations
		SET status = 'accepted', accepted_at = ?, account_id = ?, claimed_at = NULL
		WHERE id = ? AND status = 'pending' AND claimed_at = ?`,
		toMillis(now), accountID, id, toMillis(claimedAt),
	)
	return affectedOr(res, err, store.ErrConflict)
}

func (r *invitationsRepo) RevokeInvitation(ctx context.Context, id string, now, staleBefore time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations
		SET status = 'revoked', claimed_at = NULL
		WHERE id = ? AND status = 'pending' AND expires_at >= ?
		  AND (claimed_at IS NULL OR claimed_at < ?)`,
		id, toMillis(now), toMillis(staleBefore),
	)
	return affectedOr(res, err, store.ErrConflict)
}

func (r *invitationsRepo) DeleteInvitation(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	return affectedOr(res, err, store.ErrNotFound)
}

func (r *invitationsRepo) DeleteExpiredInvitations(ctx context.Context, now, staleBefore time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM invitations
		WHERE status = 'pending' AND expires_at < ?
		  AND (claimed_at IS NULL OR claimed_at < ?)`,
		toMillis(now), toMillis(staleBefore),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var (
		inv        domain.Invitation
		status     string
		issuedAt   int64
		expiresAt  int64
		acceptedAt sql.NullInt64
		accountID  sql.NullString
		claimedAt  sql.NullInt64
	)
	err := row.Scan(
		&inv.ID,
		&inv.Email,
		&inv.Role,
		&inv.Department,
		&inv.TokenHash,
		&status,
		&issuedAt,
		&expiresAt,
		&inv.InvitedBy,
		&acceptedAt,
		&accountID,
		&claimedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	inv.Status = domain.InvitationStatus(status)
	inv.IssuedAt = fromMillis(issuedAt)
	inv.ExpiresAt = fromMillis(expiresAt)
	inv.AcceptedAt = fromNullMillis(acceptedAt)
	inv.AccountID = mapNullString(accountID)
	inv.ClaimedAt = fromNullMillis(claimedAt)
	return inv, nil
}

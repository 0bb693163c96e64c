package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Impulsible/eventease-planner/types"
)

// InvitationRepository handles persistence for invitations.
type InvitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

const invitationColumns = `id, event_id, organizer_id, guest_id, message, status, created_at, updated_at`

func scanInvitationRow(scan func(dest ...any) error) (types.Invitation, error) {
	var inv types.Invitation
	var message sql.NullString
	err := scan(
		&inv.ID,
		&inv.EventID,
		&inv.OrganizerID,
		&inv.GuestID,
		&message,
		&inv.Status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return types.Invitation{}, err
	}
	inv.Message = message.String
	return inv, nil
}

func (r *InvitationRepository) Get(ctx context.Context, id string) (types.Invitation, error) {
	const query = `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	inv, err := scanInvitationRow(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Invitation{}, ErrNotFound
		}
		return types.Invitation{}, err
	}
	return inv, nil
}

// GetByEventAndGuest returns the invitation addressed to the guest for the
// event, if one exists.
func (r *InvitationRepository) GetByEventAndGuest(ctx context.Context, eventID, guestID string) (types.Invitation, error) {
	const query = `SELECT ` + invitationColumns + ` FROM invitations WHERE event_id = $1 AND guest_id = $2`
	inv, err := scanInvitationRow(r.db.QueryRowContext(ctx, query, eventID, guestID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Invitation{}, ErrNotFound
		}
		return types.Invitation{}, err
	}
	return inv, nil
}

// ListForUser returns invitations where the user is either the inviting
// organizer or the invited guest.
func (r *InvitationRepository) ListForUser(ctx context.Context, userID string) ([]types.Invitation, error) {
	const query = `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE guest_id = $1 OR organizer_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []types.Invitation
	for rows.Next() {
		inv, err := scanInvitationRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *InvitationRepository) ListByEvent(ctx context.Context, eventID string) ([]types.Invitation, error) {
	const query = `SELECT ` + invitationColumns + ` FROM invitations WHERE event_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []types.Invitation
	for rows.Next() {
		inv, err := scanInvitationRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *InvitationRepository) Create(ctx context.Context, inv types.Invitation) (types.Invitation, error) {
	now := time.Now()
	inv.ID = uuid.NewString()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	const query = `
		INSERT INTO invitations (id, event_id, organizer_id, guest_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		inv.ID,
		inv.EventID,
		inv.OrganizerID,
		inv.GuestID,
		nullable(inv.Message),
		inv.Status,
		inv.CreatedAt,
		inv.UpdatedAt,
	); err != nil {
		return types.Invitation{}, translateError(err)
	}
	return inv, nil
}

func (r *InvitationRepository) UpdateStatus(ctx context.Context, id, status string) (types.Invitation, error) {
	const query = `
		UPDATE invitations
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + invitationColumns
	inv, err := scanInvitationRow(r.db.QueryRowContext(ctx, query, status, time.Now(), id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Invitation{}, ErrNotFound
		}
		return types.Invitation{}, err
	}
	return inv, nil
}

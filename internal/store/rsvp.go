package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Impulsible/eventease-planner/types"
)

// RSVPRepository handles persistence for RSVPs.
type RSVPRepository struct {
	db *sql.DB
}

func NewRSVPRepository(db *sql.DB) *RSVPRepository {
	return &RSVPRepository{db: db}
}

const rsvpColumns = `id, event_id, user_id, status, created_at, updated_at`

func scanRSVPRow(scan func(dest ...any) error) (types.RSVP, error) {
	var rsvp types.RSVP
	err := scan(
		&rsvp.ID,
		&rsvp.EventID,
		&rsvp.UserID,
		&rsvp.Status,
		&rsvp.CreatedAt,
		&rsvp.UpdatedAt,
	)
	return rsvp, err
}

func (r *RSVPRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (types.RSVP, error) {
	const query = `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 AND user_id = $2`
	rsvp, err := scanRSVPRow(r.db.QueryRowContext(ctx, query, eventID, userID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.RSVP{}, ErrNotFound
		}
		return types.RSVP{}, err
	}
	return rsvp, nil
}

func (r *RSVPRepository) ListByEvent(ctx context.Context, eventID string) ([]types.RSVP, error) {
	const query = `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []types.RSVP
	for rows.Next() {
		rsvp, err := scanRSVPRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	return rsvps, rows.Err()
}

// Upsert records or replaces the user's answer for the event. The unique
// (event_id, user_id) constraint makes concurrent upserts converge on a
// single row.
func (r *RSVPRepository) Upsert(ctx context.Context, rsvp types.RSVP) (types.RSVP, error) {
	now := time.Now()
	rsvp.ID = uuid.NewString()
	rsvp.CreatedAt = now
	rsvp.UpdatedAt = now

	const query = `
		INSERT INTO rsvps (id, event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING ` + rsvpColumns
	stored, err := scanRSVPRow(r.db.QueryRowContext(
		ctx,
		query,
		rsvp.ID,
		rsvp.EventID,
		rsvp.UserID,
		rsvp.Status,
		rsvp.CreatedAt,
		rsvp.UpdatedAt,
	).Scan)
	if err != nil {
		return types.RSVP{}, translateError(err)
	}
	return stored, nil
}

func (r *RSVPRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM rsvps WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

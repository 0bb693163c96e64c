package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Impulsible/eventease-planner/types"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, description, location, starts_at, ends_at, organizer_id, public, cover_image_key, created_at, updated_at`

func scanEventRow(scan func(dest ...any) error) (types.Event, error) {
	var event types.Event
	var coverKey sql.NullString
	err := scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.EndsAt,
		&event.OrganizerID,
		&event.Public,
		&coverKey,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return types.Event{}, err
	}
	event.CoverImageKey = coverKey.String
	return event, nil
}

// visibleFilter limits rows to events the viewer may see: public events,
// events they organize, and private events they are invited to. An empty
// viewer id matches nothing beyond public events.
const visibleFilter = `
	WHERE public
	   OR organizer_id = $1
	   OR EXISTS (
		SELECT 1 FROM invitations
		WHERE invitations.event_id = events.id AND invitations.guest_id = $1
	   )`

// List returns the page of events visible to the viewer. Admins see every
// event; everyone else sees public events plus their own and the private
// ones they are invited to.
func (r *EventRepository) List(ctx context.Context, offset, limit int, viewerID string, viewerIsAdmin bool) ([]types.Event, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	countQuery := `SELECT COUNT(1) FROM events` + visibleFilter
	listQuery := `
		SELECT ` + eventColumns + `
		FROM events` + visibleFilter + `
		ORDER BY starts_at
		OFFSET $2 LIMIT $3`
	countArgs := []any{viewerID}
	listArgs := []any{viewerID, offset, limit}
	if viewerIsAdmin {
		countQuery = `SELECT COUNT(1) FROM events`
		listQuery = `
			SELECT ` + eventColumns + `
			FROM events
			ORDER BY starts_at
			OFFSET $1 LIMIT $2`
		countArgs = nil
		listArgs = []any{offset, limit}
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]types.Event, 0, limit)
	for rows.Next() {
		event, err := scanEventRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (types.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEventRow(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Event{}, ErrNotFound
		}
		return types.Event{}, err
	}
	return event, nil
}

func (r *EventRepository) Create(ctx context.Context, event types.Event) (types.Event, error) {
	now := time.Now()
	event.ID = uuid.NewString()
	event.CreatedAt = now
	event.UpdatedAt = now

	const query = `
		INSERT INTO events (id, title, description, location, starts_at, ends_at, organizer_id, public, cover_image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.OrganizerID,
		event.Public,
		nullable(event.CoverImageKey),
		event.CreatedAt,
		event.UpdatedAt,
	); err != nil {
		return types.Event{}, translateError(err)
	}
	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, event types.Event) (types.Event, error) {
	event.UpdatedAt = time.Now()

	const query = `
		UPDATE events
		SET title = $1,
			description = $2,
			location = $3,
			starts_at = $4,
			ends_at = $5,
			public = $6,
			cover_image_key = $7,
			updated_at = $8
		WHERE id = $9`
	result, err := r.db.ExecContext(
		ctx,
		query,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.Public,
		nullable(event.CoverImageKey),
		event.UpdatedAt,
		event.ID,
	)
	if err != nil {
		return types.Event{}, translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Event{}, err
	}
	if affected == 0 {
		return types.Event{}, ErrNotFound
	}
	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM events WHERE id = $1`
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

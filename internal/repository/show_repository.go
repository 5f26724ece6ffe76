package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/show-ticketing/internal/model"
)

// ShowRepo manages persistence for shows.  Shows are read-mostly from the
// booking path's point of view; this repo only exposes lookups.
type ShowRepo struct {
    db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
    return &ShowRepo{db: db}
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
    const q = `SELECT id, event_id, venue_id, title, starts_at, ends_at, status, created_at FROM shows WHERE id = ?`
    var s model.Show
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &s.ID, &s.EventID, &s.VenueID, &s.Title, &s.StartsAt, &s.EndsAt, &s.Status, &s.CreatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrShowNotFound
        }
        return nil, err
    }
    return &s, nil
}

// ListUpcoming returns shows that have not yet ended, ordered by start
// time ascending.  Cancelled and draft shows are excluded.  It is used by
// the public browse endpoint; an empty slice with nil error means no
// upcoming shows.
func (r *ShowRepo) ListUpcoming(ctx context.Context) ([]model.Show, error) {
    const q = `SELECT id, event_id, venue_id, title, starts_at, ends_at, status, created_at
               FROM shows
               WHERE status IN (?, ?) AND ends_at > UTC_TIMESTAMP()
               ORDER BY starts_at ASC`
    rows, err := r.db.QueryContext(ctx, q, model.ShowLive, model.ShowSoldOut)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.Show
    for rows.Next() {
        var s model.Show
        if err := rows.Scan(
            &s.ID, &s.EventID, &s.VenueID, &s.Title, &s.StartsAt, &s.EndsAt, &s.Status, &s.CreatedAt,
        ); err != nil {
            return nil, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

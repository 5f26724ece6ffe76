package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/show-ticketing/internal/model"
)

// PaymentRepo provides access to the `payments` table.  A payment row is
// written exactly once per booking attempt, inside the same transaction
// as the booking it belongs to; payment success is verified by the
// orchestrator before the transaction is opened.
type PaymentRepo struct {
    db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment within the scope of an existing transaction
// and populates the generated ID on the provided record.  The caller
// must commit or roll back the transaction.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
    const q = `INSERT INTO payments (booking_id, provider, provider_ref, status, amount_cents, currency, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q,
        p.BookingID, p.Provider, p.ProviderRef, p.Status, p.AmountCents, p.Currency,
        p.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

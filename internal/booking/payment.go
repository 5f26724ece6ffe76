package booking

import (
    "context"

    "github.com/google/uuid"

    "github.com/iliyamo/show-ticketing/internal/model"
)

// PaymentResult is what a confirmed charge looks like to the booking
// flow: which provider took the money and its reference for the charge.
type PaymentResult struct {
    Provider    string
    ProviderRef string
}

// PaymentConfirmer charges a user for a booking attempt.  Confirm must be
// synchronous: by the time it returns, the charge has either succeeded or
// definitively failed.  A failed charge is reported as *PaymentFailedError.
type PaymentConfirmer interface {
    Confirm(ctx context.Context, userID, showID uint64, amountCents uint32, currency string) (PaymentResult, error)
}

// AcceptAllPayments is a stand-in provider that approves every charge and
// mints a reference for it.  It backs local development and tests until a
// real gateway integration replaces it.
type AcceptAllPayments struct{}

// Confirm approves the charge unconditionally.
func (AcceptAllPayments) Confirm(ctx context.Context, userID, showID uint64, amountCents uint32, currency string) (PaymentResult, error) {
    return PaymentResult{
        Provider:    model.PaymentProviderInternal,
        ProviderRef: uuid.NewString(),
    }, nil
}

package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/show-ticketing/internal/booking"
    "github.com/iliyamo/show-ticketing/internal/repository"
)

// BookingHandler exposes the seat hold and booking endpoints for
// authenticated customers.
type BookingHandler struct {
    Svc      *booking.Service
    Bookings *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *booking.Service, bookings *repository.BookingRepo) *BookingHandler {
    return &BookingHandler{Svc: svc, Bookings: bookings}
}

type seatSetReq struct {
    SeatIDs []uint64 `json:"seat_ids"`
}

type ticketResp struct {
    SeatID     uint64 `json:"seat_id"`
    TicketCode string `json:"ticket_code"`
}

type bookingResp struct {
    BookingID   uint64       `json:"booking_id"`
    Status      string       `json:"status"`
    AmountCents uint32       `json:"amount_cents"`
    Currency    string       `json:"currency"`
    ConfirmedAt string       `json:"confirmed_at"`
    Tickets     []ticketResp `json:"tickets"`
}

// writeBookingError maps booking flow failures onto HTTP responses.
// Availability failures name the offending seats so a client can retry
// with an adjusted selection.
func writeBookingError(c echo.Context, err error) error {
    var (
        vErr    *booking.ValidationError
        payErr  *booking.PaymentFailedError
        storErr *booking.StorageUnavailableError
        nfErr   *repository.SeatsNotFoundError
        unavail *repository.SeatsUnavailableError
    )
    switch {
    case errors.As(err, &vErr):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Reason})
    case errors.Is(err, repository.ErrShowNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
    case errors.As(err, &nfErr):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "seats not found", "seat_ids": nfErr.SeatIDs})
    case errors.As(err, &unavail):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seats unavailable", "seat_ids": unavail.SeatIDs})
    case errors.As(err, &payErr):
        return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment failed"})
    case errors.Is(err, repository.ErrLockTimeout):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seats are contended, try again"})
    case errors.Is(err, repository.ErrCommitConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking conflicted, try again"})
    case errors.As(err, &storErr):
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
    }
}

// HoldSeats places advisory holds on the requested seats of a show.  It
// returns 202 because a hold is an intent marker, not a reservation: the
// seats are only guaranteed once a booking commits.
func (h *BookingHandler) HoldSeats(c echo.Context) error {
    showID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }
    var req seatSetReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Svc.PlaceHold(ctx, showID, req.SeatIDs); err != nil {
        return writeBookingError(c, err)
    }
    return c.JSON(http.StatusAccepted, echo.Map{
        "show_id":  showID,
        "seat_ids": req.SeatIDs,
        "held_for": h.Svc.HoldTTLSeconds(),
    })
}

// CreateBooking runs a full booking attempt for the authenticated user
// and returns the committed booking with its tickets.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    showID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }
    var req seatSetReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
    defer cancel()

    res, err := h.Svc.CreateBooking(ctx, userID, showID, req.SeatIDs)
    if err != nil {
        return writeBookingError(c, err)
    }

    tickets := make([]ticketResp, 0, len(res.Tickets))
    for _, t := range res.Tickets {
        tickets = append(tickets, ticketResp{SeatID: t.SeatID, TicketCode: t.TicketCode})
    }
    return c.JSON(http.StatusCreated, bookingResp{
        BookingID:   res.Booking.ID,
        Status:      res.Booking.Status,
        AmountCents: res.Payment.AmountCents,
        Currency:    res.Payment.Currency,
        ConfirmedAt: res.Booking.ConfirmedAt.UTC().Format(time.RFC3339),
        Tickets:     tickets,
    })
}

// ListBookings returns the authenticated user's bookings, newest first.
func (h *BookingHandler) ListBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Bookings.ListByUser(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// GetBooking returns one booking with its tickets, provided it belongs
// to the authenticated user.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    detail, err := h.Bookings.GetByIDForUser(ctx, bookingID, userID)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, detail)
}

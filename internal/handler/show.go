package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/show-ticketing/internal/booking"
    "github.com/iliyamo/show-ticketing/internal/model"
    "github.com/iliyamo/show-ticketing/internal/repository"
)

// ShowHandler exposes unauthenticated browse endpoints: upcoming shows,
// show details and the per-show seat map with advisory holds overlaid.
type ShowHandler struct {
    Shows *repository.ShowRepo
    Svc   *booking.Service
}

// NewShowHandler constructs a ShowHandler.
func NewShowHandler(shows *repository.ShowRepo, svc *booking.Service) *ShowHandler {
    return &ShowHandler{Shows: shows, Svc: svc}
}

type showResp struct {
    ID       uint64    `json:"id"`
    EventID  uint64    `json:"event_id"`
    VenueID  uint64    `json:"venue_id"`
    Title    string    `json:"title"`
    StartsAt time.Time `json:"starts_at"`
    EndsAt   time.Time `json:"ends_at"`
    Status   string    `json:"status"`
}

func toShowResp(s *model.Show) showResp {
    return showResp{
        ID:       s.ID,
        EventID:  s.EventID,
        VenueID:  s.VenueID,
        Title:    s.Title,
        StartsAt: s.StartsAt,
        EndsAt:   s.EndsAt,
        Status:   s.Status,
    }
}

// ListShows returns all upcoming shows for guests to browse.
func (h *ShowHandler) ListShows(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    shows, err := h.Shows.ListUpcoming(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]showResp, 0, len(shows))
    for i := range shows {
        out = append(out, toShowResp(&shows[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"shows": out})
}

// GetShow returns one show's details.
func (h *ShowHandler) GetShow(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    s, err := h.Shows.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrShowNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toShowResp(s))
}

// GetShowSeats returns the seat availability map of a show.  Seats that
// are available in the database but carry a live hold marker are reported
// as "held"; hold markers are advisory, so a held seat can still be won
// by whichever booking transaction commits first.
func (h *ShowHandler) GetShowSeats(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    seats, err := h.Svc.SeatMap(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrShowNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"show_id": id, "seats": seats})
}

package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // Echo web framework used for routing

    "github.com/iliyamo/show-ticketing/internal/handler"
    "github.com/iliyamo/show-ticketing/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Used by load balancers and monitoring to verify the service is up.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Issues a new access token without rotating the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout accepts a refresh_token body or an Authorization header and
    // does not require the JWT middleware.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("CUSTOMER"))
    auth.GET("/me", a.Me)

    e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints.  Guests can
// list upcoming shows, view show details, and inspect the seat map with
// advisory holds overlaid before deciding to book.
func RegisterPublic(e *echo.Echo, s *handler.ShowHandler) {
    e.GET("/v1/shows", s.ListShows)
    e.GET("/v1/shows/:id", s.GetShow)
    // Seat status is derived from inventory rows plus live hold markers;
    // values are "available", "held" and "not_available".
    e.GET("/v1/shows/:id/seats", s.GetShowSeats)
}

// RegisterBooking registers customer-scoped booking endpoints under /v1.
// All routes require a valid JWT and the CUSTOMER role.  Customers can
// place advisory holds on seats, book held or free seats, and view their
// own bookings.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("CUSTOMER"),
    )
    g.POST("/shows/:id/hold", h.HoldSeats)
    g.POST("/shows/:id/book", h.CreateBooking)
    g.GET("/my-bookings", h.ListBookings)
    g.GET("/bookings/:id", h.GetBooking)
}

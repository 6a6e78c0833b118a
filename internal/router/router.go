package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"                                // import the Echo web framework to handle routing
    "github.com/prometheus/client_golang/prometheus/promhttp"    // promhttp serves the Prometheus scrape endpoint

    "github.com/iliyamo/sport-venue-booking/internal/handler"    // import the handlers that implement business logic
    "github.com/iliyamo/sport-venue-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check used by load balancers
// and the Prometheus metrics scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterBooking registers the booking and match lifecycle routes.
// Every route requires a valid access token; tokens are issued by the
// separate auth service and verified here with the shared secret.  The
// completion route is additionally restricted to the check-in
// subsystem's service role.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))

    // Booking lifecycle.  Status transitions requested by the owner go
    // through a single PATCH endpoint; completion is system-initiated.
    auth.POST("/bookings", h.CreateBooking)
    auth.PATCH("/bookings/:id/status", h.UpdateStatus)
    auth.POST("/bookings/:id/complete", h.Complete, middleware.RequireRole("SYSTEM", "ADMIN"))

    // Match membership and invite codes.
    auth.POST("/matches/join", h.JoinByCode)
    auth.POST("/matches/:id/regenerate-code", h.RegenerateCode)
    auth.DELETE("/matches/:id/players/me", h.LeaveMatch)
}

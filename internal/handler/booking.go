package handler

import (
    "net/http" // HTTP status codes
    "strings"  // normalizing the requested status
    "time"     // parsing slot timestamps

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/sport-venue-booking/internal/booking" // booking lifecycle service
    "github.com/iliyamo/sport-venue-booking/internal/model"   // model holds enum types
)

// BookingHandler exposes the booking lifecycle over HTTP.  All methods
// assume JWT authentication has already been performed by middleware and
// may return 401 Unauthorized if the user ID cannot be extracted from
// the context.  Transactionality lives in the service layer; handlers
// only parse, delegate and translate errors.
type BookingHandler struct {
    Svc *booking.Service // Svc orchestrates all lifecycle transitions
}

// NewBookingHandler constructs a BookingHandler and panics if the
// service is nil.
func NewBookingHandler(svc *booking.Service) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Svc: svc}
}

// createBookingRequest is the body for POST /v1/bookings.  Timestamps
// are RFC 3339; optional match attributes may be omitted.
type createBookingRequest struct {
    VenueID     uint64  `json:"venue_id"`
    SportID     uint64  `json:"sport_id"`
    StartsAt    string  `json:"starts_at"`
    EndsAt      string  `json:"ends_at"`
    Title       string  `json:"title"`
    PlayerLimit uint32  `json:"player_limit"`
    MatchType   string  `json:"match_type"`
    SplitType   string  `json:"split_type"`
    SkillLevel  *string `json:"skill_level,omitempty"`
    AgeGroup    *string `json:"age_group,omitempty"`
    Gender      *string `json:"gender,omitempty"`
    OrgID       *uint64 `json:"org_id,omitempty"`
    Team        *string `json:"team,omitempty"`
}

// CreateBooking handles POST /v1/bookings.  It reserves the requested
// slot, creates the match with a fresh invite code and charges the
// creator's escrow share.  Returns 201 with the booking and match on
// success, 409 when the slot is already taken.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body createBookingRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.VenueID == 0 || body.SportID == 0 || body.PlayerLimit == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_id, sport_id and player_limit are required"})
    }
    startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
    }
    endsAt, err := time.Parse(time.RFC3339, body.EndsAt)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC 3339"})
    }
    matchType := model.MatchType(strings.ToUpper(strings.TrimSpace(body.MatchType)))
    if matchType != model.MatchPublic && matchType != model.MatchPrivate {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "match_type must be PUBLIC or PRIVATE"})
    }
    splitType := model.PaymentSplitType(strings.ToUpper(strings.TrimSpace(body.SplitType)))
    if splitType != model.SplitCreatorPaysAll && splitType != model.SplitEvenly {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "split_type must be CREATOR_PAYS_ALL or SPLIT_EVENLY"})
    }

    b, m, err := h.Svc.CreateBooking(c.Request().Context(), booking.CreateBookingInput{
        RequesterID: userID,
        VenueID:     body.VenueID,
        SportID:     body.SportID,
        StartsAt:    startsAt.UTC(),
        EndsAt:      endsAt.UTC(),
        Title:       body.Title,
        PlayerLimit: body.PlayerLimit,
        MatchType:   matchType,
        SplitType:   splitType,
        SkillLevel:  body.SkillLevel,
        AgeGroup:    body.AgeGroup,
        Gender:      body.Gender,
        OrgID:       body.OrgID,
        Team:        body.Team,
    })
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"booking": b, "match": m})
}

// UpdateStatus handles PATCH /v1/bookings/:id/status.  The body names
// the target status; only the owner transitions CONFIRMED and CANCELLED
// are reachable here.  COMPLETED belongs to the check-in subsystem and
// is rejected with 400.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    var b *model.Booking
    switch model.BookingStatus(strings.ToUpper(strings.TrimSpace(body.Status))) {
    case model.BookingConfirmed:
        b, err = h.Svc.Confirm(c.Request().Context(), userID, bookingID)
    case model.BookingCancelled:
        b, err = h.Svc.Cancel(c.Request().Context(), userID, bookingID)
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED or CANCELLED"})
    }
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Complete handles POST /v1/bookings/:id/complete.  The route is meant
// for the check-in subsystem and is guarded by role middleware rather
// than ownership.
func (h *BookingHandler) Complete(c echo.Context) error {
    bookingID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Svc.Complete(c.Request().Context(), bookingID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

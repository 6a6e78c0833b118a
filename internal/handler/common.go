package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "net/http" // HTTP status codes
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/sport-venue-booking/internal/booking" // booking exposes the lifecycle sentinels
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT middleware stores the token subject under "user_id"; depending on
// how the token was issued the claim may arrive as a string or a float64.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case float64:
        if t > 0 {
            return uint64(t), nil
        }
    case string:
        if id, err := strconv.ParseUint(t, 10, 64); err == nil && id > 0 {
            return id, nil
        }
    }
    return 0, errors.New("user_id missing from context")
}

// pathID parses a positive uint64 path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// fail maps a lifecycle error to an HTTP response.  Validation failures are
// 400, ownership failures 403, missing resources 404, state and calendar
// conflicts 409 and credit shortfalls 402.  Anything unrecognized is a 500
// with a generic message so internals never leak to clients.
func fail(c echo.Context, err error) error {
    var hours *booking.OutsideHoursError
    if errors.As(err, &hours) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": hours.Error()})
    }
    var conflict *booking.SlotConflictError
    if errors.As(err, &conflict) {
        return c.JSON(http.StatusConflict, echo.Map{"error": conflict.Error()})
    }
    switch {
    case errors.Is(err, booking.ErrInvalidInterval),
        errors.Is(err, booking.ErrDurationExceeded),
        errors.Is(err, booking.ErrNotInFuture),
        errors.Is(err, booking.ErrSpansMultipleDays),
        errors.Is(err, booking.ErrCapacityExceeded),
        errors.Is(err, booking.ErrInvalidPaymentConfig):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, booking.ErrVenueNotFound),
        errors.Is(err, booking.ErrBookingNotFound),
        errors.Is(err, booking.ErrMatchNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrInvalidTransition),
        errors.Is(err, booking.ErrBookingTooOldToCancel),
        errors.Is(err, booking.ErrMatchNotOpen),
        errors.Is(err, booking.ErrAlreadyJoined),
        errors.Is(err, booking.ErrNotAPlayer),
        errors.Is(err, booking.ErrCreatorCannotLeave):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrInsufficientCredits):
        return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "insufficient credits"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

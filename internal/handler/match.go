package handler

import (
    "net/http" // HTTP status codes

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/sport-venue-booking/internal/matchcode" // matchcode formats invite codes
)

// RegenerateCode handles POST /v1/matches/:id/regenerate-code.  Only
// the booking owner may rotate the invite code; the old code stops
// working the moment the new one commits.
func (h *BookingHandler) RegenerateCode(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    matchID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid match id"})
    }
    code, err := h.Svc.RegenerateMatchCode(c.Request().Context(), userID, matchID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "match_code": code,
        "display":    matchcode.FormatForDisplay(code),
    })
}

// JoinByCode handles POST /v1/matches/join.  The body carries the
// invite code in any user-entered form (hyphens and lowercase are
// tolerated); the requester is charged their per-player share on
// success.
func (h *BookingHandler) JoinByCode(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        Code string `json:"code"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
    }
    m, err := h.Svc.JoinMatchByCode(c.Request().Context(), userID, body.Code)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"match": m})
}

// LeaveMatch handles DELETE /v1/matches/:id/players/me.  The requester
// leaves the match and their per-player share is refunded; the creator
// must cancel the booking instead.
func (h *BookingHandler) LeaveMatch(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    matchID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid match id"})
    }
    if err := h.Svc.LeaveMatch(c.Request().Context(), userID, matchID); err != nil {
        return fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

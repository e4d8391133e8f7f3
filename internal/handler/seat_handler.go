// Package handler contains the HTTP handlers: the public seat resolution
// endpoint and the admin mutation endpoints.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mosaicolive/mosaico/internal/repository"
	"github.com/mosaicolive/mosaico/internal/service"
)

// SeatHandler serves the device-facing resolution endpoint plus the
// operator endpoints that manage the cache directly (warmup, invalidate).
type SeatHandler struct {
	Seats *service.SeatService
}

// NewSeatHandler constructs a SeatHandler around the resolution service.
func NewSeatHandler(s *service.SeatService) *SeatHandler {
	return &SeatHandler{Seats: s}
}

// GetSeat handles GET /seat/:seat_id. It always answers 200 with a
// renderable record; unknown or unseeded seats get the degraded waiting
// record, never a 404, because the caller is a screen in a crowd.
func (h *SeatHandler) GetSeat(c echo.Context) error {
	seatID := c.Param("seat_id")
	if seatID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
	}
	res := h.Seats.Resolve(c.Request().Context(), seatID)
	return c.JSON(http.StatusOK, res)
}

// WarmupEvent handles POST /seat/admin/events/:event_id/warmup. Unlike the
// read path this fails loudly: 404 for a missing event, 400 for an empty
// roster, with cache state untouched either way.
func (h *SeatHandler) WarmupEvent(c echo.Context) error {
	eventID := c.Param("event_id")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	stats, err := h.Seats.Warmup(c.Request().Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, service.ErrEmptyRoster):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "event has no seat assignments"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "warmup failed"})
	}
	return c.JSON(http.StatusOK, stats)
}

// InvalidateSeat handles POST /seat/invalidate with body {"seatId": ...}.
func (h *SeatHandler) InvalidateSeat(c echo.Context) error {
	var body struct {
		SeatID string `json:"seatId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.SeatID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatId is required"})
	}
	h.Seats.InvalidateSeat(c.Request().Context(), body.SeatID)
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("cache invalidated for seat %s", body.SeatID)})
}

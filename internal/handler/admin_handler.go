package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mosaicolive/mosaico/internal/repository"
	"github.com/mosaicolive/mosaico/internal/service"
)

// AdminHandler serves the event and seat-color mutation endpoints. A human
// operator sits behind these, so store failures surface as 500 instead of
// degrading the way the read path does.
type AdminHandler struct {
	Events *service.EventService
}

// NewAdminHandler constructs an AdminHandler around the event service.
func NewAdminHandler(s *service.EventService) *AdminHandler {
	return &AdminHandler{Events: s}
}

// CreateEvent handles POST /admin/event with {"name", "fallbackColor"?}.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var body struct {
		Name          string `json:"name"`
		FallbackColor string `json:"fallbackColor"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ev, err := h.Events.CreateActiveEvent(c.Request().Context(), body.Name, body.FallbackColor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create event"})
	}
	return c.JSON(http.StatusOK, ev)
}

// SetSeatColor handles POST /admin/seat-color with {"seatId", "color"}.
func (h *AdminHandler) SetSeatColor(c echo.Context) error {
	var body struct {
		SeatID string `json:"seatId"`
		Color  string `json:"color"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.SeatID == "" || body.Color == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatId and color are required"})
	}
	a, err := h.Events.SetSeatColor(c.Request().Context(), body.SeatID, body.Color)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not set seat color"})
	}
	return c.JSON(http.StatusOK, a)
}

// ResetEvent handles POST /admin/event/reset. The service clears the seat
// cache as part of the reset so stale colors cannot outlive the store
// deletion.
func (h *AdminHandler) ResetEvent(c echo.Context) error {
	if err := h.Events.ResetEvent(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not reset event"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// EventMap handles GET /admin/event/map, the roster view of the active
// event as a flat seatId→color object.
func (h *AdminHandler) EventMap(c echo.Context) error {
	m, err := h.Events.EventMap(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load event map"})
	}
	return c.JSON(http.StatusOK, m)
}

// EventRoster handles GET /admin/events/:event_id/seats, returning the
// event header and its full assignment list.
func (h *AdminHandler) EventRoster(c echo.Context) error {
	eventID := c.Param("event_id")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	roster, err := h.Events.EventRoster(c.Request().Context(), eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load event"})
	}
	return c.JSON(http.StatusOK, roster)
}

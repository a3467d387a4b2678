package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-booking/internal/model"
	"github.com/iliyamo/ticket-booking/internal/repository"
)

// defaultEventLimit is used when the limit query parameter is absent.
const defaultEventLimit = 50

// EventLister reads back recorded ticket events.
type EventLister interface {
	Recent(ctx context.Context, limit int) ([]repository.StoredEvent, error)
}

// AdminHandler serves the audit trail of ticket events.
type AdminHandler struct {
	Events EventLister
}

func NewAdminHandler(events EventLister) *AdminHandler {
	if events == nil {
		panic("nil event lister passed to NewAdminHandler")
	}
	return &AdminHandler{Events: events}
}

// ListEvents handles GET /api/v1/admin/events?limit=.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	limit := defaultEventLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, model.Fail("invalid limit"))
		}
		limit = n
	}
	events, err := h.Events.Recent(c.Request().Context(), limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidLimit) {
			return c.JSON(http.StatusBadRequest, model.Fail("invalid limit"))
		}
		c.Logger().Errorf("admin: list events: %v", err)
		return c.JSON(http.StatusInternalServerError, model.Fail("database error"))
	}
	return c.JSON(http.StatusOK, model.OK("Ticket events retrieved successfully", events))
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-booking/internal/metrics"
	"github.com/iliyamo/ticket-booking/internal/model"
	"github.com/iliyamo/ticket-booking/internal/queue"
	"github.com/iliyamo/ticket-booking/internal/service"
)

// EventPublisher delivers ticket events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.TicketEvent) error
}

// TicketHandler exposes the registry over HTTP.  Every response is a
// model.Response envelope; a missing ticket is a normal 200 reply with
// success=false, not an error status.
type TicketHandler struct {
	Registry *service.Registry
	Events   EventPublisher

	now func() time.Time
}

// NewTicketHandler constructs a TicketHandler and panics if the registry is
// nil.  A nil publisher disables events.
func NewTicketHandler(reg *service.Registry, events EventPublisher) *TicketHandler {
	if reg == nil {
		panic("nil registry passed to NewTicketHandler")
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	return &TicketHandler{Registry: reg, Events: events, now: time.Now}
}

// Buy handles POST /api/v1/tickets/buy.  The body is a user; the reply
// carries the issued ticket.
func (h *TicketHandler) Buy(c echo.Context) error {
	var u model.User
	if err := c.Bind(&u); err != nil {
		metrics.TrackOperation("buy", metrics.OutcomeInvalid)
		return c.JSON(http.StatusBadRequest, model.Fail("invalid request body"))
	}
	if err := u.Validate(); err != nil {
		metrics.TrackOperation("buy", metrics.OutcomeInvalid)
		return c.JSON(http.StatusBadRequest, model.Fail(err.Error()))
	}

	c.Logger().Infof("tickets: purchasing ticket for %s", u.Email)
	b, err := h.Registry.Buy(u)
	if err != nil {
		return h.internalError(c, "buy", "Ticket purchase failed", err)
	}
	metrics.TrackOperation("buy", metrics.OutcomeSuccess)
	h.publish(c, queue.EventTicketPurchased, b)
	return c.JSON(http.StatusOK, model.OK("Ticket bought successfully", &b.Ticket))
}

// Details handles GET /api/v1/tickets/details?email=.
func (h *TicketHandler) Details(c echo.Context) error {
	email, ok := emailParam(c)
	if !ok {
		metrics.TrackOperation("details", metrics.OutcomeInvalid)
		return c.JSON(http.StatusBadRequest, model.Fail("email is required"))
	}
	tk, found := h.Registry.FindByEmail(email)
	if !found {
		c.Logger().Infof("tickets: ticket not found for %s", email)
		metrics.TrackOperation("details", metrics.OutcomeNotFound)
		return c.JSON(http.StatusOK, model.Fail("Ticket not found for the given email"))
	}
	metrics.TrackOperation("details", metrics.OutcomeSuccess)
	return c.JSON(http.StatusOK, model.OK("Ticket details retrieved successfully", &tk))
}

// Section handles GET /api/v1/tickets/section?section=.  The value is used
// verbatim; an unknown or empty section answers success=false with null
// data.  Only a missing parameter is a bad request.
func (h *TicketHandler) Section(c echo.Context) error {
	section, ok := rawParam(c, "section")
	if !ok {
		metrics.TrackOperation("section", metrics.OutcomeInvalid)
		return c.JSON(http.StatusBadRequest, model.Fail("section is required"))
	}
	tickets := h.Registry.ListBySection(section)
	if len(tickets) == 0 {
		c.Logger().Infof("tickets: no tickets found for section %s", section)
		metrics.TrackOperation("section", metrics.OutcomeNotFound)
		return c.JSON(http.StatusOK, model.Fail("No tickets found for the given section"))
	}
	metrics.TrackOperation("section", metrics.OutcomeSuccess)
	return c.JSON(http.StatusOK, model.OK("Tickets for the section retrieved successfully", tickets))
}

// Remove handles DELETE /api/v1/tickets/remove?email=.
func (h *TicketHandler) Remove(c echo.Context) error {
	email, ok := emailParam(c)
	if !ok {
		metrics.TrackOperation("remove", metrics.OutcomeInvalid)
		return c.JSON(http.StatusBadRequest, model.Fail("email is required"))
	}
	b, removed := h.Registry.Remove(email)
	if !removed {
		c.Logger().Infof("tickets: user not found or could not be removed for %s", email)
		metrics.TrackOperation("remove", metrics.OutcomeNotFound)
		return c.JSON(http.StatusOK, model.Fail("User not found or could not be removed"))
	}
	metrics.TrackOperation("remove", metrics.OutcomeSuccess)
	h.publish(c, queue.EventTicketRemoved, b)
	return c.JSON(http.StatusOK, model.OK[any]("User removed successfully", nil))
}

// Modify handles PUT /api/v1/tickets/modify?email=&newSection=.  The
// section code is used verbatim.
func (h *TicketHandler) Modify(c echo.Context) error {
	email, ok := emailParam(c)
	newSection, hasSection := rawParam(c, "newSection")
	if !ok || !hasSection {
		metrics.TrackOperation("modify", metrics.OutcomeInvalid)
		return c.JSON(http.StatusBadRequest, model.Fail("email and newSection are required"))
	}
	b, modified, err := h.Registry.ModifySeat(email, newSection)
	if err != nil {
		return h.internalError(c, "modify", "Modification failed. Check user email or section", err)
	}
	if !modified {
		c.Logger().Infof("tickets: modification failed for %s, check user email or section", email)
		metrics.TrackOperation("modify", metrics.OutcomeNotFound)
		return c.JSON(http.StatusOK, model.Fail("Modification failed. Check user email or section"))
	}
	metrics.TrackOperation("modify", metrics.OutcomeSuccess)
	h.publish(c, queue.EventTicketSeatModified, b)
	return c.JSON(http.StatusOK, model.OK[any]("User seat modified successfully", nil))
}

// emailParam returns the lowercased email query parameter.
func emailParam(c echo.Context) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
	return email, email != ""
}

// rawParam returns the query parameter exactly as sent and whether it was
// present at all.
func rawParam(c echo.Context, name string) (string, bool) {
	vals, ok := c.QueryParams()[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// publish emits the event for a successful mutation.  Failures are logged
// and otherwise ignored.
func (h *TicketHandler) publish(c echo.Context, eventType string, b service.Booking) {
	ev := queue.NewTicketEvent(eventType, b.Ticket, b.Section, h.now())
	if err := h.Events.Publish(c.Request().Context(), ev); err != nil {
		c.Logger().Warnf("tickets: publish %s for %s: %v", eventType, b.User.Email, err)
	}
}

// internalError turns a registry failure into a 500 envelope.
func (h *TicketHandler) internalError(c echo.Context, op, fallback string, err error) error {
	metrics.TrackOperation(op, metrics.OutcomeError)
	c.Logger().Errorf("tickets: %s: %v", op, err)
	msg := fallback
	var se *service.ServiceError
	if errors.As(err, &se) {
		msg = se.Msg
	}
	return c.JSON(http.StatusInternalServerError, model.Fail(msg))
}

package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type EventController struct {
	Events *services.EventService
	Logger *log.Logger
}

func NewEventController(events *services.EventService, logger *log.Logger) *EventController {
	return &EventController{Events: events, Logger: logger}
}

// parseDateParam accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC).
func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetEvents godoc
// @Summary List events
// @Description Events ordered by start. start_date and end_date narrow the range.
// @Tags events
// @Produce json
// @Param start_date query string false "Earliest start (RFC 3339 or YYYY-MM-DD)"
// @Param end_date query string false "Latest end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {array} models.Event
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /events [get]
func (ec *EventController) GetEvents(c *fiber.Ctx) error {
	from, err := parseDateParam(c.Query("start_date"))
	if err != nil {
		return utils.BadRequest(c, "Invalid start_date")
	}
	to, err := parseDateParam(c.Query("end_date"))
	if err != nil {
		return utils.BadRequest(c, "Invalid end_date")
	}

	events, err := ec.Events.List(c.UserContext(), utils.CurrentUserID(c), services.EventRange{From: from, To: to})
	if err != nil {
		return handleError(c, ec.Logger, err, "Event not found")
	}
	return utils.Success(c, fiber.StatusOK, events)
}

// CreateEvent godoc
// @Summary Create event
// @Description Saves the event and mails an invite.ics to the user
// @Tags events
// @Accept json
// @Produce json
// @Param input body services.EventInput true "Event data"
// @Success 201 {object} models.Event
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /events [post]
func (ec *EventController) CreateEvent(c *fiber.Ctx) error {
	var input services.EventInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	event, err := ec.Events.Create(c.UserContext(), utils.CurrentUserID(c), input)
	if err != nil {
		return handleError(c, ec.Logger, err, "Event not found")
	}
	return utils.Created(c, event)
}

// UpdateEvent godoc
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param input body services.EventInput true "Event data"
// @Success 200 {object} models.Event
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /events/{id} [put]
func (ec *EventController) UpdateEvent(c *fiber.Ctx) error {
	eventID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid event ID")
	}

	var input services.EventInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	event, err := ec.Events.Update(c.UserContext(), utils.CurrentUserID(c), eventID, input)
	if err != nil {
		return handleError(c, ec.Logger, err, "Event not found")
	}
	return utils.Success(c, fiber.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete event
// @Tags events
// @Param id path int true "Event ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /events/{id} [delete]
func (ec *EventController) DeleteEvent(c *fiber.Ctx) error {
	eventID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid event ID")
	}

	if err := ec.Events.Delete(c.UserContext(), utils.CurrentUserID(c), eventID); err != nil {
		return handleError(c, ec.Logger, err, "Event not found")
	}
	return utils.Message(c, "Event deleted successfully")
}

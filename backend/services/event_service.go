package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"gorm.io/gorm"

	"learnhub/backend/models"
)

// defaultEventLength applies to the invite of an event without an end.
const defaultEventLength = time.Hour

type EventInput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Start        *time.Time `json:"start"`
	End          *time.Time `json:"end"`
	ResourceType string     `json:"resourceType"`
	ResourceLink string     `json:"resourceLink"`
}

// EventRange narrows a listing to events starting at or after From and
// ending at or before To. A nil bound is open.
type EventRange struct {
	From *time.Time
	To   *time.Time
}

// EventService keeps the user's calendar and mails an .ics invite whenever an
// event is created or changed.
type EventService struct {
	db     *gorm.DB
	mail   *Dispatcher
	logger *log.Logger
}

func NewEventService(db *gorm.DB, mail *Dispatcher, logger *log.Logger) *EventService {
	return &EventService{db: db, mail: mail, logger: logger}
}

func (in EventInput) validate() (models.EventResourceType, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "is required"
	}
	if in.Start == nil || in.Start.IsZero() {
		fields["start"] = "is required"
	}
	resourceType := models.EventResourceType(in.ResourceType)
	if resourceType == "" {
		resourceType = models.EventLink
	}
	if !resourceType.Valid() {
		fields["resourceType"] = "must be one of link, video, book, article"
	}
	if in.Start != nil && in.End != nil && !in.End.After(*in.Start) {
		fields["end"] = "must be after start"
	}
	if len(fields) > 0 {
		return "", invalid("Invalid event", fields)
	}
	return resourceType, nil
}

func (in EventInput) apply(event *models.Event, resourceType models.EventResourceType) {
	event.Title = strings.TrimSpace(in.Title)
	event.Description = strings.TrimSpace(in.Description)
	event.StartsAt = in.Start.UTC()
	event.EndsAt = nil
	if in.End != nil {
		end := in.End.UTC()
		event.EndsAt = &end
	}
	event.ResourceType = resourceType
	event.ResourceLink = strings.TrimSpace(in.ResourceLink)
}

// List returns the user's events ordered by start time.
func (s *EventService) List(ctx context.Context, userID uint, r EventRange) ([]models.Event, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if r.From != nil {
		query = query.Where("starts_at >= ?", r.From.UTC())
	}
	if r.To != nil {
		query = query.Where("COALESCE(ends_at, starts_at) <= ?", r.To.UTC())
	}

	var events []models.Event
	if err := query.Order("starts_at ASC, id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *EventService) Create(ctx context.Context, userID uint, in EventInput) (*models.Event, error) {
	resourceType, err := in.validate()
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, lookupErr("user", err)
	}

	event := models.Event{UserID: userID}
	in.apply(&event, resourceType)
	if err := db.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.sendInvite(user.Email, &event, "New Event")
	return &event, nil
}

// Update replaces every field of the user's event and mails a fresh invite.
func (s *EventService) Update(ctx context.Context, userID, eventID uint, in EventInput) (*models.Event, error) {
	resourceType, err := in.validate()
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, lookupErr("user", err)
	}

	var event models.Event
	if err := db.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		return nil, lookupErr("event", err)
	}
	in.apply(&event, resourceType)
	if err := db.Save(&event).Error; err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}

	s.sendInvite(user.Email, &event, "Updated Event")
	return &event, nil
}

func (s *EventService) Delete(ctx context.Context, userID, eventID uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", eventID, userID).Delete(&models.Event{})
	if res.Error != nil {
		return fmt.Errorf("delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event: %w", ErrNotFound)
	}
	return nil
}

func (s *EventService) sendInvite(to string, event *models.Event, heading string) {
	s.mail.Dispatch(MailMessage{
		To:      to,
		Subject: fmt.Sprintf("%s: %s", heading, event.Title),
		Body:    eventMailBody(event),
		Attachments: []MailAttachment{{
			Filename:    "invite.ics",
			ContentType: "text/calendar; method=REQUEST",
			Data:        []byte(EventInvite(event)),
		}},
	})
}

func eventMailBody(event *models.Event) string {
	end := "Not specified"
	if event.EndsAt != nil {
		end = event.EndsAt.Format(time.RFC1123)
	}
	link := event.ResourceLink
	if link == "" {
		link = "Not provided"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", event.Title)
	if event.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", event.Description)
	}
	fmt.Fprintf(&sb, "Start: %s\n", event.StartsAt.Format(time.RFC1123))
	fmt.Fprintf(&sb, "End: %s\n", end)
	fmt.Fprintf(&sb, "Resource type: %s\n", event.ResourceType)
	fmt.Fprintf(&sb, "Resource link: %s\n\n", link)
	sb.WriteString("You can add this event to your calendar using the attached invite.ics file.\n")
	return sb.String()
}

// EventInvite renders the event as an iCalendar REQUEST.
func EventInvite(event *models.Event) string {
	end := event.StartsAt.Add(defaultEventLength)
	if event.EndsAt != nil {
		end = *event.EndsAt
	}

	cal := ics.NewCalendarFor("LearnHub")
	cal.SetMethod(ics.MethodRequest)
	ev := cal.AddEvent(fmt.Sprintf("event-%d@learnhub", event.ID))
	ev.SetDtStampTime(event.UpdatedAt.UTC())
	ev.SetCreatedTime(event.CreatedAt.UTC())
	ev.SetModifiedAt(event.UpdatedAt.UTC())
	ev.SetStartAt(event.StartsAt.UTC())
	ev.SetEndAt(end.UTC())
	ev.SetSummary(event.Title)
	if event.Description != "" {
		ev.SetDescription(event.Description)
	}
	if event.ResourceLink != "" {
		ev.SetLocation(event.ResourceLink)
		ev.SetURL(event.ResourceLink)
	}
	ev.AddProperty(ics.ComponentPropertyCategories, string(event.ResourceType))
	return cal.Serialize()
}

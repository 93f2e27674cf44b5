package event

import "time"

// CreateEventRequest represents the request to create a new event
type CreateEventRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=100"`
	Type        string    `json:"type" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Address     string    `json:"address" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
}

// EventResponse represents an event in API responses. SignedUp is computed
// for the requesting user.
type EventResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	Date          time.Time `json:"date"`
	Attendees     []string  `json:"attendees"`
	AttendeeCount int       `json:"attendee_count"`
	SignedUp      bool      `json:"signed_up"`
}

// ToResponse converts an Event model to an EventResponse DTO for the given
// viewer.
func (e *Event) ToResponse(viewerEmail string) *EventResponse {
	return &EventResponse{
		ID:            e.ID,
		Name:          e.Name,
		Type:          e.Type,
		Description:   e.Description,
		Address:       e.Address,
		Date:          e.Date,
		Attendees:     append([]string(nil), e.Attendees...),
		AttendeeCount: len(e.Attendees),
		SignedUp:      e.IsAttending(viewerEmail),
	}
}

// ToResponses converts a slice of models for the given viewer, keeping
// order.
func ToResponses(events []Event, viewerEmail string) []*EventResponse {
	out := make([]*EventResponse, len(events))
	for i := range events {
		out[i] = events[i].ToResponse(viewerEmail)
	}
	return out
}

package event

import (
	"errors"
	"fmt"
	"time"

	"github.com/andydlo/neighborhood-connect/internal/store"
)

// Collection is the storage path for event records.
const Collection = "events"

// ErrMalformedRecord marks a snapshot missing a required field or carrying
// one of the wrong type.
var ErrMalformedRecord = errors.New("malformed event record")

// DefaultTypes are the event categories offered by clients. The type field
// itself is open: a record with a type outside this list is still valid.
var DefaultTypes = []string{"Gathering", "Sporting", "Party", "Workshop", "Concert"}

// Event is a local event users sign up for. Attendees holds user
// identifiers (emails) with no duplicates; the creator starts on the list
// but, unlike a group creator, may later remove themselves.
type Event struct {
	ID          string
	Name        string
	Type        string
	Description string
	Address     string
	Date        time.Time
	Attendees   []string
}

// Decode builds an Event from a stored snapshot. The date field is
// epoch seconds. Returns ErrMalformedRecord (wrapped) when any required
// field is absent or mistyped.
func Decode(key string, f store.Fields) (*Event, error) {
	name, ok := f.String("name")
	if !ok {
		return nil, fmt.Errorf("%w %s: name", ErrMalformedRecord, key)
	}
	eventType, ok := f.String("type")
	if !ok {
		return nil, fmt.Errorf("%w %s: type", ErrMalformedRecord, key)
	}
	description, ok := f.String("description")
	if !ok {
		return nil, fmt.Errorf("%w %s: description", ErrMalformedRecord, key)
	}
	address, ok := f.String("address")
	if !ok {
		return nil, fmt.Errorf("%w %s: address", ErrMalformedRecord, key)
	}
	seconds, ok := f.Number("date")
	if !ok {
		return nil, fmt.Errorf("%w %s: date", ErrMalformedRecord, key)
	}
	attendees, ok := f.StringSlice("attendees")
	if !ok {
		return nil, fmt.Errorf("%w %s: attendees", ErrMalformedRecord, key)
	}

	return &Event{
		ID:          key,
		Name:        name,
		Type:        eventType,
		Description: description,
		Address:     address,
		Date:        time.Unix(int64(seconds), 0),
		Attendees:   attendees,
	}, nil
}

// Encode converts the record to its persisted field map.
func (e *Event) Encode() store.Fields {
	return store.Fields{
		"name":        e.Name,
		"type":        e.Type,
		"description": e.Description,
		"address":     e.Address,
		"date":        float64(e.Date.Unix()),
		"attendees":   append([]string(nil), e.Attendees...),
	}
}

// IsAttending reports whether email is on the attendee list.
func (e *Event) IsAttending(email string) bool {
	for _, a := range e.Attendees {
		if a == email {
			return true
		}
	}
	return false
}

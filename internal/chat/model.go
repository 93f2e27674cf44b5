package chat

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/andydlo/neighborhood-connect/internal/store"
)

// Messages live under their owning group: groupChats/<id>/messages. The
// parent collection name must match neighborhood.Collection.
const groupCollection = "groupChats"

// MessagesPath returns the storage path of a group's message stream.
func MessagesPath(neighborhoodID string) string {
	return fmt.Sprintf("%s/%s/messages", groupCollection, neighborhoodID)
}

// ErrMalformedRecord marks a message snapshot missing a required field.
var ErrMalformedRecord = errors.New("malformed message record")

// Message is a chat message scoped to exactly one group. Immutable once
// created. PostedAt is assigned by the service at write time so display
// order is deterministic regardless of stream arrival order.
type Message struct {
	ID       string
	Text     string
	UserID   string
	PostedAt time.Time
}

// Decode builds a Message from a stored snapshot. postedAt is tolerated
// absent for records written before ordering was introduced; such messages
// sort first.
func Decode(key string, f store.Fields) (*Message, error) {
	text, ok := f.String("text")
	if !ok {
		return nil, fmt.Errorf("%w %s: text", ErrMalformedRecord, key)
	}
	userID, ok := f.String("userID")
	if !ok {
		return nil, fmt.Errorf("%w %s: userID", ErrMalformedRecord, key)
	}

	m := &Message{ID: key, Text: text, UserID: userID}
	if millis, ok := f.Number("postedAt"); ok {
		m.PostedAt = time.UnixMilli(int64(millis))
	}
	return m, nil
}

// Encode converts the message to its persisted field map.
func (m *Message) Encode() store.Fields {
	return store.Fields{
		"text":     m.Text,
		"userID":   m.UserID,
		"postedAt": float64(m.PostedAt.UnixMilli()),
	}
}

// SortMessages orders messages by posting time, oldest first, breaking ties
// by record key.
func SortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].PostedAt.Equal(messages[j].PostedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].PostedAt.Before(messages[j].PostedAt)
	})
}

package chat

import "time"

// PostMessageRequest represents the request to post a chat message
type PostMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// MessageResponse represents a chat message in API responses
type MessageResponse struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	UserID   string    `json:"user_id"`
	PostedAt time.Time `json:"posted_at"`
}

// ToResponse converts a Message model to a MessageResponse DTO
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:       m.ID,
		Text:     m.Text,
		UserID:   m.UserID,
		PostedAt: m.PostedAt,
	}
}

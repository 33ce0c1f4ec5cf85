package models

import "time"

// Message limits
const (
	MaxMessageLength = 2000
)

// Message is a direct chat message between two users
type Message struct {
	ID           int        `json:"id"`
	SenderID     int        `json:"senderId"`
	RecipientID  int        `json:"recipientId"`
	Body         string     `json:"body"`
	CreatedAt    time.Time  `json:"createdAt"`
	ReadAt       *time.Time `json:"readAt,omitempty"`
	RelativeTime string     `json:"relativeTime,omitempty"`
}

// SendMessageRequest represents a send message request
type SendMessageRequest struct {
	RecipientID int    `json:"recipientId"`
	Body        string `json:"body"`
}

// MessagePage is a cursor-paginated page of messages
type MessagePage struct {
	Items      []Message `json:"messages"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// Conversation summarises the latest message exchanged with a partner
type Conversation struct {
	PartnerID   int     `json:"partnerId"`
	PartnerName string  `json:"partnerName"`
	LastMessage Message `json:"lastMessage"`
	UnreadCount int     `json:"unreadCount"`
}

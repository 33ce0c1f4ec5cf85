package models

// EventType identifies a realtime event pushed to connected clients
type EventType string

const (
	EventNotification EventType = "notification"
	EventMessage      EventType = "message"
)

// Event is a realtime event addressed to one user
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

package models

import "time"

// NotificationType represents the source of a notification
type NotificationType string

const (
	NotificationTypeAnnouncement NotificationType = "announcement"
	NotificationTypeMessage      NotificationType = "message"
	NotificationTypeClassJoin    NotificationType = "class_join"
	NotificationTypeExchange     NotificationType = "exchange"
)

// Notification is an in-app notification
type Notification struct {
	ID           int              `json:"id"`
	UserID       int              `json:"userId"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Body         string           `json:"body"`
	Link         string           `json:"link,omitempty"`
	ReadAt       *time.Time       `json:"readAt,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	RelativeTime string           `json:"relativeTime,omitempty"`
}

// NotificationPage is a cursor-paginated page of notifications
type NotificationPage struct {
	Items       []Notification `json:"notifications"`
	UnreadCount int            `json:"unreadCount"`
	NextCursor  string         `json:"nextCursor,omitempty"`
}

// EmailRecipient is a user that should also receive a notification by e-mail
type EmailRecipient struct {
	UserID int
	Email  string
}

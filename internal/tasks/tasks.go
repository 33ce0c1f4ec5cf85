// Package tasks defines the asynq tasks exchanged between the API and the worker
package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeAnnouncementFanOut = "notification:announcement"
	TypeNotificationEmail  = "notification:email"
)

// Queue names with the priorities used by the worker
const (
	QueueNotifications = "notifications"
	QueueEmail         = "email"
)

// Queues maps queue names to their worker priority
var Queues = map[string]int{
	QueueNotifications: 5,
	QueueEmail:         2,
	"default":          1,
}

// AnnouncementPayload is the payload of TypeAnnouncementFanOut
type AnnouncementPayload struct {
	AnnouncementID int `json:"announcementId"`
}

// EmailPayload is the payload of TypeNotificationEmail
type EmailPayload struct {
	NotificationID int `json:"notificationId"`
}

// NewAnnouncementTask creates the fan-out task of an announcement
func NewAnnouncementTask(announcementID int) (*asynq.Task, error) {
	payload, err := json.Marshal(AnnouncementPayload{AnnouncementID: announcementID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAnnouncementFanOut, payload, asynq.Queue(QueueNotifications), asynq.MaxRetry(5)), nil
}

// NewEmailTask creates the e-mail task of a notification
func NewEmailTask(notificationID int) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailPayload{NotificationID: notificationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotificationEmail, payload, asynq.Queue(QueueEmail), asynq.MaxRetry(3)), nil
}

// ParseAnnouncementPayload decodes the payload of a fan-out task
func ParseAnnouncementPayload(t *asynq.Task) (AnnouncementPayload, error) {
	var p AnnouncementPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid announcement payload: %w", asynq.SkipRetry)
	}
	return p, nil
}

// ParseEmailPayload decodes the payload of an e-mail task
func ParseEmailPayload(t *asynq.Task) (EmailPayload, error) {
	var p EmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid e-mail payload: %w", asynq.SkipRetry)
	}
	return p, nil
}

// Client enqueues tasks through asynq
type Client struct {
	client *asynq.Client
}

// NewClient wraps an asynq client
func NewClient(client *asynq.Client) *Client {
	return &Client{client: client}
}

// EnqueueAnnouncement enqueues the notification fan-out of an announcement
func (c *Client) EnqueueAnnouncement(ctx context.Context, announcementID int) error {
	task, err := NewAnnouncementTask(announcementID)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue announcement fan-out: %w", err)
	}
	return nil
}

// EnqueueEmail enqueues the e-mail delivery of a notification
func (c *Client) EnqueueEmail(ctx context.Context, notificationID int) error {
	task, err := NewEmailTask(notificationID)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue notification e-mail: %w", err)
	}
	return nil
}

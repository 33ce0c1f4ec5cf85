package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hibiken/asynq"
	"github.com/piteco/backend/internal/models"
	"github.com/piteco/backend/internal/tasks"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// announcementPreviewLength limits the announcement text copied into notifications
const announcementPreviewLength = 140

// AnnouncementRepository defines the interface for announcement data access
type AnnouncementRepository interface {
	// GetByID retrieves an announcement by its ID
	//
	// If the announcement does not exist, an error wrapping models.ErrNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.Announcement, error)
}

// ClassRepository defines the interface for class data access
type ClassRepository interface {
	// GetByID retrieves a class by its ID
	GetByID(ctx context.Context, id int) (*models.Class, error)
	// MemberIDs returns the IDs of every member of a class except "excludeUserID"
	MemberIDs(ctx context.Context, classID, excludeUserID int) ([]int, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// GetByID retrieves a notification by its ID
	//
	// If the notification does not exist, an error wrapping models.ErrNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.Notification, error)
	// EmailRecipients returns the users among "userIDs" that opted in to e-mail notifications
	EmailRecipients(ctx context.Context, userIDs []int) ([]models.EmailRecipient, error)
}

// Notifier stores notifications and delivers them
type Notifier interface {
	// NotifyMany stores notifications in one batch, pushes them and schedules e-mails
	NotifyMany(ctx context.Context, notifications []*models.Notification) error
}

// Mailer sends e-mails
type Mailer interface {
	// Send delivers an HTML e-mail
	Send(to, subject, body string) error
}

// Worker handles task processing
type Worker struct {
	logger           *zap.Logger
	announcementRepo AnnouncementRepository
	classRepo        ClassRepository
	notificationRepo NotificationRepository
	notifier         Notifier
	mailer           Mailer
	appURL           string
}

// NewWorker creates a new worker instance.
// "appURL" prefixes notification links in e-mails and may be empty.
func NewWorker(
	logger *zap.Logger,
	announcementRepo AnnouncementRepository,
	classRepo ClassRepository,
	notificationRepo NotificationRepository,
	notifier Notifier,
	mailer Mailer,
	appURL string,
) *Worker {
	return &Worker{
		logger:           logger,
		announcementRepo: announcementRepo,
		classRepo:        classRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		mailer:           mailer,
		appURL:           strings.TrimRight(appURL, "/"),
	}
}

// Register registers the task handlers on mux
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeAnnouncementFanOut, w.HandleAnnouncement)
	mux.HandleFunc(tasks.TypeNotificationEmail, w.HandleEmail)
}

// HandleAnnouncement notifies every member of the announcement's class except its author
func (w *Worker) HandleAnnouncement(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseAnnouncementPayload(t)
	if err != nil {
		return err
	}

	announcement, err := w.announcementRepo.GetByID(ctx, payload.AnnouncementID)
	if err != nil {
		// Deleted before the task ran
		if errors.Is(err, models.ErrNotFound) {
			w.logger.Info("announcement gone, skipping fan-out", zap.Int("announcement_id", payload.AnnouncementID))
			return nil
		}
		return err
	}

	class, err := w.classRepo.GetByID(ctx, announcement.ClassID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}

	memberIDs, err := w.classRepo.MemberIDs(ctx, announcement.ClassID, announcement.AuthorID)
	if err != nil {
		return err
	}
	if len(memberIDs) == 0 {
		return nil
	}

	link := "/classes/" + strconv.Itoa(class.ID)
	notifications := make([]*models.Notification, 0, len(memberIDs))
	for _, userID := range memberIDs {
		notifications = append(notifications, &models.Notification{
			UserID: userID,
			Type:   models.NotificationTypeAnnouncement,
			Title:  html.EscapeString(fmt.Sprintf("Novo aviso em %s: %s", class.Name, announcement.Title)),
			Body:   html.EscapeString(preview(announcement.Body, announcementPreviewLength)),
			Link:   link,
		})
	}

	if err := w.notifier.NotifyMany(ctx, notifications); err != nil {
		return fmt.Errorf("failed to store announcement notifications: %w", err)
	}

	w.logger.Info("announcement fan-out completed",
		zap.Int("announcement_id", announcement.ID),
		zap.Int("class_id", class.ID),
		zap.Int("recipients", len(notifications)),
	)
	return nil
}

// HandleEmail sends a stored notification by e-mail when its user still opts in
func (w *Worker) HandleEmail(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseEmailPayload(t)
	if err != nil {
		return err
	}

	notification, err := w.notificationRepo.GetByID(ctx, payload.NotificationID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}

	recipients, err := w.notificationRepo.EmailRecipients(ctx, []int{notification.UserID})
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	if err := w.mailer.Send(recipients[0].Email, notification.Title, w.emailBody(notification)); err != nil {
		return err
	}

	w.logger.Info("notification e-mail sent",
		zap.Int("notification_id", notification.ID),
		zap.Int("user_id", notification.UserID),
	)
	return nil
}

func (w *Worker) emailBody(n *models.Notification) string {
	var b strings.Builder
	b.WriteString("<h2>" + html.EscapeString(html.UnescapeString(n.Title)) + "</h2>")
	if n.Body != "" {
		// Message bodies are stored escaped
		b.WriteString("<p>" + html.EscapeString(html.UnescapeString(n.Body)) + "</p>")
	}
	if n.Link != "" {
		href := html.EscapeString(w.appURL + n.Link)
		b.WriteString(`<p><a href="` + href + `">Abrir no Piteco</a></p>`)
	}
	return b.String()
}

func preview(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}

// smtpMailer sends e-mails using gopkg.in/mail.v2
type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer for the given SMTP server
func NewSMTPMailer(host string, port int, username, password, from string) *smtpMailer {
	return &smtpMailer{host: host, port: port, username: username, password: password, from: from}
}

// Send sends an HTML e-mail
func (m *smtpMailer) Send(to, subject, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := mail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

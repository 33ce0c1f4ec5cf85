package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/piteco/backend/internal/dates"
	"github.com/piteco/backend/internal/models"
	"github.com/piteco/backend/internal/pagination"
	"go.uber.org/zap"
)

// AnnouncementRepository is the interface that wraps methods for Announcements table data access
type AnnouncementRepository interface {
	// Method Create inserts an announcement and fills in its ID and timestamps.
	Create(ctx context.Context, a *models.Announcement) error
	// Method GetByID retrieves an announcement with its author's username.
	//
	// If announcement with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Announcement, error)
	// Method ListByClass retrieves announcements of a class, newest first.
	//
	// "cursor", when set, keeps announcements created before it. At most "limit" announcements are returned.
	ListByClass(ctx context.Context, classID int, cursor *time.Time, limit int) ([]models.Announcement, error)
	// Method Update stores the title and body of "a" and refreshes its UpdatedAt.
	Update(ctx context.Context, a *models.Announcement) error
	// Method Delete deletes an announcement.
	//
	// If announcement with such ID does not exist, an error wrapping models.ErrNotFound is returned.
	Delete(ctx context.Context, id int) error
}

// AnnouncementEnqueuer schedules the announcement fan-out
type AnnouncementEnqueuer interface {
	// Method EnqueueAnnouncement schedules notifications for every member of the announcement's class.
	EnqueueAnnouncement(ctx context.Context, announcementID int) error
}

const (
	maxAnnouncementTitleLength = 120
	maxAnnouncementBodyLength  = 5000
)

// announcementService implements AnnouncementService
type announcementService struct {
	announcementRepo AnnouncementRepository
	classRepo        ClassMembership
	enqueuer         AnnouncementEnqueuer
	logger           *zap.Logger
	now              func() time.Time
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(announcementRepo AnnouncementRepository, classRepo ClassMembership, enqueuer AnnouncementEnqueuer, logger *zap.Logger) *announcementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		classRepo:        classRepo,
		enqueuer:         enqueuer,
		logger:           logger,
		now:              time.Now,
	}
}

// CreateAnnouncement posts an announcement to a class owned by the caller and schedules its notifications
func (s *announcementService) CreateAnnouncement(ctx context.Context, userID, classID int, req *models.AnnouncementRequest) (*models.Announcement, error) {
	title, body, err := validateAnnouncement(req)
	if err != nil {
		return nil, err
	}

	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.OwnerID != userID {
		return nil, models.NewUserError(models.ErrForbidden, "Apenas o professor da turma pode publicar avisos")
	}

	announcement := &models.Announcement{ClassID: classID, AuthorID: userID, Title: title, Body: body}
	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	// The announcement is already stored, so a failed enqueue only loses the notifications
	if err := s.enqueuer.EnqueueAnnouncement(ctx, announcement.ID); err != nil {
		s.logger.Error("failed to enqueue announcement fan-out",
			zap.Int("announcement_id", announcement.ID),
			zap.Error(err),
		)
	}

	announcement.RelativeTime = dates.Relative(announcement.CreatedAt, s.now())
	return announcement, nil
}

// ListAnnouncements returns a page of a class's announcements to one of its members
func (s *announcementService) ListAnnouncements(ctx context.Context, userID, classID int, cursor *time.Time, limit int) (*models.AnnouncementPage, error) {
	if _, err := requireClassMember(ctx, s.classRepo, userID, classID); err != nil {
		return nil, err
	}

	announcements, err := s.announcementRepo.ListByClass(ctx, classID, cursor, limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range announcements {
		announcements[i].RelativeTime = dates.Relative(announcements[i].CreatedAt, now)
	}

	page := &models.AnnouncementPage{Items: announcements}
	if len(announcements) > 0 {
		page.NextCursor = pagination.NextCursor(announcements[len(announcements)-1].CreatedAt, len(announcements), limit)
	}
	return page, nil
}

// UpdateAnnouncement changes the title and body of an announcement written by the caller
func (s *announcementService) UpdateAnnouncement(ctx context.Context, userID, id int, req *models.AnnouncementRequest) (*models.Announcement, error) {
	title, body, err := validateAnnouncement(req)
	if err != nil {
		return nil, err
	}

	announcement, err := s.authoredAnnouncement(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	announcement.Title = title
	announcement.Body = body
	if err := s.announcementRepo.Update(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

// DeleteAnnouncement deletes an announcement written by the caller
func (s *announcementService) DeleteAnnouncement(ctx context.Context, userID, id int) error {
	if _, err := s.authoredAnnouncement(ctx, userID, id); err != nil {
		return err
	}
	return s.announcementRepo.Delete(ctx, id)
}

func (s *announcementService) authoredAnnouncement(ctx context.Context, userID, id int) (*models.Announcement, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if announcement.AuthorID != userID {
		return nil, models.NewUserError(models.ErrForbidden, "Apenas o autor pode alterar este aviso")
	}
	return announcement, nil
}

func validateAnnouncement(req *models.AnnouncementRequest) (string, string, error) {
	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)

	if n := utf8.RuneCountInString(title); n == 0 || n > maxAnnouncementTitleLength {
		return "", "", models.Validationf("O título deve ter entre 1 e %d caracteres", maxAnnouncementTitleLength)
	}
	if n := utf8.RuneCountInString(body); n == 0 || n > maxAnnouncementBodyLength {
		return "", "", models.Validationf("O texto deve ter entre 1 e %d caracteres", maxAnnouncementBodyLength)
	}
	return title, body, nil
}

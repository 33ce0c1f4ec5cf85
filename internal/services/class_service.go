package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// ClassRepository is the interface that wraps methods for Classes and ClassMembers tables data access
type ClassRepository interface {
	// Method Create inserts a class and adds its owner as teacher.
	//
	// If the invite code is taken, an error wrapping models.ErrConflict is returned.
	Create(ctx context.Context, class *models.Class) error
	// Method GetByID retrieves a class by ID.
	//
	// If class with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Class, error)
	// Method GetByInviteCode retrieves a class by its invite code.
	//
	// If no class uses the code, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByInviteCode(ctx context.Context, code string) (*models.Class, error)
	// Method AddMember adds a user to a class with "role".
	//
	// If the user is already a member, an error wrapping models.ErrConflict is returned.
	AddMember(ctx context.Context, classID, userID int, role models.MemberRole) error
	// Method GetMemberRole returns the role of a user in a class.
	//
	// If the user is not a member, an error wrapping models.ErrNotFound is returned.
	GetMemberRole(ctx context.Context, classID, userID int) (models.MemberRole, error)
	// Method ListForUser retrieves the classes a user belongs to with the user's role and the member count.
	ListForUser(ctx context.Context, userID int) ([]models.ClassListItem, error)
	// Method ListMembers retrieves the members of a class.
	ListMembers(ctx context.Context, classID int) ([]models.ClassMember, error)
	// Method RemoveMember removes a user from a class.
	//
	// If the user is not a member, an error wrapping models.ErrNotFound is returned.
	RemoveMember(ctx context.Context, classID, userID int) error
}

// UserReader reads users
type UserReader interface {
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

// Notifier creates notifications and delivers them
type Notifier interface {
	// Method Notify stores "n", pushes it to its user and schedules its e-mail.
	//
	// Only storage failures are returned.
	Notify(ctx context.Context, n *models.Notification) error
}

const (
	minClassNameLength  = 3
	maxClassNameLength  = 80
	inviteCodeLength    = 8
	inviteCodeAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxInviteCodeTrials = 5
)

// classService implements ClassService
type classService struct {
	classRepo ClassRepository
	userRepo  UserReader
	notifier  Notifier
	logger    *zap.Logger
	newCode   func() string
}

// NewClassService creates a new class service
func NewClassService(classRepo ClassRepository, userRepo UserReader, notifier Notifier, logger *zap.Logger) *classService {
	return &classService{
		classRepo: classRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		logger:    logger,
		newCode:   generateInviteCode,
	}
}

// generateInviteCode derives an 8 character code from the random bytes of a UUID v4
func generateInviteCode() string {
	id := uuid.New()
	// Bytes 6 and 8 carry the version and variant bits
	random := []byte{id[0], id[1], id[2], id[3], id[4], id[5], id[7], id[9]}

	code := make([]byte, inviteCodeLength)
	for i, b := range random {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(code)
}

// CreateClass creates a class owned by the caller, who becomes its teacher
func (s *classService) CreateClass(ctx context.Context, userID int, req *models.CreateClassRequest) (*models.Class, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if n := utf8.RuneCountInString(name); n < minClassNameLength || n > maxClassNameLength {
		return nil, models.Validationf("O nome da turma deve ter entre %d e %d caracteres", minClassNameLength, maxClassNameLength)
	}
	if utf8.RuneCountInString(description) > maxCollectionDescriptionLength {
		return nil, models.Validationf("A descrição deve ter no máximo %d caracteres", maxCollectionDescriptionLength)
	}

	for attempt := 1; attempt <= maxInviteCodeTrials; attempt++ {
		class := &models.Class{
			OwnerID:     userID,
			Name:        name,
			Description: description,
			InviteCode:  s.newCode(),
		}
		err := s.classRepo.Create(ctx, class)
		if err == nil {
			s.logger.Info("class created", zap.Int("class_id", class.ID), zap.Int("owner_id", userID))
			return s.classRepo.GetByID(ctx, class.ID)
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		s.logger.Debug("invite code collision", zap.Int("attempt", attempt))
	}

	return nil, fmt.Errorf("failed to generate a unique invite code after %d attempts", maxInviteCodeTrials)
}

// JoinClass adds the caller to the class with the given invite code as a student
func (s *classService) JoinClass(ctx context.Context, userID int, req *models.JoinClassRequest) (*models.Class, error) {
	code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if len(code) != inviteCodeLength {
		return nil, models.Validationf("O código de convite deve ter %d caracteres", inviteCodeLength)
	}

	class, err := s.classRepo.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewUserError(models.ErrNotFound, "Código de convite inválido")
		}
		return nil, err
	}

	if err := s.classRepo.AddMember(ctx, class.ID, userID, models.MemberRoleStudent); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.NewUserError(models.ErrConflict, "Você já participa desta turma")
		}
		return nil, err
	}

	s.notifyOwner(ctx, class, userID)

	class.InviteCode = ""
	return class, nil
}

// notifyOwner tells the class owner that userID joined. Failures are logged.
func (s *classService) notifyOwner(ctx context.Context, class *models.Class, userID int) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load joining user", zap.Int("user_id", userID), zap.Error(err))
		return
	}

	n := &models.Notification{
		UserID: class.OwnerID,
		Type:   models.NotificationTypeClassJoin,
		Title:  "Novo aluno na turma",
		Body:   fmt.Sprintf("%s entrou na turma %s", user.Username, class.Name),
		Link:   fmt.Sprintf("/classes/%d", class.ID),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("failed to notify class owner", zap.Int("class_id", class.ID), zap.Error(err))
	}
}

// ListClasses returns the classes the caller belongs to.
// Invite codes are only shown to teachers.
func (s *classService) ListClasses(ctx context.Context, userID int) ([]models.ClassListItem, error) {
	classes, err := s.classRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range classes {
		if classes[i].Role != models.MemberRoleTeacher {
			classes[i].InviteCode = ""
		}
	}
	return classes, nil
}

// ListMembers returns the members of a class the caller belongs to
func (s *classService) ListMembers(ctx context.Context, userID, classID int) ([]models.ClassMember, error) {
	if _, err := s.requireMember(ctx, userID, classID); err != nil {
		return nil, err
	}
	return s.classRepo.ListMembers(ctx, classID)
}

// LeaveClass removes the caller from a class. The owner cannot leave.
func (s *classService) LeaveClass(ctx context.Context, userID, classID int) error {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return err
	}
	if class.OwnerID == userID {
		return models.Validationf("O professor não pode sair da própria turma")
	}

	if err := s.classRepo.RemoveMember(ctx, classID, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewUserError(models.ErrNotFound, "Você não participa desta turma")
		}
		return err
	}
	return nil
}

// requireMember loads a class and checks that userID belongs to it
func (s *classService) requireMember(ctx context.Context, userID, classID int) (*models.Class, error) {
	return requireClassMember(ctx, s.classRepo, userID, classID)
}

// ClassMembership reads classes and memberships
type ClassMembership interface {
	// Method GetByID retrieves a class by ID.
	//
	// If class with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Class, error)
	// Method GetMemberRole returns the role of a user in a class.
	//
	// If the user is not a member, an error wrapping models.ErrNotFound is returned.
	GetMemberRole(ctx context.Context, classID, userID int) (models.MemberRole, error)
}

// requireClassMember returns 404 for unknown classes and 403 for non-members
func requireClassMember(ctx context.Context, repo ClassMembership, userID, classID int) (*models.Class, error) {
	class, err := repo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	if _, err := repo.GetMemberRole(ctx, classID, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewUserError(models.ErrForbidden, "Você não participa desta turma")
		}
		return nil, err
	}
	return class, nil
}

package services

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"sync"
	"time"

	"github.com/piteco/backend/internal/models"
)

// mockUserRepository is a mock implementation of UserRepository, MessageUserRepository and LastSeenWriter
type mockUserRepository struct {
	user                   *models.User
	users                  map[int]*models.User
	err                    error
	createErr              error
	existsByEmailResult    bool
	existsByEmailError     error
	existsByUsernameResult bool
	existsByUsernameError  error
	lastSeenErr            error
	lastSeenCalls          []int
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepository) GetByEmailOrUsername(ctx context.Context, login string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.users != nil {
		user, ok := m.users[userID]
		if !ok {
			return nil, fmt.Errorf("user not found: %w", models.ErrNotFound)
		}
		return user, nil
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByID(ctx context.Context, userID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.users != nil {
		_, ok := m.users[userID]
		return ok, nil
	}
	return m.user != nil, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailError != nil {
		return false, m.existsByEmailError
	}
	return m.existsByEmailResult, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameError != nil {
		return false, m.existsByUsernameError
	}
	return m.existsByUsernameResult, nil
}

func (m *mockUserRepository) UpdateLastSeen(ctx context.Context, userID int, seenAt time.Time) error {
	if m.lastSeenErr != nil {
		return m.lastSeenErr
	}
	m.lastSeenCalls = append(m.lastSeenCalls, userID)
	return nil
}

// mockUserTokenRepository is a mock implementation of UserTokenRepository
type mockUserTokenRepository struct {
	mu             sync.Mutex
	token          *models.UserToken
	err            error
	createErr      error
	updateTokenErr error
	created        []*models.UserToken
	deleted        []string
	updated        []string
}

func (m *mockUserTokenRepository) Create(ctx context.Context, userToken *models.UserToken) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, userToken)
	return nil
}

func (m *mockUserTokenRepository) GetByToken(ctx context.Context, token string) (*models.UserToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.token, nil
}

func (m *mockUserTokenRepository) UpdateToken(ctx context.Context, oldToken, newToken string, userID int, expiresAt time.Time) error {
	if m.updateTokenErr != nil {
		return m.updateTokenErr
	}
	m.updated = append(m.updated, newToken)
	return nil
}

func (m *mockUserTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, token)
	return nil
}

// mockEconomyRepository is a mock implementation of EconomyRepository and BalanceRepository
type mockEconomyRepository struct {
	balance    *models.Balance
	quote      *models.ExchangeQuote
	exchange   *models.Exchange
	exchanges  []models.Exchange
	err        error
	lastPoints int
	lastKey    string
}

func (m *mockEconomyRepository) GetBalance(ctx context.Context, userID int) (*models.Balance, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.balance, nil
}

func (m *mockEconomyRepository) GetQuote(ctx context.Context, userID, points int) (*models.ExchangeQuote, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.quote, nil
}

func (m *mockEconomyRepository) ProcessExchange(ctx context.Context, userID, points int, idempotencyKey string) (*models.Exchange, error) {
	m.lastPoints = points
	m.lastKey = idempotencyKey
	if m.err != nil {
		return nil, m.err
	}
	return m.exchange, nil
}

func (m *mockEconomyRepository) History(ctx context.Context, userID int, cursor *time.Time, limit int) ([]models.Exchange, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.exchanges, nil
}

// mockCollectionRepository is a mock implementation of CollectionRepository and CollectionReader
type mockCollectionRepository struct {
	collection  *models.Collection
	collections []models.Collection
	err         error
	createErr   error
	updated     *models.Collection
	deletedID   int
}

func (m *mockCollectionRepository) GetByOwner(ctx context.Context, ownerID int) ([]models.Collection, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.collections, nil
}

func (m *mockCollectionRepository) GetByID(ctx context.Context, id int) (*models.Collection, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.collection == nil {
		return nil, fmt.Errorf("collection not found: %w", models.ErrNotFound)
	}
	c := *m.collection
	return &c, nil
}

func (m *mockCollectionRepository) Create(ctx context.Context, c *models.Collection) error {
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = 10
	m.collection = c
	return nil
}

func (m *mockCollectionRepository) Update(ctx context.Context, c *models.Collection) error {
	m.updated = c
	return m.err
}

func (m *mockCollectionRepository) Delete(ctx context.Context, id int) error {
	m.deletedID = id
	return m.err
}

// mockFlashcardRepository is a mock implementation of FlashcardRepository and FlashcardReader
type mockFlashcardRepository struct {
	flashcard  *models.FlashcardWithOwner
	flashcards []models.Flashcard
	err        error
	created    *models.Flashcard
	updated    *models.Flashcard
	deletedID  int
}

func (m *mockFlashcardRepository) GetByCollection(ctx context.Context, collectionID int) ([]models.Flashcard, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.flashcards, nil
}

func (m *mockFlashcardRepository) GetByID(ctx context.Context, id int) (*models.FlashcardWithOwner, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.flashcard == nil {
		return nil, fmt.Errorf("flashcard not found: %w", models.ErrNotFound)
	}
	f := *m.flashcard
	return &f, nil
}

func (m *mockFlashcardRepository) Create(ctx context.Context, f *models.Flashcard) error {
	if m.err != nil {
		return m.err
	}
	f.ID = 20
	m.created = f
	m.flashcard = &models.FlashcardWithOwner{Flashcard: *f}
	return nil
}

func (m *mockFlashcardRepository) Update(ctx context.Context, f *models.Flashcard) error {
	m.updated = f
	return m.err
}

func (m *mockFlashcardRepository) Delete(ctx context.Context, id int) error {
	m.deletedID = id
	return m.err
}

// mockStudyRepository is a mock implementation of StudyRepository
type mockStudyRepository struct {
	points  int
	err     error
	session *models.StudySession
}

func (m *mockStudyRepository) CreateSession(ctx context.Context, session *models.StudySession) (int, error) {
	m.session = session
	if m.err != nil {
		return 0, m.err
	}
	return m.points + session.PointsAwarded, nil
}

// mockClassRepository is a mock implementation of ClassRepository and ClassMembership
type mockClassRepository struct {
	class         *models.Class
	classes       []models.ClassListItem
	members       []models.ClassMember
	roles         map[int]models.MemberRole
	err           error
	createErrs    []error
	addMemberErr  error
	removeErr     error
	createCalls   int
	addedMembers  []int
	removedMember int
}

func (m *mockClassRepository) Create(ctx context.Context, class *models.Class) error {
	m.createCalls++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	class.ID = 30
	m.class = class
	return nil
}

func (m *mockClassRepository) GetByID(ctx context.Context, id int) (*models.Class, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.class == nil {
		return nil, fmt.Errorf("class not found: %w", models.ErrNotFound)
	}
	c := *m.class
	return &c, nil
}

func (m *mockClassRepository) GetByInviteCode(ctx context.Context, code string) (*models.Class, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.class == nil || m.class.InviteCode != code {
		return nil, fmt.Errorf("class not found: %w", models.ErrNotFound)
	}
	c := *m.class
	return &c, nil
}

func (m *mockClassRepository) AddMember(ctx context.Context, classID, userID int, role models.MemberRole) error {
	if m.addMemberErr != nil {
		return m.addMemberErr
	}
	m.addedMembers = append(m.addedMembers, userID)
	return nil
}

func (m *mockClassRepository) GetMemberRole(ctx context.Context, classID, userID int) (models.MemberRole, error) {
	role, ok := m.roles[userID]
	if !ok {
		return "", fmt.Errorf("member not found: %w", models.ErrNotFound)
	}
	return role, nil
}

func (m *mockClassRepository) ListForUser(ctx context.Context, userID int) ([]models.ClassListItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.classes, nil
}

func (m *mockClassRepository) ListMembers(ctx context.Context, classID int) ([]models.ClassMember, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.members, nil
}

func (m *mockClassRepository) RemoveMember(ctx context.Context, classID, userID int) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removedMember = userID
	return nil
}

// mockAnnouncementRepository is a mock implementation of AnnouncementRepository
type mockAnnouncementRepository struct {
	announcement  *models.Announcement
	announcements []models.Announcement
	err           error
	updated       *models.Announcement
	deletedID     int
}

func (m *mockAnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	if m.err != nil {
		return m.err
	}
	a.ID = 40
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	return nil
}

func (m *mockAnnouncementRepository) GetByID(ctx context.Context, id int) (*models.Announcement, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.announcement == nil {
		return nil, fmt.Errorf("announcement not found: %w", models.ErrNotFound)
	}
	a := *m.announcement
	return &a, nil
}

func (m *mockAnnouncementRepository) ListByClass(ctx context.Context, classID int, cursor *time.Time, limit int) ([]models.Announcement, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.announcements, nil
}

func (m *mockAnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	m.updated = a
	return m.err
}

func (m *mockAnnouncementRepository) Delete(ctx context.Context, id int) error {
	m.deletedID = id
	return m.err
}

// mockMessageRepository is a mock implementation of MessageRepository
type mockMessageRepository struct {
	messages      []models.Message
	conversations []models.Conversation
	err           error
	markErr       error
	created       *models.Message
	markedSender  int
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if m.err != nil {
		return m.err
	}
	msg.ID = 50
	msg.CreatedAt = time.Now().UTC()
	m.created = msg
	return nil
}

func (m *mockMessageRepository) ListConversation(ctx context.Context, userID, partnerID int, cursor *time.Time, limit int) ([]models.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.messages, nil
}

func (m *mockMessageRepository) MarkConversationRead(ctx context.Context, recipientID, senderID int, readAt time.Time) (int, error) {
	if m.markErr != nil {
		return 0, m.markErr
	}
	m.markedSender = senderID
	return 1, nil
}

func (m *mockMessageRepository) ListConversations(ctx context.Context, userID int) ([]models.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conversations, nil
}

// mockNotificationRepository is a mock implementation of NotificationRepository
type mockNotificationRepository struct {
	notifications []models.Notification
	unread        int
	recipients    []models.EmailRecipient
	err           error
	recipientsErr error
	markErr       error
	created       []*models.Notification
	nextID        int
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	n.ID = m.nextID
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepository) CreateMany(ctx context.Context, notifications []*models.Notification) error {
	if m.err != nil {
		return m.err
	}
	for _, n := range notifications {
		m.nextID++
		n.ID = m.nextID
		m.created = append(m.created, n)
	}
	return nil
}

func (m *mockNotificationRepository) List(ctx context.Context, userID int, unreadOnly bool, cursor *time.Time, limit int) ([]models.Notification, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.notifications, nil
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userID int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.unread, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id, userID int, readAt time.Time) error {
	return m.markErr
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID int, readAt time.Time) (int, error) {
	if m.markErr != nil {
		return 0, m.markErr
	}
	return m.unread, nil
}

func (m *mockNotificationRepository) EmailRecipients(ctx context.Context, userIDs []int) ([]models.EmailRecipient, error) {
	if m.recipientsErr != nil {
		return nil, m.recipientsErr
	}
	return m.recipients, nil
}

// publishedEvent is an event captured by mockPublisher
type publishedEvent struct {
	userID int
	event  models.Event
}

// mockPublisher is a mock implementation of EventPublisher
type mockPublisher struct {
	events []publishedEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, userID int, event models.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, publishedEvent{userID: userID, event: event})
	return nil
}

// mockEnqueuer is a mock implementation of EmailEnqueuer and AnnouncementEnqueuer
type mockEnqueuer struct {
	emails        []int
	announcements []int
	err           error
}

func (m *mockEnqueuer) EnqueueEmail(ctx context.Context, notificationID int) error {
	if m.err != nil {
		return m.err
	}
	m.emails = append(m.emails, notificationID)
	return nil
}

func (m *mockEnqueuer) EnqueueAnnouncement(ctx context.Context, announcementID int) error {
	if m.err != nil {
		return m.err
	}
	m.announcements = append(m.announcements, announcementID)
	return nil
}

// mockNotifier is a mock implementation of Notifier
type mockNotifier struct {
	notifications []*models.Notification
	err           error
}

func (m *mockNotifier) Notify(ctx context.Context, n *models.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.notifications = append(m.notifications, n)
	return nil
}

// mockRateLimiter is a mock implementation of RateLimiter
type mockRateLimiter struct {
	allow bool
	keys  []string
}

func (m *mockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	m.keys = append(m.keys, key)
	return m.allow
}

// mockPresenceStore is a mock implementation of PresenceStore
type mockPresenceStore struct {
	acquire   bool
	markErr   error
	online    map[int]bool
	onlineErr error
	marked    []int
}

func (m *mockPresenceStore) AcquireDebounce(ctx context.Context, userID int) bool {
	return m.acquire
}

func (m *mockPresenceStore) MarkOnline(ctx context.Context, userID int) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.marked = append(m.marked, userID)
	return nil
}

func (m *mockPresenceStore) Online(ctx context.Context, userIDs []int) (map[int]bool, error) {
	if m.onlineErr != nil {
		return nil, m.onlineErr
	}
	return m.online, nil
}

// mockRemover is a mock implementation of BackgroundRemover
type mockRemover struct {
	data []byte
	err  error
	key  color.RGBA
}

func (m *mockRemover) RemoveBackground(ctx context.Context, imageURL string, key color.RGBA, threshold float64) ([]byte, error) {
	m.key = key
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

// mockStorage is a mock implementation of FileStorage backed by a directory
type mockStorage struct {
	dir       string
	createErr error
	openErr   error
	deleted   []string
}

func (m *mockStorage) Create(category, name string) (io.WriteCloser, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return os.Create(m.dir + "/" + name)
}

func (m *mockStorage) OpenFile(category, name string) (*os.File, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return os.Open(m.dir + "/" + name)
}

func (m *mockStorage) Delete(category, name string) error {
	m.deleted = append(m.deleted, name)
	return nil
}

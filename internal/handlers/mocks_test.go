package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/piteco/backend/internal/models"
)

type mockAuthService struct {
	tokens       *models.TokenPair
	profile      *models.Profile
	err          error
	refreshToken string
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenPair, error) {
	return m.tokens, m.err
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error) {
	return m.tokens, m.err
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	m.refreshToken = refreshToken
	return m.tokens, m.err
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	return m.profile, m.err
}

type mockCollectionService struct {
	collections []models.Collection
	collection  *models.Collection
	flashcards  []models.Flashcard
	flashcard   *models.Flashcard
	err         error
	lastUserID  int
	lastID      int
}

func (m *mockCollectionService) ListCollections(ctx context.Context, userID int) ([]models.Collection, error) {
	m.lastUserID = userID
	return m.collections, m.err
}

func (m *mockCollectionService) GetCollection(ctx context.Context, userID, id int) (*models.Collection, error) {
	m.lastUserID, m.lastID = userID, id
	return m.collection, m.err
}

func (m *mockCollectionService) CreateCollection(ctx context.Context, userID int, req *models.CollectionRequest) (*models.Collection, error) {
	m.lastUserID = userID
	return m.collection, m.err
}

func (m *mockCollectionService) UpdateCollection(ctx context.Context, userID, id int, req *models.CollectionRequest) (*models.Collection, error) {
	m.lastUserID, m.lastID = userID, id
	return m.collection, m.err
}

func (m *mockCollectionService) DeleteCollection(ctx context.Context, userID, id int) error {
	m.lastUserID, m.lastID = userID, id
	return m.err
}

func (m *mockCollectionService) ListFlashcards(ctx context.Context, userID, collectionID int) ([]models.Flashcard, error) {
	m.lastUserID, m.lastID = userID, collectionID
	return m.flashcards, m.err
}

func (m *mockCollectionService) CreateFlashcard(ctx context.Context, userID, collectionID int, req *models.FlashcardRequest) (*models.Flashcard, error) {
	m.lastUserID, m.lastID = userID, collectionID
	return m.flashcard, m.err
}

func (m *mockCollectionService) UpdateFlashcard(ctx context.Context, userID, id int, req *models.FlashcardRequest) (*models.Flashcard, error) {
	m.lastUserID, m.lastID = userID, id
	return m.flashcard, m.err
}

func (m *mockCollectionService) DeleteFlashcard(ctx context.Context, userID, id int) error {
	m.lastUserID, m.lastID = userID, id
	return m.err
}

type mockStudyService struct {
	check       *models.CheckAnswerResponse
	hint        *models.HintResponse
	session     *models.StudySessionResponse
	err         error
	lastLevel   int
	lastCardID  int
	lastDirType models.Direction
}

func (m *mockStudyService) CheckAnswer(ctx context.Context, userID int, req *models.CheckAnswerRequest) (*models.CheckAnswerResponse, error) {
	return m.check, m.err
}

func (m *mockStudyService) Hint(ctx context.Context, userID, flashcardID, level int, direction models.Direction) (*models.HintResponse, error) {
	m.lastCardID, m.lastLevel, m.lastDirType = flashcardID, level, direction
	return m.hint, m.err
}

func (m *mockStudyService) RecordSession(ctx context.Context, userID int, req *models.StudySessionRequest) (*models.StudySessionResponse, error) {
	return m.session, m.err
}

type mockClassService struct {
	class      *models.Class
	classes    []models.ClassListItem
	members    []models.ClassMember
	err        error
	joinCode   string
	leftUserID int
	leftClass  int
}

func (m *mockClassService) CreateClass(ctx context.Context, userID int, req *models.CreateClassRequest) (*models.Class, error) {
	return m.class, m.err
}

func (m *mockClassService) JoinClass(ctx context.Context, userID int, req *models.JoinClassRequest) (*models.Class, error) {
	m.joinCode = req.InviteCode
	return m.class, m.err
}

func (m *mockClassService) ListClasses(ctx context.Context, userID int) ([]models.ClassListItem, error) {
	return m.classes, m.err
}

func (m *mockClassService) ListMembers(ctx context.Context, userID, classID int) ([]models.ClassMember, error) {
	return m.members, m.err
}

func (m *mockClassService) LeaveClass(ctx context.Context, userID, classID int) error {
	m.leftUserID, m.leftClass = userID, classID
	return m.err
}

type mockAnnouncementService struct {
	announcement *models.Announcement
	page         *models.AnnouncementPage
	err          error
	lastClassID  int
	lastCursor   *time.Time
	lastLimit    int
}

func (m *mockAnnouncementService) CreateAnnouncement(ctx context.Context, userID, classID int, req *models.AnnouncementRequest) (*models.Announcement, error) {
	m.lastClassID = classID
	return m.announcement, m.err
}

func (m *mockAnnouncementService) ListAnnouncements(ctx context.Context, userID, classID int, cursor *time.Time, limit int) (*models.AnnouncementPage, error) {
	m.lastClassID, m.lastCursor, m.lastLimit = classID, cursor, limit
	return m.page, m.err
}

func (m *mockAnnouncementService) UpdateAnnouncement(ctx context.Context, userID, id int, req *models.AnnouncementRequest) (*models.Announcement, error) {
	return m.announcement, m.err
}

func (m *mockAnnouncementService) DeleteAnnouncement(ctx context.Context, userID, id int) error {
	return m.err
}

type mockMessageService struct {
	message       *models.Message
	page          *models.MessagePage
	conversations []models.Conversation
	err           error
	lastPartner   int
	lastLimit     int
}

func (m *mockMessageService) SendMessage(ctx context.Context, senderID int, req *models.SendMessageRequest) (*models.Message, error) {
	return m.message, m.err
}

func (m *mockMessageService) Conversation(ctx context.Context, userID, partnerID int, cursor *time.Time, limit int) (*models.MessagePage, error) {
	m.lastPartner, m.lastLimit = partnerID, limit
	return m.page, m.err
}

func (m *mockMessageService) Conversations(ctx context.Context, userID int) ([]models.Conversation, error) {
	return m.conversations, m.err
}

type mockNotificationService struct {
	page           *models.NotificationPage
	count          int
	err            error
	lastUnreadOnly bool
	lastReadID     int
}

func (m *mockNotificationService) List(ctx context.Context, userID int, unreadOnly bool, cursor *time.Time, limit int) (*models.NotificationPage, error) {
	m.lastUnreadOnly = unreadOnly
	return m.page, m.err
}

func (m *mockNotificationService) MarkRead(ctx context.Context, userID, id int) error {
	m.lastReadID = id
	return m.err
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, userID int) (int, error) {
	return m.count, m.err
}

type mockEconomyService struct {
	balance    *models.Balance
	quote      *models.ExchangeQuote
	exchange   *models.Exchange
	page       *models.ExchangePage
	err        error
	lastPoints int
}

func (m *mockEconomyService) Balance(ctx context.Context, userID int) (*models.Balance, error) {
	return m.balance, m.err
}

func (m *mockEconomyService) Quote(ctx context.Context, userID, points int) (*models.ExchangeQuote, error) {
	m.lastPoints = points
	return m.quote, m.err
}

func (m *mockEconomyService) Exchange(ctx context.Context, userID int, req *models.ExchangeRequest) (*models.Exchange, error) {
	return m.exchange, m.err
}

func (m *mockEconomyService) History(ctx context.Context, userID int, cursor *time.Time, limit int) (*models.ExchangePage, error) {
	return m.page, m.err
}

type mockPresenceService struct {
	heartbeat *models.HeartbeatResponse
	online    map[int]bool
	err       error
	lastIDs   []int
}

func (m *mockPresenceService) Heartbeat(ctx context.Context, userID int) (*models.HeartbeatResponse, error) {
	return m.heartbeat, m.err
}

func (m *mockPresenceService) Online(ctx context.Context, userIDs []int) (map[int]bool, error) {
	m.lastIDs = userIDs
	return m.online, m.err
}

type mockMediaService struct {
	resp     *models.ChromaKeyResponse
	filePath string
	err      error
}

func (m *mockMediaService) ChromaKey(ctx context.Context, userID int, req *models.ChromaKeyRequest) (*models.ChromaKeyResponse, error) {
	return m.resp, m.err
}

func (m *mockMediaService) OpenChromaFile(name string) (*os.File, error) {
	if m.err != nil {
		return nil, m.err
	}
	return os.Open(m.filePath)
}

type mockConnectionServer struct {
	userID int
}

func (m *mockConnectionServer) ServeWS(w http.ResponseWriter, r *http.Request, userID int) error {
	m.userID = userID
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

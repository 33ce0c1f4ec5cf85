package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/piteco/backend/internal/auth"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user together with an empty balance.
	//
	// "user" parameter is used to create a new user. Its ID is filled in on success.
	//
	// If the email or username is taken, an error wrapping models.ErrConflict is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmailOrUsername retrieves a user by email or username.
	//
	// "login" parameter is matched against both the email and the username.
	//
	// If no user matches, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByEmailOrUsername(ctx context.Context, login string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method ExistsByUsername checks if a user with such username exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// UserTokenRepository is the interface that wraps methods for UserToken table data access
type UserTokenRepository interface {
	// Method Create inserts a new refresh token.
	//
	// If some error occurs during insert, the error will be returned.
	Create(ctx context.Context, userToken *models.UserToken) error
	// Method GetByToken retrieves a refresh token record by token string.
	//
	// If the token is unknown, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByToken(ctx context.Context, token string) (*models.UserToken, error)
	// Method UpdateToken replaces "oldToken" of "userID" with "newToken" valid until "expiresAt".
	//
	// If the old token does not belong to the user, an error wrapping models.ErrNotFound is returned.
	UpdateToken(ctx context.Context, oldToken, newToken string, userID int, expiresAt time.Time) error
	// Method DeleteByToken deletes a refresh token record.
	//
	// Deleting an unknown token is not an error.
	DeleteByToken(ctx context.Context, token string) error
}

// BalanceRepository reads user balances
type BalanceRepository interface {
	// Method GetBalance retrieves the points and PITECOIN balance of a user.
	//
	// If the user has no balance row, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetBalance(ctx context.Context, userID int) (*models.Balance, error)
}

// authService implements AuthService
type authService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	balanceRepo    BalanceRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	balanceRepo BalanceRepository,
	tokenGenerator *auth.TokenGenerator,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		balanceRepo:    balanceRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
		now:            time.Now,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// usernameRegex allows letters, digits, dot, underscore and hyphen
var usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}._\-]+$`)

// passwordRegex validates password: at least 8 chars with a letter and a digit
var passwordRegex = []*regexp.Regexp{
	regexp.MustCompile(`^.{8,}$`),
	regexp.MustCompile(`\pL`),
	regexp.MustCompile(`[0-9]`),
}

const (
	minUsernameLength = 3
	maxUsernameLength = 30
)

// Register creates a new user account and returns its first token pair
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenPair, error) {
	// Check user credentials return normalized email and username
	email, username, err := checkRegisterCredentials(ctx, s.userRepo, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:           username,
		Email:              email,
		PasswordHash:       string(passwordHash),
		Role:               models.RoleUser,
		EmailNotifications: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, models.ErrConflict) {
			return nil, models.NewUserError(models.ErrConflict, "E-mail ou nome de usuário já cadastrado")
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Int("user_id", user.ID))
	return s.generateAndSaveTokens(ctx, user.ID, user.Role)
}

// Login authenticates a user by email or username
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" {
		return nil, models.Validationf("Informe o e-mail ou nome de usuário")
	}
	if req.Password == "" {
		return nil, models.Validationf("Informe a senha")
	}

	user, err := s.userRepo.GetByEmailOrUsername(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewUserError(models.ErrUnauthorized, "Credenciais inválidas")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.NewUserError(models.ErrUnauthorized, "Credenciais inválidas")
	}

	return s.generateAndSaveTokens(ctx, user.ID, user.Role)
}

// Refresh rotates a refresh token and returns a new token pair
//
// The database lookup and the signature check do not depend on each other,
// so they run in parallel like the credential checks of Register.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, models.Validationf("Informe o token de atualização")
	}

	errorChan := make(chan error, 2)
	userTokenChan := make(chan *models.UserToken, 1) // Buffered to prevent goroutine leak

	// Check if the token exists in the database
	go func() {
		userToken, err := s.userTokenRepo.GetByToken(ctx, refreshToken)
		if err != nil {
			userTokenChan <- nil
			if errors.Is(err, models.ErrNotFound) {
				errorChan <- models.NewUserError(models.ErrUnauthorized, "Sessão expirada, faça login novamente")
				return
			}
			errorChan <- err
			return
		}
		userTokenChan <- userToken
		errorChan <- nil
	}()

	// Validate the token signature and expiry
	go func() {
		if err := s.tokenGenerator.ValidateRefreshToken(refreshToken); err != nil {
			// Expired or forged tokens are removed if they were ever stored
			if delErr := s.userTokenRepo.DeleteByToken(ctx, refreshToken); delErr != nil {
				s.logger.Warn("failed to delete invalid refresh token", zap.Error(delErr))
			}
			errorChan <- models.NewUserError(models.ErrUnauthorized, "Sessão expirada, faça login novamente")
			return
		}
		errorChan <- nil
	}()

	for range 2 {
		if err := <-errorChan; err != nil {
			return nil, err
		}
	}
	userToken := <-userTokenChan
	if userToken.ExpiresAt.Before(s.now()) {
		return nil, models.NewUserError(models.ErrUnauthorized, "Sessão expirada, faça login novamente")
	}

	user, err := s.userRepo.GetByID(ctx, userToken.UserID)
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokenGenerator.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.tokenGenerator.RefreshTokenExpiry()).UTC()
	if err := s.userTokenRepo.UpdateToken(ctx, refreshToken, tokens.RefreshToken, user.ID, expiresAt); err != nil {
		// Another request rotated the same token first
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewUserError(models.ErrUnauthorized, "Sessão expirada, faça login novamente")
		}
		return nil, err
	}

	return tokens, nil
}

// GetProfile returns the caller's profile with balances
func (s *authService) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.balanceRepo.GetBalance(ctx, userID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	profile := &models.Profile{User: *user}
	if balance != nil {
		profile.Balance = *balance
	}
	return profile, nil
}

// generateAndSaveTokens generates a token pair and stores the refresh token
func (s *authService) generateAndSaveTokens(ctx context.Context, userID int, role models.Role) (*models.TokenPair, error) {
	tokens, err := s.tokenGenerator.GenerateTokens(userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	userToken := &models.UserToken{
		UserID:    userID,
		Token:     tokens.RefreshToken,
		ExpiresAt: s.now().Add(s.tokenGenerator.RefreshTokenExpiry()).UTC(),
	}
	if err := s.userTokenRepo.Create(ctx, userToken); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return tokens, nil
}

// checkRegisterCredentials validates the register fields and checks uniqueness.
// It returns the normalized email and username.
//
// The checks do not depend on each other, so they run in parallel.
func checkRegisterCredentials(ctx context.Context, userRepo UserRepository, email, username, password string) (string, string, error) {
	validationErrors := make(chan error, 3)
	normalizedEmail := strings.TrimSpace(strings.ToLower(email))
	normalizedUsername := strings.TrimSpace(username)

	// Validate password
	go func() {
		for _, regex := range passwordRegex {
			if !regex.MatchString(password) {
				validationErrors <- models.Validationf("A senha deve ter pelo menos 8 caracteres, com letras e números")
				return
			}
		}
		validationErrors <- nil
	}()

	// Validate email and check its uniqueness
	go func() {
		if !emailRegex.MatchString(normalizedEmail) {
			validationErrors <- models.Validationf("E-mail inválido")
			return
		}
		exists, err := userRepo.ExistsByEmail(ctx, normalizedEmail)
		if err != nil {
			validationErrors <- fmt.Errorf("failed to check email: %w", err)
			return
		}
		if exists {
			validationErrors <- models.NewUserError(models.ErrConflict, "E-mail já cadastrado")
			return
		}
		validationErrors <- nil
	}()

	// Validate username and check its uniqueness
	go func() {
		length := utf8.RuneCountInString(normalizedUsername)
		if length < minUsernameLength || length > maxUsernameLength {
			validationErrors <- models.Validationf("O nome de usuário deve ter entre %d e %d caracteres", minUsernameLength, maxUsernameLength)
			return
		}
		if !usernameRegex.MatchString(normalizedUsername) {
			validationErrors <- models.Validationf("O nome de usuário só pode conter letras, números, ponto, hífen e sublinhado")
			return
		}
		exists, err := userRepo.ExistsByUsername(ctx, normalizedUsername)
		if err != nil {
			validationErrors <- fmt.Errorf("failed to check username: %w", err)
			return
		}
		if exists {
			validationErrors <- models.NewUserError(models.ErrConflict, "Nome de usuário já cadastrado")
			return
		}
		validationErrors <- nil
	}()

	// Validation errors take precedence over conflicts and lookups
	var firstErr error
	for range 3 {
		err := <-validationErrors
		if err == nil {
			continue
		}
		if firstErr == nil || (errors.Is(err, models.ErrValidation) && !errors.Is(firstErr, models.ErrValidation)) {
			firstErr = err
		}
	}
	if firstErr != nil {
		return "", "", firstErr
	}

	return normalizedEmail, normalizedUsername, nil
}

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/middleware"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register performs a user credentials validation and creation and returns access and refresh tokens.
	//
	// "req" parameter contains email, username and password.
	//
	// If user passed invalid credentials, or such user already exists, or some other error occurs, the error will be returned together with "nil" value.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenPair, error)
	// Method Login performs a user credentials validation and returns access and refresh tokens.
	//
	// "req" parameter contains login (email or username) and password.
	//
	// If user passed invalid credentials, or such user does not exist, the error wraps models.ErrUnauthorized.
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error)
	// Method Refresh performs a refresh token validation and returns a new token pair.
	//
	// "refreshToken" parameter is used to identify the user. The old token stops working.
	//
	// If refresh token is invalid or expired, the error wraps models.ErrUnauthorized.
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	// Method GetProfile returns the user with point and PITECOIN balances.
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
}

// refreshTokenCookie holds the refresh token when the client relies on cookies
const refreshTokenCookie = "refresh_token"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
	})
	r.With(authMiddleware).Get("/me", h.Me)
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Register a new user with email, username and password. Returns access and refresh tokens in the body and as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration data"
// @Success 201 {object} models.TokenPair
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Email or username already registered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "register user")
		return
	}

	h.setTokenCookies(w, tokens)
	h.RespondSuccess(w, http.StatusCreated, tokens)
}

// Login handles POST /auth/login
// @Summary Login
// @Description Authenticate with email or username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "login")
		return
	}

	h.setTokenCookies(w, tokens)
	h.RespondSuccess(w, http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh
// @Summary Refresh tokens
// @Description Rotate a refresh token. The token is read from the body or the refresh_token cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest false "Refresh token"
// @Success 200 {object} models.TokenPair
// @Failure 401 {object} map[string]string "Invalid or expired refresh token"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if r.ContentLength != 0 {
		if !h.DecodeJSON(w, r, &req) {
			return
		}
	}
	if req.RefreshToken == "" {
		if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
			req.RefreshToken = cookie.Value
		}
	}

	tokens, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.RespondServiceError(w, r, err, "refresh tokens")
		return
	}

	h.setTokenCookies(w, tokens)
	h.RespondSuccess(w, http.StatusOK, tokens)
}

// Me handles GET /me
// @Summary Get own profile
// @Description Get the authenticated user's profile with point and PITECOIN balances
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	profile, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "get profile")
		return
	}

	h.RespondSuccess(w, http.StatusOK, profile)
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, tokens *models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    tokens.RefreshToken,
		Path:     "/api/v1/auth",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

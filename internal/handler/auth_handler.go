package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"webshop/internal/auth"
	"webshop/internal/model"
	"webshop/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	logger      zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		logger:      logger,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name           string `json:"name" validate:"required"`
	Password       string `json:"password" validate:"required"`
	PasswordVerify string `json:"password_verify"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
}

// PingResponse reports the session state of a user. Token carries the
// legacy form: empty while the session is busy, "Pong" otherwise.
type PingResponse struct {
	UserID uint   `json:"user_id"`
	Status string `json:"status"`
	Token  string `json:"token"`
}

// Register godoc
// @Summary Register a new customer
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Password, req.PasswordVerify)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Login(c.Request().Context(), req.Name, req.Password)
	if err != nil {
		return fail(err)
	}

	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Name)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken: accessToken,
		User:        user,
	})
}

// Logout godoc
// @Summary Logout the caller
// @Description Expires the caller's session and revokes the presented token.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.authService.Logout(ctx, claims.UserID); err != nil {
		return fail(err)
	}
	if err := h.tokenStore.RevokeAccessToken(ctx, claims.ID, h.jwtService.RemainingLifetime(claims)); err != nil {
		h.logger.Warn().Err(err).Uint("user_id", claims.UserID).Msg("revoke access token")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// Ping godoc
// @Summary Check a user's session
// @Tags auth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} PingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/ping [get]
func (h *AuthHandler) Ping(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	status, err := h.authService.Ping(c.Request().Context(), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, PingResponse{
		UserID: userID,
		Status: status.String(),
		Token:  status.Token(),
	})
}

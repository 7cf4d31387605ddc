package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/middleware"
	"github.com/noah-isme/arqon-study-api/internal/models"
	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
	"github.com/noah-isme/arqon-study-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, userID int64) (*models.UserInfo, error)
	RememberedUsername(ctx context.Context) (models.RememberMe, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookie  *RememberCookie
	logger  *zap.Logger
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie *RememberCookie, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{service: svc, cookie: cookie, logger: logger}
}

// Register godoc
// @Summary Create account
// @Description Register a user and open a session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Register payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid register payload"))
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.writeRemember(c, req.RememberMe, res.User.Username)
	response.Created(c, res)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by username and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.writeRemember(c, req.RememberMe, res.User.Username)
	response.JSON(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Logout current session
// @Description Mark the current session inactive
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims.SessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Me godoc
// @Summary Get current user
// @Description Returns the authenticated user's info
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	info, err := h.service.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, info, map[string]interface{}{"session_id": claims.SessionID})
}

// Remembered godoc
// @Summary Remembered username
// @Description Returns the username to prefill on the login form
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/remembered [get]
func (h *AuthHandler) Remembered(c *gin.Context) {
	if h.cookie != nil {
		if pref, ok := h.cookie.Read(c); ok {
			response.JSON(c, http.StatusOK, pref, map[string]interface{}{"source": "cookie"})
			return
		}
	}

	pref, err := h.service.RememberedUsername(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref, map[string]interface{}{"source": "store"})
}

func (h *AuthHandler) writeRemember(c *gin.Context, remember bool, username string) {
	if h.cookie == nil {
		return
	}
	pref := models.RememberMe{Remember: remember}
	if remember {
		pref.Username = username
	}
	if err := h.cookie.Write(c, pref); err != nil {
		h.logger.Warn("failed to write remember-me cookie", zap.Error(err))
	}
}

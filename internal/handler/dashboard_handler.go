package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arqon-study-api/internal/middleware"
	"github.com/noah-isme/arqon-study-api/internal/models"
	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
	"github.com/noah-isme/arqon-study-api/pkg/response"
)

type dashboardService interface {
	Build(ctx context.Context, session models.Session) (*models.Dashboard, error)
}

type sessionFinder interface {
	CurrentSession(ctx context.Context, sessionID string) (*models.Session, error)
}

// DashboardHandler serves the landing page payload.
type DashboardHandler struct {
	service  dashboardService
	sessions sessionFinder
}

// NewDashboardHandler builds a DashboardHandler.
func NewDashboardHandler(svc dashboardService, sessions sessionFinder) *DashboardHandler {
	return &DashboardHandler{service: svc, sessions: sessions}
}

// Get godoc
// @Summary Dashboard
// @Description Welcome message, course count and assignment summary for the current session
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	session, err := h.sessions.CurrentSession(c.Request.Context(), claims.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	dashboard, err := h.service.Build(c.Request.Context(), *session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, map[string]interface{}{"login_time": session.LoginTime})
}

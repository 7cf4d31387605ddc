package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arqon-study-api/internal/middleware"
	"github.com/noah-isme/arqon-study-api/internal/models"
	"github.com/noah-isme/arqon-study-api/internal/service"
	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
	"github.com/noah-isme/arqon-study-api/pkg/response"
)

type assignmentService interface {
	List(ctx context.Context, view models.AssignmentView) (*models.AssignmentList, error)
	Create(ctx context.Context, req models.CreateAssignmentRequest) (*models.Assignment, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, req models.UpdateAssignmentStatusRequest) (*models.Assignment, error)
	View(ctx context.Context, userID int64) (*models.AssignmentList, error)
	ApplyFilter(ctx context.Context, userID int64, criteria models.FilterCriteria) (*models.AssignmentList, error)
	Sort(ctx context.Context, userID int64, column string) (*models.AssignmentList, error)
	Export(ctx context.Context, view models.AssignmentView, format string) (*service.ExportResult, error)
}

// AssignmentHandler exposes the assignment list commands.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler builds an AssignmentHandler.
func NewAssignmentHandler(svc assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

type sortRequest struct {
	Column string `json:"column" binding:"required"`
}

// List godoc
// @Summary List assignments
// @Description Filter, sort and summarize assignments without changing stored view state
// @Tags Assignments
// @Produce json
// @Param course query string false "Course code"
// @Param status query string false "Status"
// @Param due query string false "Due range (today, week, month, overdue)"
// @Param sort query string false "Sort column"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	view, err := viewFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.service.List(c.Request.Context(), view)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Create godoc
// @Summary Create assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body models.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid assignment payload"))
		return
	}
	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Delete godoc
// @Summary Delete assignment
// @Tags Assignments
// @Param id path int true "Assignment ID"
// @Success 204 {object} response.Envelope
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateStatus godoc
// @Summary Update assignment status
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param payload body models.UpdateAssignmentStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id}/status [patch]
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid status payload"))
		return
	}
	updated, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

// View godoc
// @Summary Current assignment view
// @Description Render the table with the caller's stored filter and sort
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments/view [get]
func (h *AssignmentHandler) View(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	list, err := h.service.View(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// ApplyFilter godoc
// @Summary Apply filter
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body models.FilterCriteria true "Filter criteria"
// @Success 200 {object} response.Envelope
// @Router /assignments/view/filter [put]
func (h *AssignmentHandler) ApplyFilter(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var criteria models.FilterCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid filter payload"))
		return
	}
	list, err := h.service.ApplyFilter(c.Request.Context(), claims.UserID, criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Sort godoc
// @Summary Toggle sort column
// @Description Same column flips direction, a new column sorts ascending
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body sortRequest true "Column"
// @Success 200 {object} response.Envelope
// @Router /assignments/view/sort [post]
func (h *AssignmentHandler) Sort(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "sort column is required"))
		return
	}
	list, err := h.service.Sort(c.Request.Context(), claims.UserID, req.Column)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Export godoc
// @Summary Export assignments
// @Tags Assignments
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /assignments/export [get]
func (h *AssignmentHandler) Export(c *gin.Context) {
	view, err := viewFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Export(c.Request.Context(), view, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}

func viewFromQuery(c *gin.Context) (models.AssignmentView, error) {
	var criteria models.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		return models.AssignmentView{}, appErrors.Invalid(err, "invalid filter")
	}
	return models.AssignmentView{
		Criteria:      criteria,
		SortColumn:    c.Query("sort"),
		SortDirection: models.SortDirection(c.Query("order")),
	}, nil
}

package department

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	"github.com/najma-se/Hospital-Appointment-sys/internal/service/catalog"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/httputil"
)

type Handler struct {
	service *catalog.Service
}

func NewHandler(service *catalog.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	dept, err := h.service.CreateDepartment(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, dept)
}

func (h *Handler) ListDepartments(c *gin.Context) {
	depts, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, depts)
}

// DeleteDepartment removes a department and all its doctors with it.
func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid department ID", err))
		return
	}

	if err := h.service.DeleteDepartment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, nil)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	departments := r.Group("/departments")
	{
		departments.POST("", h.CreateDepartment)
		departments.GET("", h.ListDepartments)
		departments.DELETE("/:id", h.DeleteDepartment)
	}
}

package request

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/najma-se/Hospital-Appointment-sys/internal/middleware"
	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	"github.com/najma-se/Hospital-Appointment-sys/internal/service/request"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/httputil"
)

type Handler struct {
	service *request.Service
}

func NewHandler(service *request.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SubmitRequest(c *gin.Context) {
	patientID, err := middleware.CurrentUserID(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unauthorized(err))
		return
	}

	var req model.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	r, err := h.service.Submit(c.Request.Context(), patientID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, r)
}

func (h *Handler) ListMyRequests(c *gin.Context) {
	patientID, err := middleware.CurrentUserID(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unauthorized(err))
		return
	}

	reqs, err := h.service.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, reqs)
}

func (h *Handler) UpdateRequest(c *gin.Context) {
	patientID, err := middleware.CurrentUserID(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unauthorized(err))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request ID", err))
		return
	}

	var req model.UpdateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	r, err := h.service.Update(c.Request.Context(), id, patientID, &req)
	if err != nil {
		// Denied comes back as a bare acknowledgement.
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, r)
}

func (h *Handler) DeleteRequest(c *gin.Context) {
	patientID, err := middleware.CurrentUserID(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unauthorized(err))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, patientID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, nil)
}

func (h *Handler) ListAllRequests(c *gin.Context) {
	reqs, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, reqs)
}

func (h *Handler) ApproveRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request ID", err))
		return
	}

	if err := h.service.Approve(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, nil)
}

func (h *Handler) RejectRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request ID", err))
		return
	}

	if err := h.service.Reject(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, nil)
}

// RegisterRoutes attaches the patient-facing request surface.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	{
		requests.POST("", h.SubmitRequest)
		requests.GET("", h.ListMyRequests)
		requests.PUT("/:id", h.UpdateRequest)
		requests.DELETE("/:id", h.DeleteRequest)
	}
}

// RegisterAdminRoutes attaches the approval-workflow surface.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	requests := r.Group("/admin/requests")
	{
		requests.GET("", h.ListAllRequests)
		requests.POST("/:id/approve", h.ApproveRequest)
		requests.POST("/:id/reject", h.RejectRequest)
	}
}

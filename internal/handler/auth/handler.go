package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	"github.com/najma-se/Hospital-Appointment-sys/internal/service/auth"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/httputil"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	user, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) RegisterAdmin(c *gin.Context) {
	var req model.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	user, err := h.service.RegisterAdmin(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, user)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/signup", h.Signup)
		authRoutes.POST("/login", h.Login)
	}
}

// RegisterAdminRoutes attaches the admin-guarded registration endpoint.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/auth/register-admin", h.RegisterAdmin)
}

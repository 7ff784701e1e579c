package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"xalqbahosi/internal/pkg/response"
)

type Handler struct {
	svc  *Service
	data *DataService
}

// NewHandler builds the admin handler. data may be nil, in which case the
// reset route is not registered.
func NewHandler(svc *Service, data *DataService) *Handler {
	return &Handler{svc: svc, data: data}
}

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.POST("/admin/login", h.Login)
	if admin != nil && h.data != nil {
		admin.POST("/admin/reset", h.Reset)
	}
}

// Login exchanges the admin credentials for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrCredentialsRequired):
			response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "AUTH_FAILED", err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Login xatosi")
		}
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{Token: token})
}

// Reset clears the local fallback data.
func (h *Handler) Reset(c *gin.Context) {
	if err := h.data.Reset(c.Request.Context()); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Ma'lumotlarni o'chirib bo'lmadi")
		return
	}
	response.Success(c, http.StatusOK, ResetResponse{Message: resetDoneMessage})
}

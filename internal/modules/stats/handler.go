package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xalqbahosi/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/stats", h.Get)
}

func (h *Handler) Get(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Statistikani yuklab bo'lmadi")
		return
	}
	response.Success(c, http.StatusOK, summary)
}

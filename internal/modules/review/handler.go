package review

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"xalqbahosi/internal/middleware"
	"xalqbahosi/internal/modules/media"
	"xalqbahosi/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/reviews", h.List)
	public.POST("/reviews", h.Create)
}

// List returns reviews newest first; ?locationId narrows to one location.
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("locationId"))
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Sharhlarni yuklab bo'lmadi")
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Create accepts JSON or multipart/form-data with an optional "media" file.
func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	in := SubmitInput{
		UserID:   middleware.TelegramUserID(c),
		UserName: middleware.TelegramUserName(c),
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
			return
		}
		if fh, err := c.FormFile("media"); err == nil {
			in.Media = fh
		} else if !errors.Is(err, http.ErrMissingFile) {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid media file")
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	in.CreateReviewRequest = req

	res, err := h.svc.Submit(c.Request.Context(), in)
	if err != nil {
		switch {
		case isValidationError(err):
			response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		case errors.Is(err, media.ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
		case isMediaError(err):
			response.Error(c, http.StatusBadRequest, "INVALID_MEDIA", err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Yuborishda xatolik yuz berdi")
		}
		return
	}

	response.Success(c, http.StatusCreated, res)
}

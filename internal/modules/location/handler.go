package location

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"xalqbahosi/internal/middleware"
	"xalqbahosi/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/locations", h.List)
	public.GET("/locations/nearby", h.Nearby)
	public.GET("/locations/:id", h.Get)
	if admin != nil {
		admin.POST("/locations", h.Create)
	}
}

func (h *Handler) List(c *gin.Context) {
	locs, err := h.svc.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Joylarni yuklab bo'lmadi")
		return
	}
	response.Success(c, http.StatusOK, locs)
}

// Nearby expects lat and lon; radius is in kilometres.
func (h *Handler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", ErrInvalidQuery.Error())
		return
	}
	radius := DefaultNearbyRadiusKm
	if raw := c.Query("radius"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "radius musbat son bo'lishi kerak")
			return
		}
		radius = r
	}

	locs, err := h.svc.Nearby(c.Request.Context(), lat, lon, radius)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Joylarni yuklab bo'lmadi")
		return
	}
	response.Success(c, http.StatusOK, locs)
}

func (h *Handler) Get(c *gin.Context) {
	l, err := h.svc.Get(c.Request.Context(), c.Param("id"), middleware.TelegramUserID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Joyni yuklab bo'lmadi")
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	l, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrFieldsRequired), errors.Is(err, ErrUnknownType), errors.Is(err, ErrInvalidCoordinates):
			response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Saqlashda xatolik yuz berdi")
		}
		return
	}
	response.Success(c, http.StatusCreated, l)
}

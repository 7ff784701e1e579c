package category

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"xalqbahosi/internal/domain"
	"xalqbahosi/internal/pkg/response"
)

type Store interface {
	ListCategories(ctx context.Context) []domain.Category
}

// Handler serves the review categories. The store already falls back to
// the built-in set, so the list is never empty.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/categories", h.List)
}

func (h *Handler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.ListCategories(c.Request.Context()))
}

package announcement

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"xalqbahosi/internal/middleware"
	"xalqbahosi/internal/pkg/response"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the feed is public and read-only
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	svc    *Service
	hub    *Hub
	logger *slog.Logger
}

func NewHandler(svc *Service, hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, hub: hub, logger: logger}
}

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/announcements", h.List)
	public.GET("/announcements/ws", h.Feed)
	if admin != nil {
		admin.POST("/announcements", h.Create)
	}
}

func (h *Handler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.svc.List(c.Request.Context()))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	author := ""
	if middleware.TelegramUserID(c) != 0 {
		author = middleware.TelegramUserName(c)
	}

	a, err := h.svc.Post(c.Request.Context(), req, author)
	if err != nil {
		if errors.Is(err, ErrFieldsRequired) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Yuborishda xatolik yuz berdi")
		return
	}
	response.Success(c, http.StatusCreated, a)
}

// Feed upgrades to a WebSocket that receives every new announcement.
// Client messages are read only to detect disconnects.
func (h *Handler) Feed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := h.hub.Register(conn)
	defer h.hub.Unregister(id)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Info("announcement feed closed", "error", err)
			}
			return
		}
	}
}

func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

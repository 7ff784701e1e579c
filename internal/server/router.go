package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"xalqbahosi/internal/metrics"
	"xalqbahosi/internal/middleware"
	"xalqbahosi/internal/modules/admin"
	"xalqbahosi/internal/modules/announcement"
	"xalqbahosi/internal/modules/category"
	"xalqbahosi/internal/modules/location"
	"xalqbahosi/internal/modules/media"
	"xalqbahosi/internal/modules/rating"
	"xalqbahosi/internal/modules/review"
	"xalqbahosi/internal/modules/stats"
	"xalqbahosi/internal/pkg/jwt"
	"xalqbahosi/internal/state"
	"xalqbahosi/internal/storage"
)

const defaultStateTTL = 10 * time.Minute

type Deps struct {
	Gateway          *storage.Gateway
	Local            *storage.LocalBackend
	State            *state.State
	Media            *media.Service
	JWT              *jwt.Service
	Hub              *announcement.Hub
	Metrics          *metrics.Metrics
	Logger           *slog.Logger
	AdminLogin       string
	AdminHash        string
	TelegramBotToken string
	UploadsDir       string
	CORSOrigins      []string
}

// NewRouter wires every module onto one gin engine under /api.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.State == nil {
		d.State = state.New(defaultStateTTL)
	}
	if d.Hub == nil {
		d.Hub = announcement.NewHub()
	}

	r := gin.New()
	r.Use(middleware.ErrorLogger(d.Logger))
	r.Use(middleware.CORS(d.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	if d.UploadsDir != "" {
		r.Static(media.StaticURLBase, d.UploadsDir)
	}

	aggregator := rating.NewAggregator(d.Gateway, d.State, d.Logger)

	var mediaStore review.MediaStore
	if d.Media != nil {
		mediaStore = d.Media
	}

	locationHandler := location.NewHandler(location.NewService(d.Gateway, d.State, d.Logger))
	reviewHandler := review.NewHandler(review.NewService(d.Gateway, aggregator, mediaStore, d.State, d.Metrics, d.Logger))
	announcementHandler := announcement.NewHandler(announcement.NewService(d.Gateway, d.Hub, d.Logger), d.Hub, d.Logger)
	categoryHandler := category.NewHandler(d.Gateway)
	statsHandler := stats.NewHandler(stats.NewService(d.Gateway))
	var dataService *admin.DataService
	if d.Local != nil {
		dataService = admin.NewDataService(d.Local, d.State, d.Logger)
	}
	adminHandler := admin.NewHandler(admin.NewService(d.AdminLogin, d.AdminHash, d.JWT, d.Logger), dataService)

	api := r.Group("/api")
	api.Use(middleware.TelegramUser(d.TelegramBotToken, d.Logger))
	{
		adminOnly := api.Group("")
		adminOnly.Use(middleware.AdminOnly(d.JWT)...)

		locationHandler.RegisterRoutes(api, adminOnly)
		reviewHandler.RegisterRoutes(api)
		announcementHandler.RegisterRoutes(api, adminOnly)
		categoryHandler.RegisterRoutes(api)
		statsHandler.RegisterRoutes(api)
		adminHandler.RegisterRoutes(api, adminOnly)
	}

	return r
}

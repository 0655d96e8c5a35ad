package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/http/middleware"
)

type APIService struct {
	engine  *gin.Engine
	context *appcontext.Context
}

func NewHTTPService(ctx *appcontext.Context) *APIService {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORSMiddleware())
	engine.LoadHTMLGlob("templates/*.html")

	service := &APIService{
		engine:  engine,
		context: ctx,
	}
	service.setupRoutes()
	return service
}

func (h *APIService) Engine() *gin.Engine {
	return h.engine
}

func (h *APIService) setupRoutes() {
	h.setupPageRoutes()
	h.setupAdminRoutes()

	v1 := h.engine.Group("/api/v1")
	h.setupAuthRoutes(v1)
	h.setupDatasetRoutes(v1)
	h.setupStatsRoutes(v1)
	h.setupSearchRoutes(v1)
	h.setupNotificationRoutes(v1)

	h.engine.Static("/static", "./static")
	h.engine.NoRoute(NotFound(h.context))
}

func (h *APIService) setupPageRoutes() {
	e := h.engine

	e.GET("/", Landing(h.context))
	e.GET("/home", Landing(h.context))

	e.GET("/login", LoginPage(h.context))
	e.POST("/login", middleware.RateLimitMiddleware(rate.Limit(1), 5), Login(h.context))
	e.GET("/register", RegisterPage(h.context))
	e.POST("/register", middleware.RateLimitMiddleware(rate.Limit(1), 5), Register(h.context))
	e.GET("/logout", Logout(h.context))

	e.GET("/dashboard", middleware.PageAuthMiddleware(), Dashboard(h.context))

	e.GET("/favourites", middleware.PageAuthMiddleware(), Favourites(h.context))
	e.POST("/favourites/add", middleware.PageAuthMiddleware(), AddFavourite(h.context))
	e.POST("/favourites/remove/:favouriteID", middleware.PageAuthMiddleware(), RemoveFavourite(h.context))

	e.GET("/chat", middleware.PageAuthMiddleware(), Chat(h.context))
	e.POST("/chat/send", middleware.PageAuthMiddleware(), SendComment(h.context))
}

func (h *APIService) setupAdminRoutes() {
	admin := h.engine.Group("/admin")
	admin.Use(middleware.PageAuthMiddleware(), middleware.AdminOnlyMiddleware(h.context))

	admin.GET("", AdminPanel(h.context))
	admin.POST("/create", AdminCreateUser(h.context))
	admin.POST("/promote/:userID", AdminPromoteUser(h.context))
	admin.POST("/demote/:userID", AdminDemoteUser(h.context))
	admin.POST("/delete/:userID", AdminDeleteUser(h.context))

	admin.POST("/categories", AdminCreateCategory(h.context))
	admin.POST("/categories/delete/:categoryID", AdminDeleteCategory(h.context))

	admin.POST("/datasets", AdminUploadDataset(h.context))
	admin.POST("/datasets/delete/:datasetID", AdminDeleteDataset(h.context))
}

func (h *APIService) setupAuthRoutes(group *gin.RouterGroup) {
	auth := group.Group("/auth")

	auth.GET("/google/login", GoogleLogin(h.context))
	auth.GET("/google/callback", GoogleCallback(h.context))
	auth.GET("/me", middleware.JWTAuthMiddleware(), GetUserInfo(h.context))
}

func (h *APIService) setupDatasetRoutes(group *gin.RouterGroup) {
	datasets := group.Group("/datasets")
	datasets.Use(middleware.JWTAuthMiddleware())

	datasets.GET("", GetDatasets(h.context))
}

func (h *APIService) setupStatsRoutes(group *gin.RouterGroup) {
	stats := group.Group("/stats")
	stats.Use(middleware.JWTAuthMiddleware())

	stats.GET("/:datasetID", GetDatasetStatistics(h.context))
}

func (h *APIService) setupSearchRoutes(group *gin.RouterGroup) {
	search := group.Group("/search")
	search.Use(middleware.JWTAuthMiddleware())

	search.GET("", SearchTracks(h.context))
}

func (h *APIService) setupNotificationRoutes(group *gin.RouterGroup) {
	notifications := group.Group("/notifications")
	notifications.Use(middleware.JWTAuthMiddleware())

	notifications.GET("", GetNotifications(h.context))
	notifications.POST("/:notificationID/read", MarkNotificationRead(h.context))
	notifications.POST("/read-all", MarkAllNotificationsRead(h.context))
}

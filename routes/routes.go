package routes

import (
	"net/http"
	"time"

	"quill/apperr"
	"quill/config"
	"quill/handlers"
	"quill/media"
	"quill/middleware"
	"quill/repository"
	"quill/service"
	"quill/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the router wires together.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	Sessions *session.Manager
	Posts    repository.PostRepository
	Users    repository.UserRepository
	Contacts repository.ContactRepository
	// DB is pinged by the health check; nil for in-memory storage.
	DB handlers.Pinger
	// Uploader is nil when cover uploads are not configured.
	Uploader media.Uploader
	Metrics  *middleware.Metrics
}

func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	log := d.Log

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
	)
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	validate := service.NewValidator()
	postSvc := service.NewPostService(d.Posts, d.Users, validate)
	authSvc := service.NewAuthService(d.Users, validate)
	contactSvc := service.NewContactService(d.Contacts, validate)

	postH := handlers.NewPostHandler(postSvc, log, cfg.RequestTimeout)
	authH := handlers.NewAuthHandler(authSvc, d.Sessions, handlers.CookieSettings{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
	}, log, cfg.RequestTimeout)
	contactH := handlers.NewContactHandler(contactSvc, log, cfg.RequestTimeout)
	healthH := handlers.NewHealthHandler(d.DB, log)

	requireSession := middleware.RequireSession(d.Sessions, cfg.CookieName, log)

	api := router.Group("/api")
	api.GET("/health", healthH.Health)

	// Posts
	posts := api.Group("/posts")
	posts.GET("", postH.List)
	posts.GET("/:id", postH.Get)
	posts.POST("", requireSession, postH.Create)
	posts.PUT("/:id", requireSession, postH.Update)
	posts.DELETE("/:id", requireSession, postH.Delete)
	posts.POST("/:id/comment", requireSession, postH.Comment)
	posts.PUT("/:id/like", requireSession, postH.Like)

	// Contact
	api.POST("/contact", contactH.Submit)

	// Accounts
	auth := api.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/logout", authH.Logout)
	auth.GET("/me", requireSession, authH.Me)

	// Uploads
	if d.Uploader != nil {
		uploadH := handlers.NewUploadHandler(d.Uploader, log, cfg.RequestTimeout)
		api.POST("/uploads/cover", requireSession, uploadH.Cover)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apperr.ErrorResponse{Error: apperr.KindNotFound.String(), Message: "Route not found"})
	})

	return router
}

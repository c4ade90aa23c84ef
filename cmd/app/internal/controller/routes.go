package controller

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vocabtest-backend/internal/service"
	"vocabtest-backend/pkg/middleware"
	"vocabtest-backend/utilities"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth       service.AuthService
	Words      service.WordService
	Import     service.ImportService
	Categories service.CategoryService
	Stats      service.StatsService
	Tests      service.TestService
	PDF        service.PDFService
}

// Options carries the config switches that shape the router.
type Options struct {
	EnableTokenAuth bool
	RequestDump     bool
	RateRPS         float64
	RateBurst       int
	StaticDir       string
	Version         string
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(svc Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(gin.DefaultWriter), gin.Recovery())
	r.Use(middleware.RequestID())
	if opts.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}

	// CORS configuration.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterRoutes(r, svc, opts)
	return r
}

func RegisterRoutes(r *gin.Engine, svc Services, opts Options) {
	staticCtrl := NewStaticController(opts.StaticDir, opts.Version)
	r.GET("/health", staticCtrl.Health)
	r.GET("/", staticCtrl.Index)
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}

	// Auth routes.
	authCtrl := NewAuthController(svc.Auth)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", authCtrl.Login)
		authRoutes.POST("/refresh", authCtrl.Refresh)
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimit(opts.RateRPS, opts.RateBurst))
	if opts.EnableTokenAuth {
		api.Use(utilities.AuthMiddleware())
	}

	// Word routes.
	wordCtrl := NewWordController(svc.Words, svc.Import)
	wordRoutes := api.Group("/words")
	{
		wordRoutes.GET("", wordCtrl.ListWords)
		wordRoutes.POST("", wordCtrl.CreateWord)
		wordRoutes.DELETE("", wordCtrl.BulkDelete)
		wordRoutes.POST("/import", wordCtrl.ImportWords)
		wordRoutes.GET("/range/:start/:end", wordCtrl.WordRange)
		wordRoutes.GET("/:id", wordCtrl.GetWord)
		wordRoutes.PUT("/:id", wordCtrl.UpdateWord)
		wordRoutes.DELETE("/:id", wordCtrl.DeleteWord)
	}

	// Category routes.
	categoryCtrl := NewCategoryController(svc.Categories, svc.Stats)
	categoryRoutes := api.Group("/categories")
	{
		categoryRoutes.GET("", categoryCtrl.ListCategories)
		categoryRoutes.POST("", categoryCtrl.CreateCategory)
		categoryRoutes.GET("/stats/overview", categoryCtrl.Overview)
		categoryRoutes.GET("/:id", categoryCtrl.GetCategory)
		categoryRoutes.PUT("/:id", categoryCtrl.UpdateCategory)
		categoryRoutes.DELETE("/:id", categoryCtrl.DeleteCategory)
	}

	// Test routes.
	testCtrl := NewTestController(svc.Tests, svc.PDF)
	testRoutes := api.Group("/tests")
	{
		testRoutes.GET("", testCtrl.ListTests)
		testRoutes.POST("", testCtrl.CreateTest)
		testRoutes.POST("/preview", testCtrl.PreviewTest)
		testRoutes.GET("/:id", testCtrl.GetTest)
		testRoutes.DELETE("/:id", testCtrl.DeleteTest)
		testRoutes.POST("/:id/history", testCtrl.RecordUsage)
		testRoutes.GET("/:id/history", testCtrl.History)
		testRoutes.GET("/:id/pdf", testCtrl.DownloadPDF)
	}
}

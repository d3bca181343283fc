// @title Roadwatch API
// @version 1.0
// @description Road incident reports, filters, likes and leaderboard
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/xyz-asif/roadwatch/docs"
	"github.com/xyz-asif/roadwatch/internal/config"
	"github.com/xyz-asif/roadwatch/internal/database"
	"github.com/xyz-asif/roadwatch/internal/features/auth"
	"github.com/xyz-asif/roadwatch/internal/features/filter"
	"github.com/xyz-asif/roadwatch/internal/middleware"
	"github.com/xyz-asif/roadwatch/internal/pkg/cache"
	"github.com/xyz-asif/roadwatch/internal/pkg/cloudinary"
	"github.com/xyz-asif/roadwatch/internal/pkg/logger"
	"github.com/xyz-asif/roadwatch/internal/pkg/metrics"
	"github.com/xyz-asif/roadwatch/internal/pkg/response"
	"github.com/xyz-asif/roadwatch/internal/pkg/validator"
	"github.com/xyz-asif/roadwatch/internal/routes"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB: %v", err)
	}
	defer func() { _ = db.Disconnect(context.Background()) }()

	catalog, err := filter.LoadCatalog(cfg.FilterCatalogPath)
	if err != nil {
		logger.Fatal("Failed to load filter catalog: %v", err)
	}

	app, err := auth.NewFirebaseApp(ctx, cfg.FirebaseServiceAccountPath)
	if err != nil {
		logger.Fatal("Failed to initialise Firebase: %v", err)
	}
	identity, err := auth.NewFirebaseIdentity(ctx, app)
	if err != nil {
		logger.Fatal("Failed to initialise Firebase Auth: %v", err)
	}

	var appCheck middleware.AppCheckVerifier
	if cfg.AppCheckEnabled {
		if appCheck, err = middleware.NewFirebaseAppCheck(ctx, app); err != nil {
			logger.Fatal("Failed to initialise App Check: %v", err)
		}
	} else {
		logger.Warn("App Check disabled")
	}

	var images cloudinary.Uploader
	if svc, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "roadwatch"); err != nil {
		logger.Warn("Image uploads disabled: %v", err)
	} else {
		images = svc
	}

	var store cache.Cache = cache.Nop{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("Redis unavailable, leaderboard cache disabled: %v", err)
		} else {
			store = rdb
			defer func() { _ = rdb.Close() }()
		}
	}

	validator.RegisterBindings()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			response.ServiceUnavailable(c, "Database unreachable", "DB_UNAVAILABLE")
			return
		}
		response.Success(c, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	routes.SetupRoutes(ctx, router, cfg, routes.Deps{
		DB:       db.Database,
		Identity: identity,
		Images:   images,
		Cache:    store,
		AppCheck: appCheck,
		Catalog:  catalog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

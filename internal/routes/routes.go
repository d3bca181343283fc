package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xyz-asif/roadwatch/internal/config"
	"github.com/xyz-asif/roadwatch/internal/features/auth"
	"github.com/xyz-asif/roadwatch/internal/features/filter"
	"github.com/xyz-asif/roadwatch/internal/features/leaderboard"
	"github.com/xyz-asif/roadwatch/internal/features/likes"
	"github.com/xyz-asif/roadwatch/internal/features/markers"
	"github.com/xyz-asif/roadwatch/internal/features/users"
	"github.com/xyz-asif/roadwatch/internal/middleware"
	"github.com/xyz-asif/roadwatch/internal/pkg/cache"
	"github.com/xyz-asif/roadwatch/internal/pkg/cloudinary"
	"github.com/xyz-asif/roadwatch/internal/pkg/jwt"
	"github.com/xyz-asif/roadwatch/internal/pkg/ratelimit"
)

// Deps are the long-lived collaborators built in main.
type Deps struct {
	DB       *mongo.Database
	Identity auth.IdentityProvider
	Images   cloudinary.Uploader // nil when Cloudinary is not configured
	Cache    cache.Cache
	AppCheck middleware.AppCheckVerifier // nil disables App Check
	Catalog  *filter.Catalog
}

// SetupRoutes wires every feature under /api/v1. Background sweepers stop when
// ctx is cancelled.
func SetupRoutes(ctx context.Context, router *gin.Engine, cfg *config.Config, deps Deps) {
	api := router.Group("/api/v1")
	api.Use(middleware.AppCheck(deps.AppCheck))

	jwtCfg := jwt.DefaultConfig(cfg.JWTSecret, cfg.JWTExpireHours)

	userRepo := auth.NewRepository(deps.DB)
	markerRepo := markers.NewRepository(deps.DB)
	likeRepo := likes.NewRepository(deps.DB)

	requireAuth := auth.NewAuthMiddleware(userRepo, jwtCfg)
	optionalAuth := auth.NewOptionalAuthMiddleware(userRepo, jwtCfg)

	board := leaderboard.NewService(userRepo, deps.Cache)
	ledger := leaderboard.NewLedger(userRepo, board)

	sessions := filter.NewSessionStore(deps.Catalog.Reducer(), cfg.FilterSessionTTL)
	sessions.StartSweeper(ctx, time.Minute)

	createLimiter := ratelimit.New(cfg.MarkerRateLimit, cfg.MarkerRateWindow)
	createLimiter.StartCleanup(ctx, 10*time.Minute)

	auth.RegisterRoutes(api, auth.NewHandler(userRepo, deps.Identity, deps.Images, jwtCfg), requireAuth)
	users.RegisterRoutes(api, users.NewHandler(userRepo))
	filter.RegisterRoutes(api, filter.NewHandler(deps.Catalog, sessions), requireAuth)
	markers.RegisterRoutes(api,
		markers.NewHandler(markerRepo, userRepo, likeRepo, deps.Images, ledger, deps.Catalog, sessions),
		requireAuth, optionalAuth, ratelimit.Middleware(createLimiter, ratelimit.ByUser),
	)
	likes.RegisterRoutes(api, likes.NewHandler(likeRepo, markerRepo, userRepo, ledger), requireAuth, optionalAuth)
	leaderboard.RegisterRoutes(api, leaderboard.NewHandler(board))
}

package leaderboard

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/features/auth"
	"github.com/xyz-asif/roadwatch/internal/pkg/cache"
	"github.com/xyz-asif/roadwatch/internal/pkg/logger"
	"github.com/xyz-asif/roadwatch/internal/pkg/metrics"
)

const (
	CacheKey = "leaderboard:v1"
	CacheTTL = 30 * time.Second
)

// UserSource lists users for ranking. *auth.Repository implements it.
type UserSource interface {
	ListByPoints(ctx context.Context) ([]auth.User, error)
}

// PointsStore changes a user's points. *auth.Repository implements it.
type PointsStore interface {
	IncrementPoints(ctx context.Context, userID primitive.ObjectID, delta int) error
}

type Service struct {
	users UserSource
	cache cache.Cache
	ttl   time.Duration
}

func NewService(users UserSource, c cache.Cache) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{users: users, cache: c, ttl: CacheTTL}
}

// Board returns the current ranking, from cache when possible. Cache failures
// fall back to the database.
func (s *Service) Board(ctx context.Context) (Board, error) {
	var ranked []auth.PublicUser
	hit, err := s.cache.Get(ctx, CacheKey, &ranked)
	if err != nil {
		logger.Warn("leaderboard: cache get: %v", err)
	}
	if hit && err == nil {
		metrics.LeaderboardCacheTotal.WithLabelValues("hit").Inc()
		return BuildBoard(ranked), nil
	}
	metrics.LeaderboardCacheTotal.WithLabelValues("miss").Inc()

	users, err := s.users.ListByPoints(ctx)
	if err != nil {
		return Board{}, fmt.Errorf("list users by points: %w", err)
	}

	ranked = make([]auth.PublicUser, 0, len(users))
	for i := range users {
		ranked = append(ranked, users[i].ToPublic())
	}
	ranked = Rank(ranked)

	if err := s.cache.Set(ctx, CacheKey, ranked, s.ttl); err != nil {
		logger.Warn("leaderboard: cache set: %v", err)
	}
	return BuildBoard(ranked), nil
}

func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, CacheKey); err != nil {
		logger.Warn("leaderboard: cache delete: %v", err)
	}
}

// Ledger applies point changes and keeps the cached ranking fresh.
type Ledger struct {
	points  PointsStore
	service *Service
}

func NewLedger(points PointsStore, service *Service) *Ledger {
	return &Ledger{points: points, service: service}
}

func (l *Ledger) Award(ctx context.Context, userID primitive.ObjectID, delta int) error {
	if delta == 0 {
		return nil
	}
	if err := l.points.IncrementPoints(ctx, userID, delta); err != nil {
		return err
	}
	l.service.Invalidate(ctx)
	return nil
}

package service

import (
	"context"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	leaderboardCacheKey = "leaderboard:top:%d"
	leaderboardCacheTTL = 30 * time.Second
)

// LeaderboardEntry is one row of the points ranking.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
}

// LeaderboardService derives the ranking from user point totals. The top-N
// list is cached in Redis with a short TTL; the database stays authoritative
// and a nil or unavailable client degrades to direct reads.
type LeaderboardService struct {
	UserRepo        *repository.UserRepository
	AchievementRepo *repository.AchievementRepository
	Redis           *redis.Client
}

func NewLeaderboardService(
	userRepo *repository.UserRepository,
	achievementRepo *repository.AchievementRepository,
	rdb *redis.Client,
) *LeaderboardService {
	return &LeaderboardService{
		UserRepo:        userRepo,
		AchievementRepo: achievementRepo,
		Redis:           rdb,
	}
}

// GetLeaderboard returns the top users by points. Ranks follow the strict
// greater-than rule, so tied point totals share a rank number.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if cached := s.readCache(ctx, limit); cached != nil {
		return cached, nil
	}

	users, err := s.UserRepo.FindTopByPoints(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		rank := i + 1
		if i > 0 && user.TotalPoints == users[i-1].TotalPoints {
			rank = entries[i-1].Rank
		}
		entries[i] = LeaderboardEntry{
			Rank:   rank,
			UserID: user.ID,
			Name:   user.Name,
			Points: user.TotalPoints,
			Level:  user.Level,
		}
	}

	s.writeCache(ctx, limit, entries)
	return entries, nil
}

// GetUserRank is 1 + the number of users holding strictly more points.
func (s *LeaderboardService) GetUserRank(userID uint) (int, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return 0, err
	}

	ahead, err := s.UserRepo.CountWithMorePoints(user.TotalPoints)
	if err != nil {
		return 0, err
	}

	return int(ahead) + 1, nil
}

// UserStats is the gamification summary surfaced on the profile header.
type UserStats struct {
	TotalPoints       int     `json:"totalPoints"`
	Level             int     `json:"level"`
	LevelProgress     float64 `json:"levelProgress"`
	Rank              int     `json:"rank"`
	AchievementsCount int     `json:"achievementsCount"`
	StreakDays        int     `json:"streakDays"`
}

func (s *LeaderboardService) GetUserStats(userID uint) (*UserStats, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	rank, err := s.GetUserRank(userID)
	if err != nil {
		return nil, err
	}

	earned, err := s.AchievementRepo.CountEarned(userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		TotalPoints:       user.TotalPoints,
		Level:             user.Level,
		LevelProgress:     LevelProgress(user.TotalPoints),
		Rank:              rank,
		AchievementsCount: int(earned),
		StreakDays:        user.StreakDays,
	}, nil
}

// Invalidate drops cached leaderboard pages after a points award.
func (s *LeaderboardService) Invalidate() {
	if s.Redis == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	iter := s.Redis.Scan(ctx, 0, "leaderboard:top:*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}

func (s *LeaderboardService) readCache(ctx context.Context, limit int) []LeaderboardEntry {
	if s.Redis == nil {
		return nil
	}

	raw, err := s.Redis.Get(ctx, fmt.Sprintf(leaderboardCacheKey, limit)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
		return nil
	}

	var entries []LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}

func (s *LeaderboardService) writeCache(ctx context.Context, limit int, entries []LeaderboardEntry) {
	if s.Redis == nil {
		return
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := s.Redis.Set(ctx, fmt.Sprintf(leaderboardCacheKey, limit), raw, leaderboardCacheTTL).Err(); err != nil {
		logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
	}
}

// TopUsersRaw exposes the uncached ordering for internal consumers.
func (s *LeaderboardService) TopUsersRaw(limit int) ([]model.User, error) {
	return s.UserRepo.FindTopByPoints(limit)
}

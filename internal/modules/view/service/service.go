package view

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	repo "arka.dev/learnhub/internal/modules/course/repository"
)

const (
	pendingKey  = "pending:course_views"
	viewWindow  = time.Hour
	syncDefault = time.Minute
)

// ViewService counts course views. Repeat views by the same user within an
// hour are deduplicated in redis; counters are flushed to the database by a
// periodic worker. Without redis every view goes straight to the database.
type ViewService interface {
	RecordView(ctx context.Context, courseID, userID uuid.UUID) error
	StartSyncWorker(ctx context.Context)
}

type viewService struct {
	rdb      *redis.Client
	courses  repo.CourseRepository
	interval time.Duration
	log      *zap.Logger
}

func NewViewService(rdb *redis.Client, courses repo.CourseRepository, interval time.Duration, log *zap.Logger) ViewService {
	if interval <= 0 {
		interval = syncDefault
	}
	return &viewService{rdb: rdb, courses: courses, interval: interval, log: log}
}

func userViewKey(courseID, userID uuid.UUID) string {
	return fmt.Sprintf("course:user_view:%s:%s", courseID, userID)
}

func viewKey(courseID uuid.UUID) string {
	return fmt.Sprintf("course:views:%s", courseID)
}

func (s *viewService) RecordView(ctx context.Context, courseID, userID uuid.UUID) error {
	if s.rdb == nil {
		return s.courses.IncrementViewCount(ctx, courseID, 1)
	}

	exists, err := s.rdb.Exists(ctx, userViewKey(courseID, userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check user view: %w", err)
	}
	if exists == 1 {
		return nil
	}

	if _, err := s.rdb.Incr(ctx, viewKey(courseID)).Result(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	if _, err := s.rdb.SAdd(ctx, pendingKey, courseID.String()).Result(); err != nil {
		return fmt.Errorf("failed to add to pending set: %w", err)
	}

	if _, err := s.rdb.SetEx(ctx, userViewKey(courseID, userID), "viewed", viewWindow).Result(); err != nil {
		return fmt.Errorf("failed to mark user view: %w", err)
	}

	return nil
}

func (s *viewService) syncViews(ctx context.Context) {
	courseIDs, err := s.rdb.SMembers(ctx, pendingKey).Result()
	if err != nil {
		s.log.Error("failed to read pending course views", zap.Error(err))
		return
	}
	if len(courseIDs) == 0 {
		return
	}

	synced := 0
	for _, courseIDStr := range courseIDs {
		courseID, err := uuid.Parse(courseIDStr)
		if err != nil {
			s.log.Warn("invalid course id in pending set", zap.String("id", courseIDStr))
			continue
		}

		key := viewKey(courseID)
		countStr, err := s.rdb.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			s.log.Error("failed to read view counter", zap.String("course_id", courseIDStr), zap.Error(err))
			continue
		}

		count, err := strconv.Atoi(countStr)
		if err != nil || count <= 0 {
			continue
		}

		if err := s.courses.IncrementViewCount(ctx, courseID, count); err != nil {
			s.log.Error("failed to flush view counter", zap.String("course_id", courseIDStr), zap.Error(err))
			continue
		}

		if _, err := s.rdb.Del(ctx, key).Result(); err != nil {
			s.log.Error("failed to reset view counter", zap.String("course_id", courseIDStr), zap.Error(err))
		}
		synced++
	}

	if _, err := s.rdb.Del(ctx, pendingKey).Result(); err != nil {
		s.log.Error("failed to clear pending set", zap.Error(err))
	}

	s.log.Info("synced course views", zap.Int("courses", synced))
}

// StartSyncWorker flushes counters until the context is cancelled. A no-op
// without redis.
func (s *viewService) StartSyncWorker(ctx context.Context) {
	if s.rdb == nil {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncViews(ctx)
		case <-ctx.Done():
			return
		}
	}
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/store"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *entity.Topic) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Topic, error)
	UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) (*entity.Topic, error)
	Find(ctx context.Context, q store.Query) ([]entity.Topic, error)
	Count(ctx context.Context, q store.Query) (int64, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)

	MaxOrder(ctx context.Context, lessonID uuid.UUID) (int, error)
	OrderExists(ctx context.Context, lessonID uuid.UUID, order int, excludeID uuid.UUID) (bool, error)
}

type topicRepository struct {
	*store.Store[entity.Topic]
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{Store: store.New[entity.Topic](db)}
}

func (r *topicRepository) MaxOrder(ctx context.Context, lessonID uuid.UUID) (int, error) {
	var max int
	err := r.DB().WithContext(ctx).
		Model(&entity.Topic{}).
		Where("lesson_id = ?", lessonID).
		Select(`COALESCE(MAX("order"), 0)`).
		Scan(&max).Error
	return max, err
}

func (r *topicRepository) OrderExists(ctx context.Context, lessonID uuid.UUID, order int, excludeID uuid.UUID) (bool, error) {
	tx := r.DB().WithContext(ctx).
		Model(&entity.Topic{}).
		Where(`lesson_id = ? AND "order" = ?`, lessonID, order)
	if excludeID != uuid.Nil {
		tx = tx.Where("id <> ?", excludeID)
	}
	var count int64
	err := tx.Count(&count).Error
	return count > 0, err
}

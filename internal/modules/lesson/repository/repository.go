package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/store"
)

type LessonRepository interface {
	Create(ctx context.Context, lesson *entity.Lesson) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Lesson, error)
	FindWithTopics(ctx context.Context, id uuid.UUID) (*entity.Lesson, error)
	UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) (*entity.Lesson, error)
	Find(ctx context.Context, q store.Query) ([]entity.Lesson, error)
	Count(ctx context.Context, q store.Query) (int64, error)

	MaxOrder(ctx context.Context, courseID uuid.UUID) (int, error)
	OrderExists(ctx context.Context, courseID uuid.UUID, order int, excludeID uuid.UUID) (bool, error)

	DeleteWithTopics(ctx context.Context, id uuid.UUID) error
}

type lessonRepository struct {
	*store.Store[entity.Lesson]
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{Store: store.New[entity.Lesson](db)}
}

func (r *lessonRepository) FindWithTopics(ctx context.Context, id uuid.UUID) (*entity.Lesson, error) {
	var lesson entity.Lesson
	err := r.DB().WithContext(ctx).
		Preload("Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
		}).
		Where("id = ?", id).
		Take(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) MaxOrder(ctx context.Context, courseID uuid.UUID) (int, error) {
	var max int
	err := r.DB().WithContext(ctx).
		Model(&entity.Lesson{}).
		Where("course_id = ?", courseID).
		Select(`COALESCE(MAX("order"), 0)`).
		Scan(&max).Error
	return max, err
}

func (r *lessonRepository) OrderExists(ctx context.Context, courseID uuid.UUID, order int, excludeID uuid.UUID) (bool, error) {
	tx := r.DB().WithContext(ctx).
		Model(&entity.Lesson{}).
		Where(`course_id = ? AND "order" = ?`, courseID, order)
	if excludeID != uuid.Nil {
		tx = tx.Where("id <> ?", excludeID)
	}
	var count int64
	err := tx.Count(&count).Error
	return count > 0, err
}

// DeleteWithTopics removes the lesson and its topics in one transaction,
// topics first.
func (r *lessonRepository) DeleteWithTopics(ctx context.Context, id uuid.UUID) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&entity.Topic{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&entity.Lesson{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

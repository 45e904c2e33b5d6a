package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/store"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) (*entity.User, error)

	IsFollowing(ctx context.Context, studentID, teacherID uuid.UUID) (bool, error)
	Follow(ctx context.Context, studentID, teacherID uuid.UUID) error
	Unfollow(ctx context.Context, studentID, teacherID uuid.UUID) error
	FollowedTeachers(ctx context.Context, studentID uuid.UUID) ([]*entity.User, error)
}

type userRepository struct {
	*store.Store[entity.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{Store: store.New[entity.User](db)}
}

// FindByEmail looks the account up case-insensitively; emails are stored
// lower-cased at registration.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.FindOne(ctx, store.Query{
		Filter: store.Filter{"email": strings.ToLower(email)},
	})
}

func (r *userRepository) IsFollowing(ctx context.Context, studentID, teacherID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB().WithContext(ctx).
		Table("teacher_follows").
		Where("student_id = ? AND teacher_id = ?", studentID, teacherID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Follow(ctx context.Context, studentID, teacherID uuid.UUID) error {
	return r.DB().WithContext(ctx).
		Model(&entity.User{ID: studentID}).
		Association("FollowingTeachers").
		Append(&entity.User{ID: teacherID})
}

func (r *userRepository) Unfollow(ctx context.Context, studentID, teacherID uuid.UUID) error {
	return r.DB().WithContext(ctx).
		Model(&entity.User{ID: studentID}).
		Association("FollowingTeachers").
		Delete(&entity.User{ID: teacherID})
}

func (r *userRepository) FollowedTeachers(ctx context.Context, studentID uuid.UUID) ([]*entity.User, error) {
	var teachers []*entity.User
	err := r.DB().WithContext(ctx).
		Model(&entity.User{ID: studentID}).
		Association("FollowingTeachers").
		Find(&teachers)
	if err != nil {
		return nil, err
	}
	return teachers, nil
}

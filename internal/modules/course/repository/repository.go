package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/store"
)

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	FindDetailed(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) (*entity.Course, error)
	Find(ctx context.Context, q store.Query) ([]entity.Course, error)
	Count(ctx context.Context, q store.Query) (int64, error)

	IsEnrolled(ctx context.Context, courseID, studentID uuid.UUID) (bool, error)
	Enroll(ctx context.Context, courseID, studentID uuid.UUID) error
	EnrolledBy(studentID uuid.UUID) func(*gorm.DB) *gorm.DB
	EnrolledStudents(ctx context.Context, courseID uuid.UUID) ([]*entity.User, error)

	IncrementLikes(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID, delta int) error

	DeleteSubtree(ctx context.Context, id uuid.UUID) error
}

type courseRepository struct {
	*store.Store[entity.Course]
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{Store: store.New[entity.Course](db)}
}

func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
}

// FindDetailed loads the course with its teacher and the full content tree,
// lessons and topics in order sequence.
func (r *courseRepository) FindDetailed(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	var course entity.Course
	err := r.DB().WithContext(ctx).
		Preload("Teacher").
		Preload("Lessons", byOrder).
		Preload("Lessons.Topics", byOrder).
		Where("id = ?", id).
		Take(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) IsEnrolled(ctx context.Context, courseID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB().WithContext(ctx).
		Table("course_enrollments").
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, err
}

// Enroll adds the membership row. Course.Students and User.EnrolledCourses
// are both views of this row, so the two sides of the relation cannot
// diverge; the join table's primary key rejects a concurrent duplicate.
func (r *courseRepository) Enroll(ctx context.Context, courseID, studentID uuid.UUID) error {
	return r.DB().WithContext(ctx).
		Model(&entity.Course{ID: courseID}).
		Association("Students").
		Append(&entity.User{ID: studentID})
}

// EnrolledBy is a fixed membership filter for listings of the student's
// courses.
func (r *courseRepository) EnrolledBy(studentID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins(
			"JOIN course_enrollments ON course_enrollments.course_id = courses.id AND course_enrollments.student_id = ?",
			studentID,
		)
	}
}

func (r *courseRepository) EnrolledStudents(ctx context.Context, courseID uuid.UUID) ([]*entity.User, error) {
	var students []*entity.User
	err := r.DB().WithContext(ctx).
		Model(&entity.Course{ID: courseID}).
		Association("Students").
		Find(&students)
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *courseRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	res := r.DB().WithContext(ctx).
		Model(&entity.Course{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *courseRepository) IncrementViewCount(ctx context.Context, id uuid.UUID, delta int) error {
	return r.DB().WithContext(ctx).
		Model(&entity.Course{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", delta)).Error
}

// DeleteSubtree removes the course and everything beneath it, leaves first,
// in one transaction: topics of every lesson, the lessons, the enrollment
// rows, then the course itself. Either the whole subtree goes or none of it.
func (r *courseRepository) DeleteSubtree(ctx context.Context, id uuid.UUID) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uuid.UUID
		if err := tx.Model(&entity.Lesson{}).
			Where("course_id = ?", id).
			Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}

		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&entity.Topic{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ?", id).Delete(&entity.Lesson{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM course_enrollments WHERE course_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&entity.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

package ownership

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/pkg/apperror"
)

type CourseSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error)
}

type LessonSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Lesson, error)
}

type TopicSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Topic, error)
}

// Resolver authorizes mutations against the content hierarchy by walking the
// parent chain up to the owning course. Every call re-fetches the chain; a
// missing link is reported as NotFound for that specific entity, an owner
// mismatch as Forbidden.
type Resolver struct {
	courses CourseSource
	lessons LessonSource
	topics  TopicSource
}

func NewResolver(courses CourseSource, lessons LessonSource, topics TopicSource) *Resolver {
	return &Resolver{courses: courses, lessons: lessons, topics: topics}
}

func (r *Resolver) fetchCourse(ctx context.Context, courseID uuid.UUID) (*entity.Course, error) {
	course, err := r.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("course not found")
		}
		return nil, apperror.Internal("failed to load course", err)
	}
	return course, nil
}

// Course authorizes a mutation on the course itself.
func (r *Resolver) Course(ctx context.Context, teacherID, courseID uuid.UUID) (*entity.Course, error) {
	course, err := r.fetchCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, apperror.Forbidden("you can only modify your own courses")
	}
	return course, nil
}

// Lesson authorizes a mutation on a lesson via its parent course.
func (r *Resolver) Lesson(ctx context.Context, teacherID, lessonID uuid.UUID) (*entity.Lesson, *entity.Course, error) {
	lesson, err := r.lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.NotFound("lesson not found")
		}
		return nil, nil, apperror.Internal("failed to load lesson", err)
	}

	course, err := r.Course(ctx, teacherID, lesson.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return lesson, course, nil
}

// Topic authorizes a mutation on a topic via its lesson and course.
func (r *Resolver) Topic(ctx context.Context, teacherID, topicID uuid.UUID) (*entity.Topic, *entity.Lesson, *entity.Course, error) {
	topic, err := r.topics.FindByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, apperror.NotFound("topic not found")
		}
		return nil, nil, nil, apperror.Internal("failed to load topic", err)
	}

	lesson, err := r.lessons.FindByID(ctx, topic.LessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, apperror.NotFound("lesson not found")
		}
		return nil, nil, nil, apperror.Internal("failed to load lesson", err)
	}

	course, err := r.Course(ctx, teacherID, lesson.CourseID)
	if err != nil {
		return nil, nil, nil, err
	}
	return topic, lesson, course, nil
}

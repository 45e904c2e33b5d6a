package service

import (
	"context"

	"github.com/google/uuid"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/modules/lesson/dto"
	"arka.dev/learnhub/internal/modules/lesson/repository"
	"arka.dev/learnhub/internal/ordinal"
	"arka.dev/learnhub/internal/ownership"
	"arka.dev/learnhub/internal/query"
	"arka.dev/learnhub/internal/store"
	"arka.dev/learnhub/pkg/apperror"
)

var searchFields = []string{"title", "content"}

type LessonService interface {
	Create(ctx context.Context, courseID, teacherID uuid.UUID, req dto.CreateLessonRequest) (*entity.Lesson, error)
	List(ctx context.Context, courseID, teacherID uuid.UUID, req dto.ListLessonsRequest) (*query.Page[entity.Lesson], error)
	Details(ctx context.Context, lessonID, teacherID uuid.UUID) (*entity.Lesson, error)
	Update(ctx context.Context, lessonID, teacherID uuid.UUID, req dto.UpdateLessonRequest) (*entity.Lesson, error)
	Delete(ctx context.Context, lessonID, teacherID uuid.UUID) error
}

type lessonService struct {
	lessons  repository.LessonRepository
	resolver *ownership.Resolver
	orders   *ordinal.Allocator
}

func NewLessonService(lessons repository.LessonRepository, resolver *ownership.Resolver) LessonService {
	return &lessonService{
		lessons:  lessons,
		resolver: resolver,
		orders:   ordinal.NewAllocator(lessons, "lesson"),
	}
}

func (s *lessonService) Create(ctx context.Context, courseID, teacherID uuid.UUID, req dto.CreateLessonRequest) (*entity.Lesson, error) {
	if _, err := s.resolver.Course(ctx, teacherID, courseID); err != nil {
		return nil, err
	}

	order, err := s.orders.Resolve(ctx, courseID, req.Order, uuid.Nil)
	if err != nil {
		return nil, err
	}

	lesson := &entity.Lesson{
		Title:    req.Title,
		Content:  req.Content,
		CourseID: courseID,
		Order:    order,
	}

	// unique index backstop for a concurrent create racing the same order
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, apperror.FromStore(err, "", "lesson order is already taken")
	}
	return lesson, nil
}

func (s *lessonService) List(ctx context.Context, courseID, teacherID uuid.UUID, req dto.ListLessonsRequest) (*query.Page[entity.Lesson], error) {
	if _, err := s.resolver.Course(ctx, teacherID, courseID); err != nil {
		return nil, err
	}

	return query.Paginate[entity.Lesson](ctx, s.lessons, query.Options{
		Filters:      store.Filter{"course_id": courseID},
		SearchTerm:   req.SearchTerm,
		SearchFields: searchFields,
		Sort:         []store.Order{{Field: "order"}},
		Page:         req.Page,
		Limit:        req.Limit,
	})
}

func (s *lessonService) Details(ctx context.Context, lessonID, teacherID uuid.UUID) (*entity.Lesson, error) {
	if _, _, err := s.resolver.Lesson(ctx, teacherID, lessonID); err != nil {
		return nil, err
	}

	lesson, err := s.lessons.FindWithTopics(ctx, lessonID)
	if err != nil {
		return nil, apperror.FromStore(err, "lesson not found", "")
	}
	return lesson, nil
}

func (s *lessonService) Update(ctx context.Context, lessonID, teacherID uuid.UUID, req dto.UpdateLessonRequest) (*entity.Lesson, error) {
	lesson, _, err := s.resolver.Lesson(ctx, teacherID, lessonID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Order != nil {
		order, err := s.orders.Resolve(ctx, lesson.CourseID, *req.Order, lessonID)
		if err != nil {
			return nil, err
		}
		fields["order"] = order
	}
	if len(fields) == 0 {
		return lesson, nil
	}

	updated, err := s.lessons.UpdateByID(ctx, lessonID, fields)
	if err != nil {
		return nil, apperror.FromStore(err, "lesson not found", "lesson order is already taken")
	}
	return updated, nil
}

func (s *lessonService) Delete(ctx context.Context, lessonID, teacherID uuid.UUID) error {
	if _, _, err := s.resolver.Lesson(ctx, teacherID, lessonID); err != nil {
		return err
	}

	if err := s.lessons.DeleteWithTopics(ctx, lessonID); err != nil {
		return apperror.FromStore(err, "lesson not found", "")
	}
	return nil
}

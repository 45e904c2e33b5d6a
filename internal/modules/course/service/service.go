package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/modules/course/dto"
	"arka.dev/learnhub/internal/modules/course/repository"
	userRepo "arka.dev/learnhub/internal/modules/user/repository"
	"arka.dev/learnhub/internal/ownership"
	"arka.dev/learnhub/internal/query"
	"arka.dev/learnhub/internal/store"
	"arka.dev/learnhub/pkg/apperror"
)

// searchFields is the declared field set free-text search runs over.
var searchFields = []string{"title", "description", "level"}

type CourseService interface {
	Create(ctx context.Context, teacherID uuid.UUID, req dto.CreateCourseRequest) (*entity.Course, error)
	Update(ctx context.Context, courseID, teacherID uuid.UUID, req dto.UpdateCourseRequest) (*entity.Course, error)
	Delete(ctx context.Context, courseID, teacherID uuid.UUID) error
	TeacherCourses(ctx context.Context, teacherID uuid.UUID, req dto.ListCoursesRequest) (*query.Page[entity.Course], error)
	Details(ctx context.Context, courseID, teacherID uuid.UUID) (*entity.Course, error)
	Analytics(ctx context.Context, courseID, teacherID uuid.UUID) (*dto.AnalyticsResponse, error)
}

type courseService struct {
	courses  repository.CourseRepository
	users    userRepo.UserRepository
	resolver *ownership.Resolver
}

func NewCourseService(courses repository.CourseRepository, users userRepo.UserRepository, resolver *ownership.Resolver) CourseService {
	return &courseService{courses: courses, users: users, resolver: resolver}
}

func (s *courseService) Create(ctx context.Context, teacherID uuid.UUID, req dto.CreateCourseRequest) (*entity.Course, error) {
	teacher, err := s.users.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("teacher not found")
		}
		return nil, apperror.Internal("failed to load teacher", err)
	}
	if teacher.Role != entity.RoleTeacher {
		return nil, apperror.Forbidden("only teachers can create courses")
	}

	level := entity.CourseLevel(req.Level)
	if req.Level == "" {
		level = entity.LevelBeginner
	}

	course := &entity.Course{
		Title:       req.Title,
		Description: req.Description,
		Level:       level,
		TeacherID:   teacherID,
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, apperror.Internal("failed to create course", err)
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, courseID, teacherID uuid.UUID, req dto.UpdateCourseRequest) (*entity.Course, error) {
	if _, err := s.resolver.Course(ctx, teacherID, courseID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Level != nil {
		fields["level"] = *req.Level
	}
	if len(fields) == 0 {
		course, err := s.courses.FindByID(ctx, courseID)
		if err != nil {
			return nil, apperror.FromStore(err, "course not found", "")
		}
		return course, nil
	}

	course, err := s.courses.UpdateByID(ctx, courseID, fields)
	if err != nil {
		return nil, apperror.FromStore(err, "course not found", "")
	}
	return course, nil
}

// Delete removes the course and its whole content subtree after verifying
// ownership.
func (s *courseService) Delete(ctx context.Context, courseID, teacherID uuid.UUID) error {
	if _, err := s.resolver.Course(ctx, teacherID, courseID); err != nil {
		return err
	}

	if err := s.courses.DeleteSubtree(ctx, courseID); err != nil {
		return apperror.FromStore(err, "course not found", "")
	}
	return nil
}

func (s *courseService) TeacherCourses(ctx context.Context, teacherID uuid.UUID, req dto.ListCoursesRequest) (*query.Page[entity.Course], error) {
	filters := store.Filter{"teacher_id": teacherID}
	if req.Level != "" {
		filters["level"] = req.Level
	}

	return query.Paginate[entity.Course](ctx, s.courses, query.Options{
		Filters:      filters,
		SearchTerm:   req.SearchTerm,
		SearchFields: searchFields,
		Page:         req.Page,
		Limit:        req.Limit,
	})
}

func (s *courseService) Details(ctx context.Context, courseID, teacherID uuid.UUID) (*entity.Course, error) {
	course, err := s.courses.FindDetailed(ctx, courseID)
	if err != nil {
		return nil, apperror.FromStore(err, "course not found", "")
	}
	if course.TeacherID != teacherID {
		return nil, apperror.Forbidden("you can only view details of your own courses")
	}
	return course, nil
}

func (s *courseService) Analytics(ctx context.Context, courseID, teacherID uuid.UUID) (*dto.AnalyticsResponse, error) {
	course, err := s.resolver.Course(ctx, teacherID, courseID)
	if err != nil {
		return nil, err
	}

	students, err := s.courses.EnrolledStudents(ctx, courseID)
	if err != nil {
		return nil, apperror.Internal("failed to load enrolled students", err)
	}

	resp := &dto.AnalyticsResponse{
		CourseID:     course.ID,
		Title:        course.Title,
		StudentCount: len(students),
		Likes:        course.Likes,
		ViewCount:    course.ViewCount,
		Students:     make([]dto.EnrolledStudent, 0, len(students)),
	}
	for _, st := range students {
		resp.Students = append(resp.Students, dto.EnrolledStudent{ID: st.ID, Name: st.Name, Email: st.Email})
	}
	return resp, nil
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/modules/course/dto"
	"arka.dev/learnhub/internal/modules/course/repository"
	userRepo "arka.dev/learnhub/internal/modules/user/repository"
	"arka.dev/learnhub/internal/query"
	"arka.dev/learnhub/internal/store"
	"arka.dev/learnhub/pkg/apperror"
)

// ViewCounter records a course view for a user; implementations may dedupe
// repeat views before the counter is bumped.
type ViewCounter interface {
	RecordView(ctx context.Context, courseID, userID uuid.UUID) error
}

type CatalogService interface {
	ListCourses(ctx context.Context, req dto.ListCoursesRequest) (*query.Page[entity.Course], error)
	PublicDetails(ctx context.Context, courseID, studentID uuid.UUID) (*entity.Course, error)
	Enroll(ctx context.Context, courseID, studentID uuid.UUID) (*entity.Course, error)
	EnrolledCourses(ctx context.Context, studentID uuid.UUID, req dto.ListCoursesRequest) (*query.Page[entity.Course], error)
	Like(ctx context.Context, courseID, studentID uuid.UUID) (*entity.Course, error)
}

type catalogService struct {
	courses repository.CourseRepository
	users   userRepo.UserRepository
	views   ViewCounter
	log     *zap.Logger
}

func NewCatalogService(courses repository.CourseRepository, users userRepo.UserRepository, views ViewCounter, log *zap.Logger) CatalogService {
	return &catalogService{courses: courses, users: users, views: views, log: log}
}

func (s *catalogService) ListCourses(ctx context.Context, req dto.ListCoursesRequest) (*query.Page[entity.Course], error) {
	filters := store.Filter{}
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

// PublicDetails returns the full course tree. A view by someone not enrolled
// counts toward the course's view counter; a failed count never fails the
// read.
func (s *catalogService) PublicDetails(ctx context.Context, courseID, studentID uuid.UUID) (*entity.Course, error) {
	course, err := s.courses.FindDetailed(ctx, courseID)
	if err != nil {
		return nil, apperror.FromStore(err, "course not found", "")
	}

	enrolled, err := s.courses.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return nil, apperror.Internal("failed to check enrollment", err)
	}
	if !enrolled && s.views != nil {
		if err := s.views.RecordView(ctx, courseID, studentID); err != nil {
			s.log.Warn("failed to record course view",
				zap.String("course_id", courseID.String()), zap.Error(err))
		}
	}

	return course, nil
}

func (s *catalogService) loadStudent(ctx context.Context, studentID uuid.UUID) (*entity.User, error) {
	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("student not found")
		}
		return nil, apperror.Internal("failed to load student", err)
	}
	return student, nil
}

func (s *catalogService) Enroll(ctx context.Context, courseID, studentID uuid.UUID) (*entity.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, apperror.FromStore(err, "course not found", "")
	}

	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != entity.RoleStudent {
		return nil, apperror.Forbidden("only students can enroll in courses")
	}

	enrolled, err := s.courses.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return nil, apperror.Internal("failed to check enrollment", err)
	}
	if enrolled {
		return nil, apperror.Conflict("student is already enrolled in this course")
	}

	if err := s.courses.Enroll(ctx, courseID, studentID); err != nil {
		return nil, apperror.FromStore(err, "", "student is already enrolled in this course")
	}

	return course, nil
}

func (s *catalogService) EnrolledCourses(ctx context.Context, studentID uuid.UUID, req dto.ListCoursesRequest) (*query.Page[entity.Course], error) {
	if _, err := s.loadStudent(ctx, studentID); err != nil {
		return nil, err
	}

	return query.Paginate[entity.Course](ctx, s.courses, query.Options{
		SearchTerm:   req.SearchTerm,
		SearchFields: searchFields,
		Page:         req.Page,
		Limit:        req.Limit,
		Scopes:       []func(*gorm.DB) *gorm.DB{s.courses.EnrolledBy(studentID)},
	})
}

// Like bumps the monotonic like counter; only enrolled students may like and
// there is no un-like.
func (s *catalogService) Like(ctx context.Context, courseID, studentID uuid.UUID) (*entity.Course, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, apperror.FromStore(err, "course not found", "")
	}

	if _, err := s.loadStudent(ctx, studentID); err != nil {
		return nil, err
	}

	enrolled, err := s.courses.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return nil, apperror.Internal("failed to check enrollment", err)
	}
	if !enrolled {
		return nil, apperror.Forbidden("you must be enrolled in the course to like it")
	}

	course, err := s.courses.IncrementLikes(ctx, courseID)
	if err != nil {
		return nil, apperror.FromStore(err, "course not found", "")
	}
	return course, nil
}

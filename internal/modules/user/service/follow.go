package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/modules/user/dto"
	"arka.dev/learnhub/internal/modules/user/repository"
	"arka.dev/learnhub/pkg/apperror"
)

type FollowService interface {
	Follow(ctx context.Context, studentID, teacherID uuid.UUID) error
	Unfollow(ctx context.Context, studentID, teacherID uuid.UUID) error
	FollowedTeachers(ctx context.Context, studentID uuid.UUID) ([]dto.TeacherResponse, error)
}

type followService struct {
	repo repository.UserRepository
}

func NewFollowService(repo repository.UserRepository) FollowService {
	return &followService{repo: repo}
}

func (s *followService) loadPair(ctx context.Context, studentID, teacherID uuid.UUID) error {
	teacher, err := s.repo.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("teacher not found")
		}
		return apperror.Internal("failed to load teacher", err)
	}
	if teacher.Role != entity.RoleTeacher {
		return apperror.Invalid("you can only follow teachers")
	}

	student, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("student not found")
		}
		return apperror.Internal("failed to load student", err)
	}
	if student.Role != entity.RoleStudent {
		return apperror.Forbidden("only students can follow teachers")
	}

	return nil
}

func (s *followService) Follow(ctx context.Context, studentID, teacherID uuid.UUID) error {
	if err := s.loadPair(ctx, studentID, teacherID); err != nil {
		return err
	}

	following, err := s.repo.IsFollowing(ctx, studentID, teacherID)
	if err != nil {
		return apperror.Internal("failed to check follow state", err)
	}
	if following {
		return apperror.Conflict("already following this teacher")
	}

	if err := s.repo.Follow(ctx, studentID, teacherID); err != nil {
		return apperror.FromStore(err, "", "already following this teacher")
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, studentID, teacherID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, studentID); err != nil {
		return apperror.FromStore(err, "student not found", "")
	}

	following, err := s.repo.IsFollowing(ctx, studentID, teacherID)
	if err != nil {
		return apperror.Internal("failed to check follow state", err)
	}
	if !following {
		return apperror.Conflict("not following this teacher")
	}

	if err := s.repo.Unfollow(ctx, studentID, teacherID); err != nil {
		return apperror.Internal("failed to unfollow teacher", err)
	}
	return nil
}

func (s *followService) FollowedTeachers(ctx context.Context, studentID uuid.UUID) ([]dto.TeacherResponse, error) {
	if _, err := s.repo.FindByID(ctx, studentID); err != nil {
		return nil, apperror.FromStore(err, "student not found", "")
	}

	teachers, err := s.repo.FollowedTeachers(ctx, studentID)
	if err != nil {
		return nil, apperror.Internal("failed to list followed teachers", err)
	}

	out := make([]dto.TeacherResponse, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, dto.TeacherResponse{ID: t.ID, Name: t.Name, Email: t.Email})
	}
	return out, nil
}

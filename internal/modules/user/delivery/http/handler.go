package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"arka.dev/learnhub/internal/modules/user/dto"
	service "arka.dev/learnhub/internal/modules/user/service"
	"arka.dev/learnhub/pkg/apperror"
	"arka.dev/learnhub/pkg/response"
	"arka.dev/learnhub/pkg/validator"
)

type AuthHandler struct {
	auth    service.AuthService
	follows service.FollowService
	log     *zap.Logger
}

func NewAuthHandler(auth service.AuthService, follows service.FollowService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, follows: follows, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusCreated, "user registered successfully", resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "login successful", resp)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	profile, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "profile retrieved successfully", profile)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	profile, err := h.auth.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "profile updated successfully", profile)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, req); err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "password changed successfully", nil)
}

func (h *AuthHandler) FollowTeacher(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	teacherID, err := uuid.Parse(c.Param("teacherId"))
	if err != nil {
		response.Error(c, h.log, apperror.Invalid("invalid teacher id"))
		return
	}

	if err := h.follows.Follow(c.Request.Context(), studentID, teacherID); err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "teacher followed successfully", nil)
}

func (h *AuthHandler) UnfollowTeacher(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	teacherID, err := uuid.Parse(c.Param("teacherId"))
	if err != nil {
		response.Error(c, h.log, apperror.Invalid("invalid teacher id"))
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), studentID, teacherID); err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "teacher unfollowed successfully", nil)
}

func (h *AuthHandler) FollowedTeachers(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	teachers, err := h.follows.FollowedTeachers(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "followed teachers retrieved successfully", teachers)
}

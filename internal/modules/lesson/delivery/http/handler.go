package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"arka.dev/learnhub/internal/modules/lesson/dto"
	"arka.dev/learnhub/internal/modules/lesson/service"
	"arka.dev/learnhub/pkg/apperror"
	"arka.dev/learnhub/pkg/response"
	"arka.dev/learnhub/pkg/validator"
)

type LessonHandler struct {
	lessons service.LessonService
	log     *zap.Logger
}

func NewLessonHandler(lessons service.LessonService, log *zap.Logger) *LessonHandler {
	return &LessonHandler{lessons: lessons, log: log}
}

func pathID(c *gin.Context, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Invalid("invalid " + label + " id")
	}
	return id, nil
}

func (h *LessonHandler) Create(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	courseID, err := pathID(c, "courseId", "course")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	lesson, err := h.lessons.Create(c.Request.Context(), courseID, teacherID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusCreated, "lesson created successfully", lesson)
}

func (h *LessonHandler) List(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	courseID, err := pathID(c, "courseId", "course")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req dto.ListLessonsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	page, err := h.lessons.List(c.Request.Context(), courseID, teacherID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.Paginated(c, "lessons retrieved successfully", page.Data, page.Meta)
}

func (h *LessonHandler) Details(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	lessonID, err := pathID(c, "lessonId", "lesson")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	lesson, err := h.lessons.Details(c.Request.Context(), lessonID, teacherID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "lesson retrieved successfully", lesson)
}

func (h *LessonHandler) Update(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	lessonID, err := pathID(c, "lessonId", "lesson")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req dto.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	lesson, err := h.lessons.Update(c.Request.Context(), lessonID, teacherID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "lesson updated successfully", lesson)
}

func (h *LessonHandler) Delete(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	lessonID, err := pathID(c, "lessonId", "lesson")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	if err := h.lessons.Delete(c.Request.Context(), lessonID, teacherID); err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "lesson and its topics deleted successfully", nil)
}

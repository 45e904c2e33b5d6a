package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"arka.dev/learnhub/internal/modules/course/dto"
	"arka.dev/learnhub/internal/modules/course/service"
	"arka.dev/learnhub/pkg/apperror"
	"arka.dev/learnhub/pkg/response"
	"arka.dev/learnhub/pkg/validator"
)

// CourseHandler serves the teacher-facing course surface.
type CourseHandler struct {
	courses service.CourseService
	log     *zap.Logger
}

func NewCourseHandler(courses service.CourseService, log *zap.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, log: log}
}

func courseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		return uuid.Nil, apperror.Invalid("invalid course id")
	}
	return id, nil
}

func (h *CourseHandler) Create(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	course, err := h.courses.Create(c.Request.Context(), teacherID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusCreated, "course created successfully", course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	id, err := courseID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	course, err := h.courses.Update(c.Request.Context(), id, teacherID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "course updated successfully", course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	id, err := courseID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	if err := h.courses.Delete(c.Request.Context(), id, teacherID); err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "course and all its content deleted successfully", nil)
}

func (h *CourseHandler) List(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req dto.ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	page, err := h.courses.TeacherCourses(c.Request.Context(), teacherID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.Paginated(c, "courses retrieved successfully", page.Data, page.Meta)
}

func (h *CourseHandler) Details(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	id, err := courseID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	course, err := h.courses.Details(c.Request.Context(), id, teacherID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "course details retrieved successfully", course)
}

func (h *CourseHandler) Analytics(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	id, err := courseID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	analytics, err := h.courses.Analytics(c.Request.Context(), id, teacherID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "course analytics retrieved successfully", analytics)
}

// CatalogHandler serves the student-facing course surface.
type CatalogHandler struct {
	catalog service.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

func (h *CatalogHandler) List(c *gin.Context) {
	var req dto.ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	page, err := h.catalog.ListCourses(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.Paginated(c, "courses retrieved successfully", page.Data, page.Meta)
}

func (h *CatalogHandler) Details(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	id, err := courseID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	course, err := h.catalog.PublicDetails(c.Request.Context(), id, studentID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "course retrieved successfully", course)
}

func (h *CatalogHandler) Enroll(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	id, err := courseID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	course, err := h.catalog.Enroll(c.Request.Context(), id, studentID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "enrolled in course successfully", course)
}

func (h *CatalogHandler) EnrolledCourses(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req dto.ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	page, err := h.catalog.EnrolledCourses(c.Request.Context(), studentID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.Paginated(c, "enrolled courses retrieved successfully", page.Data, page.Meta)
}

func (h *CatalogHandler) Like(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	id, err := courseID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	course, err := h.catalog.Like(c.Request.Context(), id, studentID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "course liked successfully", course)
}

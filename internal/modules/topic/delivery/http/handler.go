package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"arka.dev/learnhub/internal/modules/topic/dto"
	"arka.dev/learnhub/internal/modules/topic/service"
	"arka.dev/learnhub/pkg/apperror"
	"arka.dev/learnhub/pkg/response"
	"arka.dev/learnhub/pkg/validator"
)

type TopicHandler struct {
	topics service.TopicService
	log    *zap.Logger
}

func NewTopicHandler(topics service.TopicService, log *zap.Logger) *TopicHandler {
	return &TopicHandler{topics: topics, log: log}
}

func pathID(c *gin.Context, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Invalid("invalid " + label + " id")
	}
	return id, nil
}

func (h *TopicHandler) Create(c *gin.Context) {
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

	var req dto.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	topic, err := h.topics.Create(c.Request.Context(), lessonID, teacherID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusCreated, "topic created successfully", topic)
}

func (h *TopicHandler) List(c *gin.Context) {
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

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.topics.List(c.Request.Context(), lessonID, teacherID, page, limit)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.Paginated(c, "topics retrieved successfully", result.Data, result.Meta)
}

func (h *TopicHandler) Update(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	topicID, err := pathID(c, "topicId", "topic")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req dto.UpdateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	topic, err := h.topics.Update(c.Request.Context(), topicID, teacherID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "topic updated successfully", topic)
}

func (h *TopicHandler) Delete(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	topicID, err := pathID(c, "topicId", "topic")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	if err := h.topics.Delete(c.Request.Context(), topicID, teacherID); err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "topic deleted successfully", nil)
}

package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/modules/topic/dto"
	"arka.dev/learnhub/internal/modules/topic/repository"
	"arka.dev/learnhub/internal/ordinal"
	"arka.dev/learnhub/internal/ownership"
	"arka.dev/learnhub/internal/query"
	"arka.dev/learnhub/internal/store"
	"arka.dev/learnhub/pkg/apperror"
)

type TopicService interface {
	Create(ctx context.Context, lessonID, teacherID uuid.UUID, req dto.CreateTopicRequest) (*entity.Topic, error)
	List(ctx context.Context, lessonID, teacherID uuid.UUID, page, limit int) (*query.Page[entity.Topic], error)
	Update(ctx context.Context, topicID, teacherID uuid.UUID, req dto.UpdateTopicRequest) (*entity.Topic, error)
	Delete(ctx context.Context, topicID, teacherID uuid.UUID) error
}

type topicService struct {
	topics   repository.TopicRepository
	resolver *ownership.Resolver
	orders   *ordinal.Allocator
}

func NewTopicService(topics repository.TopicRepository, resolver *ownership.Resolver) TopicService {
	return &topicService{
		topics:   topics,
		resolver: resolver,
		orders:   ordinal.NewAllocator(topics, "topic"),
	}
}

// validateQuiz enforces the quiz shape: at least one question, each with
// non-empty text and at least two options. Content topics carry no quiz.
func validateQuiz(topicType entity.TopicType, quiz []dto.QuizQuestionPayload) error {
	if topicType != entity.TopicQuiz {
		if len(quiz) > 0 {
			return apperror.Invalid("only quiz topics can carry quiz questions")
		}
		return nil
	}

	if len(quiz) == 0 {
		return apperror.Invalid("quiz topics must have at least one question")
	}
	for _, q := range quiz {
		if strings.TrimSpace(q.Question) == "" {
			return apperror.Invalid("quiz questions must have non-empty text")
		}
		if len(q.Options) < 2 {
			return apperror.Invalid("each quiz question must have at least two options")
		}
	}
	return nil
}

func quizColumn(quiz []dto.QuizQuestionPayload) datatypes.JSONSlice[entity.QuizQuestion] {
	questions := make([]entity.QuizQuestion, 0, len(quiz))
	for _, q := range quiz {
		questions = append(questions, q.ToEntity())
	}
	return datatypes.NewJSONSlice(questions)
}

func (s *topicService) Create(ctx context.Context, lessonID, teacherID uuid.UUID, req dto.CreateTopicRequest) (*entity.Topic, error) {
	if _, _, err := s.resolver.Lesson(ctx, teacherID, lessonID); err != nil {
		return nil, err
	}

	topicType := entity.TopicType(req.Type)
	if req.Type == "" {
		topicType = entity.TopicContent
	}
	if err := validateQuiz(topicType, req.Quiz); err != nil {
		return nil, err
	}

	order, err := s.orders.Resolve(ctx, lessonID, req.Order, uuid.Nil)
	if err != nil {
		return nil, err
	}

	topic := &entity.Topic{
		Title:    req.Title,
		Content:  req.Content,
		LessonID: lessonID,
		Order:    order,
		Type:     topicType,
	}
	if topicType == entity.TopicQuiz {
		topic.Quiz = quizColumn(req.Quiz)
	}

	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, apperror.FromStore(err, "", "topic order is already taken")
	}
	return topic, nil
}

func (s *topicService) List(ctx context.Context, lessonID, teacherID uuid.UUID, page, limit int) (*query.Page[entity.Topic], error) {
	if _, _, err := s.resolver.Lesson(ctx, teacherID, lessonID); err != nil {
		return nil, err
	}

	return query.Paginate[entity.Topic](ctx, s.topics, query.Options{
		Filters: store.Filter{"lesson_id": lessonID},
		Sort:    []store.Order{{Field: "order"}},
		Page:    page,
		Limit:   limit,
	})
}

func (s *topicService) Update(ctx context.Context, topicID, teacherID uuid.UUID, req dto.UpdateTopicRequest) (*entity.Topic, error) {
	topic, _, _, err := s.resolver.Topic(ctx, teacherID, topicID)
	if err != nil {
		return nil, err
	}

	topicType := topic.Type
	if req.Type != nil {
		topicType = entity.TopicType(*req.Type)
	}
	if topicType == entity.TopicQuiz {
		if req.Quiz != nil {
			if err := validateQuiz(topicType, *req.Quiz); err != nil {
				return nil, err
			}
		} else if topic.Type != entity.TopicQuiz {
			// switching to quiz requires the questions in the same request
			return nil, apperror.Invalid("quiz topics must have at least one question")
		}
	} else if req.Quiz != nil && len(*req.Quiz) > 0 {
		return nil, apperror.Invalid("only quiz topics can carry quiz questions")
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Type != nil {
		fields["type"] = topicType
	}
	if req.Quiz != nil {
		fields["quiz"] = quizColumn(*req.Quiz)
	} else if req.Type != nil && topicType == entity.TopicContent {
		fields["quiz"] = nil
	}
	if req.Order != nil {
		order, err := s.orders.Resolve(ctx, topic.LessonID, *req.Order, topicID)
		if err != nil {
			return nil, err
		}
		fields["order"] = order
	}
	if len(fields) == 0 {
		return topic, nil
	}

	updated, err := s.topics.UpdateByID(ctx, topicID, fields)
	if err != nil {
		return nil, apperror.FromStore(err, "topic not found", "topic order is already taken")
	}
	return updated, nil
}

func (s *topicService) Delete(ctx context.Context, topicID, teacherID uuid.UUID) error {
	if _, _, _, err := s.resolver.Topic(ctx, teacherID, topicID); err != nil {
		return err
	}

	deleted, err := s.topics.DeleteByID(ctx, topicID)
	if err != nil {
		return apperror.Internal("failed to delete topic", err)
	}
	if !deleted {
		return apperror.NotFound("topic not found")
	}
	return nil
}

package service

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/modules/topic/dto"
	"arka.dev/learnhub/internal/ownership"
	"arka.dev/learnhub/internal/store"
	"arka.dev/learnhub/pkg/apperror"
)

type fakeCourses struct {
	courses map[uuid.UUID]*entity.Course
}

func (f *fakeCourses) FindByID(_ context.Context, id uuid.UUID) (*entity.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

type fakeLessons struct {
	lessons map[uuid.UUID]*entity.Lesson
}

func (f *fakeLessons) FindByID(_ context.Context, id uuid.UUID) (*entity.Lesson, error) {
	lesson, ok := f.lessons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lesson, nil
}

type fakeTopicRepo struct {
	topics map[uuid.UUID]*entity.Topic
}

func (f *fakeTopicRepo) Create(_ context.Context, topic *entity.Topic) error {
	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}
	for _, other := range f.topics {
		if other.LessonID == topic.LessonID && other.Order == topic.Order {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *topic
	f.topics[topic.ID] = &cp
	return nil
}

func (f *fakeTopicRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Topic, error) {
	topic, ok := f.topics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *topic
	return &cp, nil
}

func (f *fakeTopicRepo) UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) (*entity.Topic, error) {
	topic, ok := f.topics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := fields["title"]; ok {
		topic.Title = v.(string)
	}
	if v, ok := fields["content"]; ok {
		topic.Content = v.(string)
	}
	if v, ok := fields["type"]; ok {
		topic.Type = v.(entity.TopicType)
	}
	if v, ok := fields["quiz"]; ok {
		if v == nil {
			topic.Quiz = nil
		} else {
			topic.Quiz = v.(datatypes.JSONSlice[entity.QuizQuestion])
		}
	}
	if v, ok := fields["order"]; ok {
		order := v.(int)
		for otherID, other := range f.topics {
			if otherID != id && other.LessonID == topic.LessonID && other.Order == order {
				return nil, gorm.ErrDuplicatedKey
			}
		}
		topic.Order = order
	}
	return f.FindByID(ctx, id)
}

func (f *fakeTopicRepo) Find(_ context.Context, q store.Query) ([]entity.Topic, error) {
	var out []entity.Topic
	for _, topic := range f.topics {
		if v, ok := q.Filter["lesson_id"]; ok && topic.LessonID != v.(uuid.UUID) {
			continue
		}
		out = append(out, *topic)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	if q.Skip > 0 {
		if q.Skip >= len(out) {
			return nil, nil
		}
		out = out[q.Skip:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeTopicRepo) Count(ctx context.Context, q store.Query) (int64, error) {
	q.Skip, q.Limit = 0, 0
	items, err := f.Find(ctx, q)
	return int64(len(items)), err
}

func (f *fakeTopicRepo) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.topics[id]; !ok {
		return false, nil
	}
	delete(f.topics, id)
	return true, nil
}

func (f *fakeTopicRepo) MaxOrder(_ context.Context, lessonID uuid.UUID) (int, error) {
	max := 0
	for _, topic := range f.topics {
		if topic.LessonID == lessonID && topic.Order > max {
			max = topic.Order
		}
	}
	return max, nil
}

func (f *fakeTopicRepo) OrderExists(_ context.Context, lessonID uuid.UUID, order int, excludeID uuid.UUID) (bool, error) {
	for id, topic := range f.topics {
		if id != excludeID && topic.LessonID == lessonID && topic.Order == order {
			return true, nil
		}
	}
	return false, nil
}

type topicFixture struct {
	repo *fakeTopicRepo
	svc  TopicService

	teacherID  uuid.UUID
	intruderID uuid.UUID
	lessonID   uuid.UUID
}

func newTopicFixture(t *testing.T) *topicFixture {
	t.Helper()

	teacherID := uuid.New()
	courseID := uuid.New()
	lessonID := uuid.New()

	courses := &fakeCourses{courses: map[uuid.UUID]*entity.Course{
		courseID: {ID: courseID, TeacherID: teacherID},
	}}
	lessons := &fakeLessons{lessons: map[uuid.UUID]*entity.Lesson{
		lessonID: {ID: lessonID, CourseID: courseID, Order: 1},
	}}
	repo := &fakeTopicRepo{topics: map[uuid.UUID]*entity.Topic{}}
	resolver := ownership.NewResolver(courses, lessons, repo)

	return &topicFixture{
		repo:       repo,
		svc:        NewTopicService(repo, resolver),
		teacherID:  teacherID,
		intruderID: uuid.New(),
		lessonID:   lessonID,
	}
}

func validQuiz() []dto.QuizQuestionPayload {
	return []dto.QuizQuestionPayload{{
		Question: "What declares a variable?",
		Options: []dto.QuizOptionPayload{
			{Text: "var", IsCorrect: true},
			{Text: "def"},
		},
	}}
}

func TestCreateTopicAutoOrder(t *testing.T) {
	fx := newTopicFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		topic, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
			Title:   "Topic",
			Content: "body",
		})
		require.NoError(t, err)
		assert.Equal(t, i+1, topic.Order)
		assert.Equal(t, entity.TopicContent, topic.Type, "type defaults to content")
	}

	_, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
		Title: "Clash", Content: "body", Order: 2,
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateQuizTopicValidation(t *testing.T) {
	fx := newTopicFixture(t)
	ctx := context.Background()

	t.Run("quiz requires questions", func(t *testing.T) {
		_, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
			Title: "Quiz", Type: "quiz",
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("question needs at least two options", func(t *testing.T) {
		_, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
			Title: "Quiz", Type: "quiz",
			Quiz: []dto.QuizQuestionPayload{{
				Question: "Lonely?",
				Options:  []dto.QuizOptionPayload{{Text: "yes", IsCorrect: true}},
			}},
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("question text must be non-empty", func(t *testing.T) {
		_, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
			Title: "Quiz", Type: "quiz",
			Quiz: []dto.QuizQuestionPayload{{
				Question: "   ",
				Options:  []dto.QuizOptionPayload{{Text: "a"}, {Text: "b", IsCorrect: true}},
			}},
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("content topics cannot carry a quiz", func(t *testing.T) {
		_, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
			Title: "Reading", Quiz: validQuiz(),
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("valid quiz is stored", func(t *testing.T) {
		topic, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
			Title: "Quiz", Type: "quiz", Quiz: validQuiz(),
		})
		require.NoError(t, err)
		assert.Equal(t, entity.TopicQuiz, topic.Type)
		require.Len(t, topic.Quiz, 1)
		assert.Len(t, topic.Quiz[0].Options, 2)
	})
}

func TestCreateTopicOwnership(t *testing.T) {
	fx := newTopicFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, fx.lessonID, fx.intruderID, dto.CreateTopicRequest{
		Title: "Topic", Content: "body",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = fx.svc.Create(ctx, uuid.New(), fx.teacherID, dto.CreateTopicRequest{
		Title: "Topic", Content: "body",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateTopic(t *testing.T) {
	fx := newTopicFixture(t)
	ctx := context.Background()

	topic, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
		Title: "Reading", Content: "body",
	})
	require.NoError(t, err)

	t.Run("intruder forbidden", func(t *testing.T) {
		title := "Hijacked"
		_, err := fx.svc.Update(ctx, topic.ID, fx.intruderID, dto.UpdateTopicRequest{Title: &title})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("switch to quiz requires questions", func(t *testing.T) {
		quizType := "quiz"
		_, err := fx.svc.Update(ctx, topic.ID, fx.teacherID, dto.UpdateTopicRequest{Type: &quizType})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)

		quiz := validQuiz()
		updated, err := fx.svc.Update(ctx, topic.ID, fx.teacherID, dto.UpdateTopicRequest{Type: &quizType, Quiz: &quiz})
		require.NoError(t, err)
		assert.Equal(t, entity.TopicQuiz, updated.Type)
		assert.Len(t, updated.Quiz, 1)
	})

	t.Run("switch back to content clears quiz", func(t *testing.T) {
		contentType := "content"
		updated, err := fx.svc.Update(ctx, topic.ID, fx.teacherID, dto.UpdateTopicRequest{Type: &contentType})
		require.NoError(t, err)
		assert.Equal(t, entity.TopicContent, updated.Type)
		assert.Empty(t, updated.Quiz)
	})

	t.Run("order conflict and self-exemption", func(t *testing.T) {
		second, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
			Title: "Second", Content: "body",
		})
		require.NoError(t, err)

		taken := topic.Order
		_, err = fx.svc.Update(ctx, second.ID, fx.teacherID, dto.UpdateTopicRequest{Order: &taken})
		assert.ErrorIs(t, err, apperror.ErrConflict)

		same := second.Order
		updated, err := fx.svc.Update(ctx, second.ID, fx.teacherID, dto.UpdateTopicRequest{Order: &same})
		require.NoError(t, err)
		assert.Equal(t, same, updated.Order)
	})
}

func TestDeleteTopic(t *testing.T) {
	fx := newTopicFixture(t)
	ctx := context.Background()

	topic, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
		Title: "Reading", Content: "body",
	})
	require.NoError(t, err)

	err = fx.svc.Delete(ctx, topic.ID, fx.intruderID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, fx.svc.Delete(ctx, topic.ID, fx.teacherID))
	assert.Empty(t, fx.repo.topics)

	err = fx.svc.Delete(ctx, topic.ID, fx.teacherID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListTopicsOrdered(t *testing.T) {
	fx := newTopicFixture(t)
	ctx := context.Background()

	for _, ord := range []int{2, 3, 1} {
		_, err := fx.svc.Create(ctx, fx.lessonID, fx.teacherID, dto.CreateTopicRequest{
			Title: "Topic", Content: "body", Order: ord,
		})
		require.NoError(t, err)
	}

	page, err := fx.svc.List(ctx, fx.lessonID, fx.teacherID, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	for i, topic := range page.Data {
		assert.Equal(t, i+1, topic.Order)
	}
}

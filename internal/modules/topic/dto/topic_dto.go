package dto

import "arka.dev/learnhub/internal/entity"

type QuizOptionPayload struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuizQuestionPayload struct {
	Question string              `json:"question" binding:"required"`
	Options  []QuizOptionPayload `json:"options" binding:"omitempty,dive"`
}

// CreateTopicRequest adds a topic to a lesson. Order zero means append; Type
// defaults to content. The quiz payload's shape rules are enforced in the
// service, not by binding tags.
type CreateTopicRequest struct {
	Title   string                `json:"title" binding:"required,max=100"`
	Content string                `json:"content"`
	Type    string                `json:"type" binding:"omitempty,oneof=content quiz"`
	Order   int                   `json:"order" binding:"omitempty,min=1"`
	Quiz    []QuizQuestionPayload `json:"quiz" binding:"omitempty,dive"`
}

type UpdateTopicRequest struct {
	Title   *string                `json:"title" binding:"omitempty,max=100"`
	Content *string                `json:"content"`
	Type    *string                `json:"type" binding:"omitempty,oneof=content quiz"`
	Order   *int                   `json:"order" binding:"omitempty,min=1"`
	Quiz    *[]QuizQuestionPayload `json:"quiz" binding:"omitempty,dive"`
}

func (q QuizQuestionPayload) ToEntity() entity.QuizQuestion {
	question := entity.QuizQuestion{Question: q.Question, Options: make([]entity.QuizOption, 0, len(q.Options))}
	for _, opt := range q.Options {
		question.Options = append(question.Options, entity.QuizOption{Text: opt.Text, IsCorrect: opt.IsCorrect})
	}
	return question
}

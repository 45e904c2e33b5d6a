package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TopicType string

const (
	TopicContent TopicType = "content"
	TopicQuiz    TopicType = "quiz"
)

func (t TopicType) Valid() bool {
	return t == TopicContent || t == TopicQuiz
}

type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuizQuestion struct {
	Question string       `json:"question"`
	Options  []QuizOption `json:"options"`
}

// Topic is the leaf of the content hierarchy. Quiz topics carry their
// questions inline as a JSON column.
type Topic struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title   string    `gorm:"size:100;not null" json:"title"`
	Content string    `gorm:"type:text" json:"content,omitempty"`

	LessonID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_topics_lesson_order" json:"lessonId"`
	Order    int       `gorm:"column:order;not null;uniqueIndex:idx_topics_lesson_order" json:"order"`

	Type TopicType                         `gorm:"size:20;not null;default:content" json:"type"`
	Quiz datatypes.JSONSlice[QuizQuestion] `gorm:"type:jsonb" json:"quiz,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

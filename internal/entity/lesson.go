package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson belongs to exactly one course. Order is unique within that course;
// the composite index backs up the explicit pre-write validation.
type Lesson struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title   string    `gorm:"size:100;not null" json:"title"`
	Content string    `gorm:"type:text;not null" json:"content"`

	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lessons_course_order" json:"courseId"`
	Order    int       `gorm:"column:order;not null;uniqueIndex:idx_lessons_course_order" json:"order"`

	Topics []Topic `gorm:"foreignKey:LessonID" json:"topics,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

func (l CourseLevel) Valid() bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

// Course is the root of the content hierarchy. TeacherID never changes after
// creation; every mutation below course level is authorized against it.
type Course struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string      `gorm:"size:100;not null" json:"title"`
	Description string      `gorm:"size:1000;not null" json:"description"`
	Level       CourseLevel `gorm:"size:20;not null;default:beginner;index" json:"level"`

	TeacherID uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher"`
	Teacher   *User     `gorm:"foreignKey:TeacherID" json:"teacherInfo,omitempty"`

	Students []*User `gorm:"many2many:course_enrollments;joinForeignKey:CourseID;joinReferences:StudentID" json:"students,omitempty"`

	Likes     int `gorm:"not null;default:0" json:"likes"`
	ViewCount int `gorm:"not null;default:0" json:"viewCount"`

	Lessons []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User is a platform account. Role is fixed at registration. Follow and
// enrollment relations live in join tables so membership is a single row and
// both directions of the relation stay consistent by construction.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;default:student" json:"role"`

	FollowingTeachers []*User   `gorm:"many2many:teacher_follows;joinForeignKey:StudentID;joinReferences:TeacherID" json:"followingTeachers,omitempty"`
	EnrolledCourses   []*Course `gorm:"many2many:course_enrollments;joinForeignKey:StudentID;joinReferences:CourseID" json:"enrolledCourses,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

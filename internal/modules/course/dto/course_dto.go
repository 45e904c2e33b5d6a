package dto

import (
	"github.com/google/uuid"
)

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"required,max=1000"`
	Level       string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Level       *string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// ListCoursesRequest is the query surface for paginated course listings.
// Level is an exact filter, SearchTerm matches title/description/level.
type ListCoursesRequest struct {
	SearchTerm string `form:"searchTerm"`
	Level      string `form:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

type EnrolledStudent struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type AnalyticsResponse struct {
	CourseID     uuid.UUID         `json:"courseId"`
	Title        string            `json:"title"`
	StudentCount int               `json:"studentCount"`
	Likes        int               `json:"likes"`
	ViewCount    int               `json:"viewCount"`
	Students     []EnrolledStudent `json:"students"`
}

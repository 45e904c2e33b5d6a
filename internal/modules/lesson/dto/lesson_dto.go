package dto

// CreateLessonRequest adds a lesson to a course. Order zero (or absent) means
// append after the current highest order.
type CreateLessonRequest struct {
	Title   string `json:"title" binding:"required,max=100"`
	Content string `json:"content" binding:"required"`
	Order   int    `json:"order" binding:"omitempty,min=1"`
}

type UpdateLessonRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=100"`
	Content *string `json:"content" binding:"omitempty"`
	Order   *int    `json:"order" binding:"omitempty,min=1"`
}

type ListLessonsRequest struct {
	SearchTerm string `form:"searchTerm"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

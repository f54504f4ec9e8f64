package models

import "time"

// Category groups courses.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Courses   []Course  `json:"courses"`
}

// CourseCount is the number of courses currently assigned.
func (c Category) CourseCount() int {
	return len(c.Courses)
}

// CreateCategoryRequest creates a category by name.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CategoryView is the dashboard shape of a category.
type CategoryView struct {
	Category
	CourseCount int `json:"courseCount"`
}

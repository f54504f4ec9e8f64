package models

import "time"

// TestimonialStatus is the moderation state of a testimonial.
type TestimonialStatus string

const (
	TestimonialStatusPending  TestimonialStatus = "pending"
	TestimonialStatusApproved TestimonialStatus = "approved"
	TestimonialStatusRejected TestimonialStatus = "rejected"
)

// Valid reports whether s is a known moderation state.
func (s TestimonialStatus) Valid() bool {
	switch s {
	case TestimonialStatusPending, TestimonialStatusApproved, TestimonialStatusRejected:
		return true
	default:
		return false
	}
}

// Testimonial is a student review awaiting or past moderation.
type Testimonial struct {
	ID          string            `db:"id" json:"id"`
	StudentName string            `db:"student_name" json:"studentName"`
	CourseName  string            `db:"course_name" json:"courseName"`
	Rating      int               `db:"rating" json:"rating"`
	Comment     string            `db:"comment" json:"comment"`
	Status      TestimonialStatus `db:"status" json:"status"`
	IsFeatured  bool              `db:"is_featured" json:"isFeatured"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updatedAt"`
}

// TestimonialFilter captures the moderation screen filters.
type TestimonialFilter struct {
	Search string
	Status TestimonialStatus
	Course string
	Rating int
}

// CreateTestimonialRequest adds a testimonial in pending state.
type CreateTestimonialRequest struct {
	StudentName string `json:"studentName" validate:"required,min=2,max=100"`
	CourseName  string `json:"courseName" validate:"required,max=200"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comment     string `json:"comment" validate:"required,min=10,max=1000"`
}

// UpdateTestimonialRequest edits the content of a testimonial.
type UpdateTestimonialRequest struct {
	StudentName string `json:"studentName" validate:"required,min=2,max=100"`
	CourseName  string `json:"courseName" validate:"required,max=200"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comment     string `json:"comment" validate:"required,min=10,max=1000"`
}

// UpdateTestimonialStatusRequest moderates a testimonial.
type UpdateTestimonialStatusRequest struct {
	Status TestimonialStatus `json:"status" validate:"required,oneof=pending approved rejected"`
}

// FeatureTestimonialRequest toggles whether a testimonial is featured on the public site.
type FeatureTestimonialRequest struct {
	IsFeatured *bool `json:"isFeatured" validate:"required"`
}

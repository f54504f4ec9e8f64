package models

import "time"

// CourseStatus is the lifecycle flag stored by the platform. Availability does not read it.
type CourseStatus string

const (
	CourseStatusActive    CourseStatus = "active"
	CourseStatusInactive  CourseStatus = "inactive"
	CourseStatusCompleted CourseStatus = "completed"
)

// Availability is derived from the seat count.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityFull        Availability = "full"
	AvailabilityUnavailable Availability = "unavailable"
)

var availabilityLabels = map[Availability]string{
	AvailabilityAvailable:   "متاح",
	AvailabilityFull:        "مكتمل",
	AvailabilityUnavailable: "غير متاح",
}

// Label returns the Arabic display label.
func (a Availability) Label() string {
	return availabilityLabels[a]
}

// CategoryRef is the category embedded in a course payload.
type CategoryRef struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CourseFeature is a named selling point attached to a course.
type CourseFeature struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CourseID  string    `json:"courseId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Course is a sellable course.
type Course struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Summary        string          `json:"summary"`
	Status         CourseStatus    `json:"status,omitempty"`
	CategoryID     string          `json:"categoryId"`
	Category       *CategoryRef    `json:"category,omitempty"`
	Price          float64         `json:"price"`
	Duration       int             `json:"duration"`
	AvailableSeats int             `json:"availableSeats"`
	ImageURL       string          `json:"imageUrl"`
	Features       []CourseFeature `json:"features,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Availability derives the listing state from AvailableSeats only.
func (c Course) Availability() Availability {
	switch {
	case c.AvailableSeats > 0:
		return AvailabilityAvailable
	case c.AvailableSeats == 0:
		return AvailabilityFull
	default:
		return AvailabilityUnavailable
	}
}

// CategoryName returns the embedded category name, or "" when the payload has none.
func (c Course) CategoryName() string {
	if c.Category == nil {
		return ""
	}
	return c.Category.Name
}

// CreateCourseRequest creates a course together with its feature names.
type CreateCourseRequest struct {
	Title          string   `json:"title" validate:"required,min=2,max=200"`
	Summary        string   `json:"summary" validate:"required,max=500"`
	Duration       int      `json:"duration" validate:"gte=0"`
	AvailableSeats int      `json:"availableSeats" validate:"gte=0"`
	Description    string   `json:"description" validate:"required"`
	Price          float64  `json:"price" validate:"gte=0"`
	ImageURL       string   `json:"imageUrl" validate:"omitempty,url"`
	CategoryID     string   `json:"categoryId" validate:"required"`
	Features       []string `json:"features" validate:"dive,required"`
}

// UpdateCourseRequest carries the editable course fields. Features are managed on creation only.
type UpdateCourseRequest struct {
	Title          string  `json:"title" validate:"required,min=2,max=200"`
	Summary        string  `json:"summary" validate:"required,max=500"`
	Duration       int     `json:"duration" validate:"gte=0"`
	AvailableSeats int     `json:"availableSeats" validate:"gte=0"`
	Description    string  `json:"description" validate:"required"`
	Price          float64 `json:"price" validate:"gte=0"`
	ImageURL       string  `json:"imageUrl" validate:"omitempty,url"`
	CategoryID     string  `json:"categoryId" validate:"required"`
}

// CourseList is the payload of GET /api/v1/courses.
type CourseList struct {
	Total   int      `json:"total"`
	Courses []Course `json:"courses"`
}

// CourseFilter narrows a course listing on the dashboard.
type CourseFilter struct {
	Search   string
	Category string
}

// CourseView decorates a course with its derived availability for the dashboard.
type CourseView struct {
	Course
	Availability      Availability `json:"availability"`
	AvailabilityLabel string       `json:"availabilityLabel"`
}

// NewCourseView derives the display fields of c.
func NewCourseView(c Course) CourseView {
	a := c.Availability()
	return CourseView{Course: c, Availability: a, AvailabilityLabel: a.Label()}
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/pkg/apiclient"
)

// CourseService wraps the platform course endpoints.
type CourseService struct {
	client *apiclient.Client
	logger *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(client *apiclient.Client, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{client: client, logger: logger}
}

// GetAllCourses returns every course with its category and features.
func (s *CourseService) GetAllCourses(ctx context.Context) (*models.CourseList, error) {
	env, err := apiclient.Get[models.CourseList](ctx, s.client, endpointCourses, nil)
	list, err := unwrap(s.logger, "get courses", env, err, "Failed to fetch courses")
	if err != nil {
		return nil, err
	}
	if list.Courses == nil {
		list.Courses = []models.Course{}
	}
	return list, nil
}

// CreateCourse creates a course with its feature names.
func (s *CourseService) CreateCourse(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	if req.Features == nil {
		req.Features = []string{}
	}
	env, err := apiclient.Post[models.Course](ctx, s.client, endpointCourses, req)
	return unwrap(s.logger, "create course", env, err, "Failed to create course")
}

// UpdateCourse edits a course.
func (s *CourseService) UpdateCourse(ctx context.Context, id string, req models.UpdateCourseRequest) (*models.Course, error) {
	env, err := apiclient.Put[models.Course](ctx, s.client, resourcePath(endpointCourses, id), req)
	return unwrap(s.logger, "update course", env, err, "Failed to update course")
}

// DeleteCourse removes a course.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	env, err := apiclient.Delete[apiclient.Ack](ctx, s.client, resourcePath(endpointCourses, id))
	return confirm(s.logger, "delete course", env, err, "Failed to delete course")
}

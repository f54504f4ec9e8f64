package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/models"
	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
)

type testimonialRepository interface {
	List(ctx context.Context, status models.TestimonialStatus) ([]models.Testimonial, error)
	FindByID(ctx context.Context, id string) (*models.Testimonial, error)
	Create(ctx context.Context, item *models.Testimonial) error
	Update(ctx context.Context, item *models.Testimonial) error
	UpdateStatus(ctx context.Context, id string, status models.TestimonialStatus) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	Delete(ctx context.Context, id string) error
}

// TestimonialService implements testimonial moderation.
type TestimonialService struct {
	repo      testimonialRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewTestimonialService constructs a TestimonialService.
func NewTestimonialService(repo testimonialRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *TestimonialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestimonialService{repo: repo, validator: validate, metrics: metrics, logger: logger}
}

// List returns testimonials matching the moderation screen filters, newest first.
func (s *TestimonialService) List(ctx context.Context, filter models.TestimonialFilter) ([]models.Testimonial, error) {
	status := filter.Status
	if status == filterAll {
		status = ""
	}
	if status != "" && !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid testimonial status")
	}
	if filter.Rating < 0 || filter.Rating > 5 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rating must be between 1 and 5")
	}

	start := time.Now()
	items, err := s.repo.List(ctx, status)
	s.metrics.ObserveDBQuery("testimonials_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list testimonials")
	}
	return FilterTestimonials(items, filter), nil
}

// Get returns one testimonial.
func (s *TestimonialService) Get(ctx context.Context, id string) (*models.Testimonial, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to load testimonial")
	}
	return item, nil
}

// Create adds a testimonial awaiting moderation.
func (s *TestimonialService) Create(ctx context.Context, req models.CreateTestimonialRequest) (*models.Testimonial, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid testimonial payload")
	}
	item := &models.Testimonial{
		StudentName: strings.TrimSpace(req.StudentName),
		CourseName:  strings.TrimSpace(req.CourseName),
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
		Status:      models.TestimonialStatusPending,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create testimonial")
	}
	s.logger.Info("testimonial created", zap.String("testimonial_id", item.ID))
	return item, nil
}

// Update edits the content of a testimonial. Moderation state is untouched.
func (s *TestimonialService) Update(ctx context.Context, id string, req models.UpdateTestimonialRequest) (*models.Testimonial, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid testimonial payload")
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.StudentName = strings.TrimSpace(req.StudentName)
	item.CourseName = strings.TrimSpace(req.CourseName)
	item.Rating = req.Rating
	item.Comment = strings.TrimSpace(req.Comment)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, s.wrap(err, "failed to update testimonial")
	}
	return item, nil
}

// UpdateStatus moderates a testimonial. Leaving approved clears the featured flag.
func (s *TestimonialService) UpdateStatus(ctx context.Context, id string, status models.TestimonialStatus) (*models.Testimonial, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid testimonial status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, s.wrap(err, "failed to update testimonial status")
	}
	s.logger.Info("testimonial moderated", zap.String("testimonial_id", id), zap.String("status", string(status)))
	return s.Get(ctx, id)
}

// SetFeatured toggles the featured flag. Only approved testimonials can be featured; the
// repository enforces this in the same statement that sets the flag.
func (s *TestimonialService) SetFeatured(ctx context.Context, id string, featured bool) (*models.Testimonial, error) {
	if err := s.repo.SetFeatured(ctx, id, featured); err != nil {
		return nil, s.wrap(err, "failed to feature testimonial")
	}
	return s.Get(ctx, id)
}

// Delete removes a testimonial.
func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(err, "failed to delete testimonial")
	}
	return nil
}

func (s *TestimonialService) wrap(err error, message string) error {
	if appErr, ok := err.(*appErrors.Error); ok {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/pkg/apiclient"
)

// CategoryService wraps the platform category endpoints.
type CategoryService struct {
	client *apiclient.Client
	logger *zap.Logger
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(client *apiclient.Client, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{client: client, logger: logger}
}

// GetAllCategories lists categories. A successful response without data is an empty list.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	env, err := apiclient.Get[[]models.Category](ctx, s.client, endpointCategories, nil)
	if err := confirm(s.logger, "get categories", env, err, "Failed to fetch categories"); err != nil {
		return nil, err
	}
	if env.Data == nil || *env.Data == nil {
		return []models.Category{}, nil
	}
	return *env.Data, nil
}

// CreateCategory creates a category.
func (s *CategoryService) CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	env, err := apiclient.Post[models.Category](ctx, s.client, endpointCategories, req)
	return unwrap(s.logger, "create category", env, err, "Failed to create category")
}

// DeleteCategory removes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	env, err := apiclient.Delete[apiclient.Ack](ctx, s.client, resourcePath(endpointCategories, id))
	return confirm(s.logger, "delete category", env, err, "Failed to delete category")
}

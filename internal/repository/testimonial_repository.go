package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-admin/internal/models"
	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
)

const testimonialColumns = "id, student_name, course_name, rating, comment, status, is_featured, created_at, updated_at"

// TestimonialRepository manages persistence for testimonials.
type TestimonialRepository struct {
	db *sqlx.DB
}

// NewTestimonialRepository constructs a TestimonialRepository.
func NewTestimonialRepository(db *sqlx.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

// List returns testimonials newest first, optionally limited to one moderation status.
func (r *TestimonialRepository) List(ctx context.Context, status models.TestimonialStatus) ([]models.Testimonial, error) {
	query := "SELECT " + testimonialColumns + " FROM testimonials"
	var args []interface{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	var items []models.Testimonial
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return items, nil
}

// FindByID fetches a testimonial by ID, returning appErrors.ErrNotFound when absent.
func (r *TestimonialRepository) FindByID(ctx context.Context, id string) (*models.Testimonial, error) {
	query := "SELECT " + testimonialColumns + " FROM testimonials WHERE id = $1"
	var item models.Testimonial
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return &item, nil
}

// Create inserts a new testimonial.
func (r *TestimonialRepository) Create(ctx context.Context, item *models.Testimonial) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO testimonials (id, student_name, course_name, rating, comment, status, is_featured, created_at, updated_at)
		VALUES (:id, :student_name, :course_name, :rating, :comment, :status, :is_featured, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

// Update rewrites the content fields of a testimonial.
func (r *TestimonialRepository) Update(ctx context.Context, item *models.Testimonial) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE testimonials SET student_name = :student_name, course_name = :course_name, rating = :rating, comment = :comment, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	return requireAffected(res)
}

// UpdateStatus moderates a testimonial. Leaving the approved state also clears the featured flag.
func (r *TestimonialRepository) UpdateStatus(ctx context.Context, id string, status models.TestimonialStatus) error {
	const query = `UPDATE testimonials SET status = $2, is_featured = CASE WHEN $2::text = 'approved' THEN is_featured ELSE FALSE END, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update testimonial status: %w", err)
	}
	return requireAffected(res)
}

// ErrFeatureUnapproved is returned when featuring a testimonial that is not approved.
var ErrFeatureUnapproved = appErrors.Clone(appErrors.ErrConflict, "only approved testimonials can be featured")

// SetFeatured toggles the featured flag. Featuring only applies to a row that is approved
// at the time of the update.
func (r *TestimonialRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	const query = `UPDATE testimonials SET is_featured = $2, updated_at = $3 WHERE id = $1 AND (NOT $2::boolean OR status = 'approved')`
	res, err := r.db.ExecContext(ctx, query, id, featured, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("feature testimonial: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM testimonials WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("check testimonial: %w", err)
	}
	if exists {
		return ErrFeatureUnapproved
	}
	return appErrors.ErrNotFound
}

// Delete removes a testimonial.
func (r *TestimonialRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM testimonials WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

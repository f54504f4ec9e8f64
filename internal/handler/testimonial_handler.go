package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/academy-admin/internal/models"
	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
	"github.com/noah-isme/academy-admin/pkg/response"
)

type testimonialService interface {
	List(ctx context.Context, filter models.TestimonialFilter) ([]models.Testimonial, error)
	Create(ctx context.Context, req models.CreateTestimonialRequest) (*models.Testimonial, error)
	Update(ctx context.Context, id string, req models.UpdateTestimonialRequest) (*models.Testimonial, error)
	UpdateStatus(ctx context.Context, id string, status models.TestimonialStatus) (*models.Testimonial, error)
	SetFeatured(ctx context.Context, id string, featured bool) (*models.Testimonial, error)
	Delete(ctx context.Context, id string) error
}

// TestimonialHandler exposes testimonial moderation.
type TestimonialHandler struct {
	service  testimonialService
	validate *validator.Validate
}

// NewTestimonialHandler constructs a TestimonialHandler.
func NewTestimonialHandler(service testimonialService, validate *validator.Validate) *TestimonialHandler {
	return &TestimonialHandler{service: service, validate: validate}
}

// List godoc
// @Summary List testimonials
// @Tags Testimonials
// @Produce json
// @Param search query string false "Student, course or comment"
// @Param status query string false "pending, approved, rejected or all"
// @Param course query string false "Course name or all"
// @Param rating query int false "Exact rating 1-5"
// @Success 200 {object} response.Envelope
// @Router /dashboard/testimonials [get]
func (h *TestimonialHandler) List(c *gin.Context) {
	filter := models.TestimonialFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Status: models.TestimonialStatus(c.Query("status")),
		Course: c.Query("course"),
	}
	if raw := c.Query("rating"); raw != "" && raw != "all" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "rating must be a number"))
			return
		}
		filter.Rating = rating
	}
	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"total": len(items)})
}

// Create godoc
// @Summary Add a testimonial
// @Tags Testimonials
// @Accept json
// @Produce json
// @Param payload body models.CreateTestimonialRequest true "Testimonial"
// @Success 201 {object} response.Envelope
// @Router /dashboard/testimonials [post]
func (h *TestimonialHandler) Create(c *gin.Context) {
	var req models.CreateTestimonialRequest
	if !bindValid(c, h.validate, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Edit a testimonial
// @Tags Testimonials
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param payload body models.UpdateTestimonialRequest true "Testimonial"
// @Success 200 {object} response.Envelope
// @Router /dashboard/testimonials/{id} [put]
func (h *TestimonialHandler) Update(c *gin.Context) {
	var req models.UpdateTestimonialRequest
	if !bindValid(c, h.validate, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// UpdateStatus godoc
// @Summary Moderate a testimonial
// @Tags Testimonials
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param payload body models.UpdateTestimonialStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Router /dashboard/testimonials/{id}/status [patch]
func (h *TestimonialHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateTestimonialStatusRequest
	if !bindValid(c, h.validate, &req) {
		return
	}
	item, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// SetFeatured godoc
// @Summary Feature or unfeature an approved testimonial
// @Tags Testimonials
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param payload body models.FeatureTestimonialRequest true "Flag"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /dashboard/testimonials/{id}/featured [patch]
func (h *TestimonialHandler) SetFeatured(c *gin.Context) {
	var req models.FeatureTestimonialRequest
	if !bindValid(c, h.validate, &req) {
		return
	}
	item, err := h.service.SetFeatured(c.Request.Context(), c.Param("id"), *req.IsFeatured)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete a testimonial
// @Tags Testimonials
// @Param id path string true "Testimonial ID"
// @Success 204
// @Router /dashboard/testimonials/{id} [delete]
func (h *TestimonialHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/internal/service"
	"github.com/noah-isme/academy-admin/pkg/response"
)

// CourseHandler exposes the course and category screens.
type CourseHandler struct {
	validate  *validator.Validate
	analytics *service.AnalyticsService
}

// NewCourseHandler constructs a CourseHandler. analytics may be nil.
func NewCourseHandler(validate *validator.Validate, analytics *service.AnalyticsService) *CourseHandler {
	return &CourseHandler{validate: validate, analytics: analytics}
}

type courseListing struct {
	Total   int                 `json:"total"`
	Courses []models.CourseView `json:"courses"`
}

// List godoc
// @Summary List courses with derived availability
// @Tags Courses
// @Produce json
// @Param search query string false "Title search"
// @Param category query string false "Category name or all"
// @Success 200 {object} response.Envelope
// @Router /dashboard/courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	list, err := ws.Courses.GetAllCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	filtered := service.FilterCourses(list.Courses, models.CourseFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: c.Query("category"),
	})
	views := make([]models.CourseView, 0, len(filtered))
	for _, course := range filtered {
		views = append(views, models.NewCourseView(course))
	}
	response.JSON(c, http.StatusOK, courseListing{Total: list.Total, Courses: views}, map[string]interface{}{"filtered": len(views)})
}

// Create godoc
// @Summary Create a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.CreateCourseRequest true "Course"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req models.CreateCourseRequest
	if !bindValid(c, h.validate, &req) {
		return
	}
	course, err := ws.Courses.CreateCourse(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c)
	response.Created(c, models.NewCourseView(*course))
}

// Update godoc
// @Summary Update a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.UpdateCourseRequest true "Course"
// @Success 200 {object} response.Envelope
// @Router /dashboard/courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req models.UpdateCourseRequest
	if !bindValid(c, h.validate, &req) {
		return
	}
	course, err := ws.Courses.UpdateCourse(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c)
	response.JSON(c, http.StatusOK, models.NewCourseView(*course))
}

// Delete godoc
// @Summary Delete a course
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204
// @Router /dashboard/courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	if err := ws.Courses.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c)
	response.NoContent(c)
}

// ListCategories godoc
// @Summary List categories with course counts
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/categories [get]
func (h *CourseHandler) ListCategories(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	categories, err := ws.Categories.GetAllCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]models.CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, models.CategoryView{Category: category, CourseCount: category.CourseCount()})
	}
	response.JSON(c, http.StatusOK, views)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.CreateCategoryRequest true "Category"
// @Success 201 {object} response.Envelope
// @Router /dashboard/categories [post]
func (h *CourseHandler) CreateCategory(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req models.CreateCategoryRequest
	if !bindValid(c, h.validate, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	category, err := ws.Categories.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c)
	response.Created(c, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Tags Courses
// @Param id path string true "Category ID"
// @Success 204
// @Router /dashboard/categories/{id} [delete]
func (h *CourseHandler) DeleteCategory(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	if err := ws.Categories.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c)
	response.NoContent(c)
}

func (h *CourseHandler) invalidate(c *gin.Context) {
	if h.analytics != nil {
		h.analytics.Invalidate(c.Request.Context())
	}
}

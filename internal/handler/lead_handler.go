package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/internal/service"
	"github.com/noah-isme/academy-admin/internal/validation"
	"github.com/noah-isme/academy-admin/pkg/response"
)

// LeadHandler exposes the leads screen.
type LeadHandler struct {
	validate  *validator.Validate
	analytics *service.AnalyticsService
}

// NewLeadHandler constructs a LeadHandler. analytics may be nil.
func NewLeadHandler(validate *validator.Validate, analytics *service.AnalyticsService) *LeadHandler {
	return &LeadHandler{validate: validate, analytics: analytics}
}

// leadListing is the leads screen payload.
type leadListing struct {
	Total  int                       `json:"total"`
	Leads  []models.Lead             `json:"leads"`
	Counts map[models.LeadStatus]int `json:"counts"`
}

// List godoc
// @Summary List leads
// @Tags Leads
// @Produce json
// @Param search query string false "Name, phone or program"
// @Param status query string false "pending, contacted, converted, rejected or all"
// @Success 200 {object} response.Envelope
// @Router /dashboard/leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	list, err := ws.Leads.GetAllLeads(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	filter := models.LeadFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Status: models.LeadStatus(c.Query("status")),
	}
	filtered := service.FilterLeads(list.Leads, filter)
	response.JSON(c, http.StatusOK, leadListing{
		Total:  list.Total,
		Leads:  filtered,
		Counts: service.CountLeadsByStatus(list.Leads),
	}, map[string]interface{}{"filtered": len(filtered)})
}

// Create godoc
// @Summary Register a lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param payload body models.CreateLeadRequest true "Lead"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req models.CreateLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	if res := validation.ValidateCreateLead(req); !res.IsValid {
		respondInvalid(c, res.Errors)
		return
	}
	lead, err := ws.Leads.CreateLead(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c)
	response.Created(c, lead)
}

// Update godoc
// @Summary Update a lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param payload body models.UpdateLeadRequest true "Lead"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/leads/{id} [put]
func (h *LeadHandler) Update(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req models.UpdateLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	res := validation.ValidateUpdateLead(req)
	if req.Status != "" && !req.Status.Valid() {
		res.IsValid = false
		res.Errors = append(res.Errors, validation.FieldError{Field: "status", Message: "الحالة غير صحيحة"})
	}
	if !res.IsValid {
		respondInvalid(c, res.Errors)
		return
	}
	lead, err := ws.Leads.UpdateLead(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c)
	response.JSON(c, http.StatusOK, lead)
}

// UpdateStatus godoc
// @Summary Change the status of a lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param payload body models.UpdateLeadStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Router /dashboard/leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req models.UpdateLeadStatusRequest
	if !bindValid(c, h.validate, &req) {
		return
	}
	lead, err := ws.Leads.UpdateLeadStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c)
	response.JSON(c, http.StatusOK, lead)
}

// Delete godoc
// @Summary Delete a lead
// @Tags Leads
// @Param id path string true "Lead ID"
// @Success 204
// @Router /dashboard/leads/{id} [delete]
func (h *LeadHandler) Delete(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	if err := ws.Leads.DeleteLead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c)
	response.NoContent(c)
}

func (h *LeadHandler) invalidate(c *gin.Context) {
	if h.analytics != nil {
		h.analytics.Invalidate(c.Request.Context())
	}
}

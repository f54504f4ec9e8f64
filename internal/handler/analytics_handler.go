package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/internal/service"
	"github.com/noah-isme/academy-admin/pkg/response"
)

// AnalyticsHandler exposes the dashboard home and analytics screens.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	metrics   *service.MetricsService
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, metrics *service.MetricsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, metrics: metrics}
}

type dashboardHome struct {
	User     *models.AdminUser         `json:"user"`
	Overview *models.AnalyticsOverview `json:"overview"`
}

// Dashboard godoc
// @Summary Dashboard home
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	overview, cached, err := h.analytics.Overview(c.Request.Context(), ws.Sources())
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboardHome{User: ws.Session.Snapshot().User, Overview: overview}, map[string]interface{}{"cached": cached})
}

// Overview godoc
// @Summary Analytics overview built from live platform data
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/analytics [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	overview, cached, err := h.analytics.Overview(c.Request.Context(), ws.Sources())
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, map[string]interface{}{"cached": cached})
}

// System godoc
// @Summary In-process request, upstream and cache counters
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot())
}

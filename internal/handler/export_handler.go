package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/internal/service"
	"github.com/noah-isme/academy-admin/pkg/response"
)

type exportJobs interface {
	CreateJob(ctx context.Context, req models.CreateExportRequest, visitorID string) (*models.ExportJob, error)
	GetStatus(ctx context.Context, id, visitorID string) (*models.ExportJob, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportHandler exposes lead export jobs.
type ExportHandler struct {
	jobs     exportJobs
	validate *validator.Validate
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(jobs exportJobs, validate *validator.Validate) *ExportHandler {
	return &ExportHandler{jobs: jobs, validate: validate}
}

// Create godoc
// @Summary Queue a lead export
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body models.CreateExportRequest true "Export parameters"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/leads/exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req models.CreateExportRequest
	if !bindValid(c, h.validate, &req) {
		return
	}
	job, err := h.jobs.CreateJob(c.Request.Context(), req, ws.VisitorID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job)
}

// Status godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	job, err := h.jobs.GetStatus(c.Request.Context(), c.Param("id"), ws.VisitorID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job)
}

// Download godoc
// @Summary Download a finished export
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200
// @Failure 403 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.jobs.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		respondError(c, err)
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType(download.Format), download.File, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, download.Filename),
		"Cache-Control":       "no-store",
	})
}

func contentType(format models.ExportFormat) string {
	switch format {
	case models.ExportFormatPDF:
		return "application/pdf"
	case models.ExportFormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/internal/service"
	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
)

type fakeExportJobs struct {
	created   []models.CreateExportRequest
	visitor   string
	createErr error
	job       *models.ExportJob
	statusErr error
	file      string
}

func (f *fakeExportJobs) CreateJob(_ context.Context, req models.CreateExportRequest, visitorID string) (*models.ExportJob, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	f.visitor = visitorID
	return &models.ExportJob{ID: "job-1", Params: models.ExportParams{Format: req.Format}, Status: models.ExportStatusQueued, VisitorID: visitorID}, nil
}

func (f *fakeExportJobs) GetStatus(_ context.Context, id, visitorID string) (*models.ExportJob, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.job == nil || f.job.ID != id {
		return nil, appErrors.ErrNotFound
	}
	return f.job, nil
}

func (f *fakeExportJobs) ResolveDownload(_ context.Context, token string) (*service.ExportDownload, error) {
	if token != "good-token" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	file, err := os.Open(f.file)
	if err != nil {
		return nil, err
	}
	return &service.ExportDownload{File: file, Filename: filepath.Base(f.file), Format: models.ExportFormatCSV, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func TestExportHandlerQueuesJobForVisitor(t *testing.T) {
	jobs := &fakeExportJobs{}
	c := newClient(t, newPlatform(t), harnessOptions{exports: jobs})
	c.login()

	rec := c.do(http.MethodPost, "/dashboard/leads/exports", map[string]string{"format": "xlsx"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, jobs.created)

	rec = c.do(http.MethodPost, "/dashboard/leads/exports", map[string]string{"format": "csv", "status": "pending"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var job models.ExportJob
	decodeData(t, rec, &job)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	require.Len(t, jobs.created, 1)
	assert.Equal(t, models.LeadStatusPending, jobs.created[0].Status)
	assert.NotEmpty(t, jobs.visitor)
}

func TestExportHandlerStatus(t *testing.T) {
	jobs := &fakeExportJobs{job: &models.ExportJob{ID: "job-7", Status: models.ExportStatusProcessing, Progress: 50}}
	c := newClient(t, newPlatform(t), harnessOptions{exports: jobs})
	c.login()

	rec := c.do(http.MethodGet, "/dashboard/exports/job-7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var job models.ExportJob
	decodeData(t, rec, &job)
	assert.Equal(t, 50, job.Progress)

	rec = c.do(http.MethodGet, "/dashboard/exports/other", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Error.Code)

	jobs.statusErr = appErrors.ErrForbidden
	rec = c.do(http.MethodGet, "/dashboard/exports/job-7", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExportHandlerDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads_all_20240305_093000_job1.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\nSara\n"), 0o600))
	jobs := &fakeExportJobs{file: path}
	c := newClient(t, newPlatform(t), harnessOptions{exports: jobs})

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports/good-token", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="leads_all_20240305_093000_job1.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "name\nSara\n", rec.Body.String())

	rec = httptest.NewRecorder()
	c.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports/forged", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", contentType(models.ExportFormatPDF))
	assert.Equal(t, "text/csv; charset=utf-8", contentType(models.ExportFormatCSV))
	assert.Equal(t, "application/octet-stream", contentType("xlsx"))
}

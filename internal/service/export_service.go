package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/pkg/export"
	"github.com/noah-isme/academy-admin/pkg/storage"
)

// Lead export column headers.
const (
	colName       = "الاسم"
	colPhone      = "رقم الهاتف"
	colProgram    = "البرنامج"
	colPreference = "تفضيل التعلم"
	colMessage    = "الرسالة"
	colStatus     = "الحالة"
	colRegistered = "تاريخ التسجيل"
)

var leadExportHeaders = []string{colName, colPhone, colProgram, colPreference, colMessage, colStatus, colRegistered}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	DownloadPrefix string
	ResultTTL      time.Duration
	PDFFontPath    string
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	Rows         int
	ExpiresAt    time.Time
}

// ExportService renders lead lists and persists the resulting files.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.DownloadPrefix == "" {
		cfg.DownloadPrefix = "/exports"
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(cfg.PDFFontPath)
	}
	return &ExportService{
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Generate filters leads by the job parameters, renders them and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob, leads []models.Lead) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	selected := FilterLeads(leads, models.LeadFilter{Search: job.Params.Search, Status: job.Params.Status})
	dataset := buildLeadDataset(selected)

	var (
		payload []byte
		err     error
	)
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("Leads Export %s", s.now().UTC().Format("2006-01-02")))
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("export rendered", zap.String("job_id", job.ID), zap.Int("rows", len(selected)))

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.DownloadPrefix, "/"), token),
		Format:       job.Params.Format,
		Rows:         len(selected),
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	filter := "all"
	if job.Params.Status != "" {
		filter = string(job.Params.Status)
	}
	return fmt.Sprintf("leads_%s_%s_%s.%s", sanitizeFilename(filter), timestamp, shortID(job.ID), job.Params.Format)
}

func buildLeadDataset(leads []models.Lead) export.Dataset {
	rows := make([]map[string]string, 0, len(leads))
	for _, lead := range leads {
		rows = append(rows, map[string]string{
			colName:       lead.Name,
			colPhone:      lead.Phone,
			colProgram:    lead.SelectedProgram,
			colPreference: lead.LearningPreference,
			colMessage:    lead.Message,
			colStatus:     lead.Status.Label(),
			colRegistered: formatExportDate(lead.CreatedAt),
		})
	}
	return export.Dataset{Headers: leadExportHeaders, Rows: rows}
}

func formatExportDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "job"
	}
	return id
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

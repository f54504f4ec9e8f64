package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/models"
)

const (
	analyticsOverviewKey = "analytics:overview"
	analyticsPattern     = "analytics:*"
	recentLeadsLimit     = 5
	monthlyWindow        = 6
)

type leadLister interface {
	GetAllLeads(ctx context.Context) (*models.LeadList, error)
}

type courseLister interface {
	GetAllCourses(ctx context.Context) (*models.CourseList, error)
}

type categoryLister interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
}

// AnalyticsSources are the live data readers of one visitor workspace.
type AnalyticsSources struct {
	Leads      leadLister
	Courses    courseLister
	Categories categoryLister
}

// AnalyticsService builds the dashboard overview from live platform data and caches it.
type AnalyticsService struct {
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(cache *CacheService, ttl time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{cache: cache, ttl: ttl, logger: logger, now: time.Now}
}

// Overview returns the dashboard summary. The boolean indicates whether data originated from cache.
func (s *AnalyticsService) Overview(ctx context.Context, src AnalyticsSources) (*models.AnalyticsOverview, bool, error) {
	return Remember(ctx, s.cache, analyticsOverviewKey, s.ttl, func(ctx context.Context) (*models.AnalyticsOverview, error) {
		leads, err := src.Leads.GetAllLeads(ctx)
		if err != nil {
			return nil, err
		}
		courses, err := src.Courses.GetAllCourses(ctx)
		if err != nil {
			return nil, err
		}
		categories, err := src.Categories.GetAllCategories(ctx)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("analytics overview rebuilt", zap.Int("leads", len(leads.Leads)), zap.Int("courses", len(courses.Courses)))
		return s.build(leads.Leads, courses.Courses, categories), nil
	})
}

// Invalidate drops cached analytics after a mutation.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, analyticsPattern)
}

func (s *AnalyticsService) build(leads []models.Lead, courses []models.Course, categories []models.Category) *models.AnalyticsOverview {
	now := s.now().UTC()
	overview := &models.AnalyticsOverview{
		TotalLeads:      len(leads),
		TotalCourses:    len(courses),
		TotalCategories: len(categories),
		GeneratedAt:     now,
	}

	counts := CountLeadsByStatus(leads)
	overview.LeadsByStatus = make([]models.StatusCount, 0, len(models.LeadStatuses))
	for _, status := range models.LeadStatuses {
		overview.LeadsByStatus = append(overview.LeadsByStatus, models.StatusCount{Status: status, Count: counts[status]})
	}
	if len(leads) > 0 {
		rate := float64(counts[models.LeadStatusConverted]) / float64(len(leads)) * 100
		overview.ConversionRate = math.Round(rate*10) / 10
	}

	overview.MonthlyLeads = monthlyCounts(leads, now)
	overview.CategoryPopularity = categoryPopularity(categories)
	overview.Seats = seatAvailability(courses)
	overview.RecentLeads = recentLeads(leads, recentLeadsLimit)
	return overview
}

func monthlyCounts(leads []models.Lead, now time.Time) []models.MonthlyCount {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthlyWindow - 1), 0)
	buckets := make([]models.MonthlyCount, monthlyWindow)
	index := make(map[string]int, monthlyWindow)
	for i := range buckets {
		month := start.AddDate(0, i, 0).Format("2006-01")
		buckets[i] = models.MonthlyCount{Month: month}
		index[month] = i
	}
	for _, lead := range leads {
		if i, ok := index[lead.CreatedAt.UTC().Format("2006-01")]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

func categoryPopularity(categories []models.Category) []models.CategoryPopularity {
	out := make([]models.CategoryPopularity, 0, len(categories))
	for _, category := range categories {
		out = append(out, models.CategoryPopularity{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			CourseCount:  category.CourseCount(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CourseCount != out[j].CourseCount {
			return out[i].CourseCount > out[j].CourseCount
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out
}

func seatAvailability(courses []models.Course) models.SeatAvailability {
	var seats models.SeatAvailability
	for _, course := range courses {
		switch course.Availability() {
		case models.AvailabilityAvailable:
			seats.Available++
			seats.TotalSeatsOpen += course.AvailableSeats
		case models.AvailabilityFull:
			seats.Full++
		default:
			seats.Unavailable++
		}
	}
	return seats
}

func recentLeads(leads []models.Lead, limit int) []models.Lead {
	sorted := make([]models.Lead, len(leads))
	copy(sorted, leads)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

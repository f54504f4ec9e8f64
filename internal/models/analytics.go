package models

import "time"

// StatusCount is one bucket of the lead funnel.
type StatusCount struct {
	Status LeadStatus `json:"status"`
	Count  int        `json:"count"`
}

// MonthlyCount counts leads registered in a calendar month (YYYY-MM).
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// CategoryPopularity counts courses per category.
type CategoryPopularity struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	CourseCount  int    `json:"courseCount"`
}

// SeatAvailability aggregates courses by derived availability.
type SeatAvailability struct {
	Available      int `json:"available"`
	Full           int `json:"full"`
	Unavailable    int `json:"unavailable"`
	TotalSeatsOpen int `json:"totalSeatsOpen"`
}

// AnalyticsOverview is the dashboard home summary built from live platform data.
type AnalyticsOverview struct {
	TotalLeads         int                  `json:"totalLeads"`
	TotalCourses       int                  `json:"totalCourses"`
	TotalCategories    int                  `json:"totalCategories"`
	LeadsByStatus      []StatusCount        `json:"leadsByStatus"`
	ConversionRate     float64              `json:"conversionRate"`
	MonthlyLeads       []MonthlyCount       `json:"monthlyLeads"`
	CategoryPopularity []CategoryPopularity `json:"categoryPopularity"`
	Seats              SeatAvailability     `json:"seats"`
	RecentLeads        []Lead               `json:"recentLeads"`
	GeneratedAt        time.Time            `json:"generatedAt"`
}

// SystemMetrics is a lightweight snapshot of the in-process counters.
type SystemMetrics struct {
	RequestsTotal             uint64    `json:"requestsTotal"`
	AverageRequestDurationMs  float64   `json:"averageRequestDurationMs"`
	UpstreamRequestsTotal     uint64    `json:"upstreamRequestsTotal"`
	UpstreamFailuresTotal     uint64    `json:"upstreamFailuresTotal"`
	AverageUpstreamDurationMs float64   `json:"averageUpstreamDurationMs"`
	CacheHits                 uint64    `json:"cacheHits"`
	CacheMisses               uint64    `json:"cacheMisses"`
	CacheHitRatio             float64   `json:"cacheHitRatio"`
	ActiveWorkspaces          int64     `json:"activeWorkspaces"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generatedAt"`
}

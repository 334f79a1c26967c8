package models

import "time"

// SystemMetrics is a lightweight snapshot of process counters for the health
// endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ScheduleBuilds           uint64    `json:"schedule_builds"`
	AverageBuildDurationMs   float64   `json:"average_build_duration_ms"`
	StoreQueries             uint64    `json:"store_queries"`
	RemindersSent            uint64    `json:"reminders_sent"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

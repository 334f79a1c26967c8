package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sternfield-timetable/internal/dto"
	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/timetable"
)

type metricsSource interface {
	Handler() http.Handler
	Snapshot() models.SystemMetrics
}

type timetableStatus interface {
	Report() timetable.LoadReport
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics   metricsSource
	timetable timetableStatus
	deps      map[string]Pinger
}

// NewMetricsHandler constructs a metrics handler. deps are pinged by Ready.
func NewMetricsHandler(metrics metricsSource, timetable timetableStatus, deps map[string]Pinger) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, timetable: timetable, deps: deps}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports timetable size, skipped records and dependency health. An
// empty timetable is reported but does not fail readiness; every query
// answers it with a typed error.
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := dto.ReadinessResponse{Status: "ready", Dependencies: make(map[string]string, len(h.deps))}
	if h.timetable != nil {
		report := h.timetable.Report()
		body.Entries = report.Loaded
		body.Skipped = report.Skipped
	}
	status := http.StatusOK
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			body.Dependencies[name] = err.Error()
			body.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		body.Dependencies[name] = "ok"
	}
	c.JSON(status, body)
}

// Snapshot godoc
// @Summary Aggregated request, cache and reminder counters
// @Tags System
// @Produce json
// @Success 200 {object} models.SystemMetrics
// @Router /system/metrics [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kolehiyo/admissions-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the engine.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	runsTotal             *prometheus.CounterVec
	runDuration           prometheus.Histogram
	coursesAssigned       prometheus.Counter
	studentsUnresolved    prometheus.Counter
	curriculaMaterialized prometheus.Counter
	requestDuration       *prometheus.HistogramVec
}

// NewMetricsService registers the engine's Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_runs_total",
		Help: "Total number of assignment runs by final status",
	}, []string{"status"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assignment_run_duration_seconds",
		Help:    "Duration of assignment runs in seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
	})

	coursesAssigned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_courses_assigned_total",
		Help: "Total number of course assignments inserted",
	})

	studentsUnresolved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_students_unresolved_total",
		Help: "Total number of enrollments skipped as unresolved",
	})

	curriculaMaterialized := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_curricula_materialized_total",
		Help: "Total number of default curricula materialized on demand",
	})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	registry.MustRegister(runsTotal, runDuration, coursesAssigned, studentsUnresolved, curriculaMaterialized, requestDuration)

	return &MetricsService{
		registry:              registry,
		handler:               promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		runsTotal:             runsTotal,
		runDuration:           runDuration,
		coursesAssigned:       coursesAssigned,
		studentsUnresolved:    studentsUnresolved,
		curriculaMaterialized: curriculaMaterialized,
		requestDuration:       requestDuration,
	}
}

// Handler returns the Prometheus scrape handler.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// RecordRun updates run counters from a finished report.
func (s *MetricsService) RecordRun(report *models.RunReport) {
	if s == nil || report == nil {
		return
	}
	s.runsTotal.WithLabelValues(string(report.Status)).Inc()
	s.runDuration.Observe(float64(report.DurationMS) / 1000)
	s.coursesAssigned.Add(float64(report.CoursesAssigned))
	s.studentsUnresolved.Add(float64(report.StudentsUnresolved))
	s.curriculaMaterialized.Add(float64(report.CurriculaMaterialized))
}

// GinMiddleware instruments HTTP requests.
func (s *MetricsService) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		s.requestDuration.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

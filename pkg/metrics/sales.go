package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SalesMetrics records checkout outcomes per sale channel.
type SalesMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	units    *prometheus.CounterVec
	points   *prometheus.CounterVec
}

// NewSalesMetrics registers the sale metrics on the provided registerer.
func NewSalesMetrics(reg prometheus.Registerer) *SalesMetrics {
	if reg == nil {
		return &SalesMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sale_duration_seconds",
		Help:    "Duration of completed checkouts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_success",
		Help: "Completed sales.",
	}, []string{"channel"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_failure",
		Help: "Failed sale attempts.",
	}, []string{"channel"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_units_total",
		Help: "Units of product sold.",
	}, []string{"channel"})
	points := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_points_awarded_total",
		Help: "Loyalty points credited by completed sales.",
	}, []string{"channel"})
	reg.MustRegister(duration, success, failure, units, points)
	return &SalesMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		units:    units,
		points:   points,
	}
}

// ObserveDuration records the duration for a checkout on the named channel.
func (s *SalesMetrics) ObserveDuration(channel string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(channel)).Observe(duration.Seconds())
}

// IncSuccess increments the completed-sale counter for the named channel.
func (s *SalesMetrics) IncSuccess(channel string) {
	if s == nil || s.success == nil {
		return
	}
	s.success.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncFailure increments the failed-sale counter for the named channel.
func (s *SalesMetrics) IncFailure(channel string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(channel)).Inc()
}

// AddUnits adds the number of units moved by a completed sale.
func (s *SalesMetrics) AddUnits(channel string, units int) {
	if s == nil || s.units == nil || units <= 0 {
		return
	}
	s.units.WithLabelValues(normalizeLabel(channel)).Add(float64(units))
}

// AddPoints adds the loyalty points credited by a completed sale.
func (s *SalesMetrics) AddPoints(channel string, points int64) {
	if s == nil || s.points == nil || points <= 0 {
		return
	}
	s.points.WithLabelValues(normalizeLabel(channel)).Add(float64(points))
}

func normalizeLabel(channel string) string {
	if channel == "" {
		return "unknown"
	}
	return channel
}

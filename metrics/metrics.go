// ABOUTME: Prometheus collectors for pipeline moves, conversions, and dashboards
// ABOUTME: Registered on a private registry and served at /metrics
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every CRM metric. A nil *Collector records nothing.
type Collector struct {
	registry *prometheus.Registry

	stageMoves       *prometheus.CounterVec
	leadConversions  prometheus.Counter
	dashboards       *prometheus.CounterVec
	dashboardLatency prometheus.Histogram
	refreshDropped   prometheus.Counter
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		stageMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_stage_moves_total",
			Help: "Deals moved between pipeline stages",
		}, []string{"from", "to"}),
		leadConversions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crm_lead_conversions_total",
			Help: "Leads converted into contacts",
		}),
		dashboards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_dashboard_computations_total",
			Help: "Dashboard computations by date window",
		}, []string{"window"}),
		dashboardLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crm_dashboard_compute_seconds",
			Help:    "Time to load a snapshot and compute the dashboard",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		refreshDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crm_refresh_dropped_total",
			Help: "Dashboard refresh results discarded as stale",
		}),
	}

	c.registry.MustRegister(
		c.stageMoves,
		c.leadConversions,
		c.dashboards,
		c.dashboardLatency,
		c.refreshDropped,
	)
	return c
}

func (c *Collector) RecordStageMove(from, to string) {
	if c == nil {
		return
	}
	c.stageMoves.WithLabelValues(from, to).Inc()
}

func (c *Collector) RecordLeadConversion() {
	if c == nil {
		return
	}
	c.leadConversions.Inc()
}

func (c *Collector) RecordDashboard(window string, took time.Duration) {
	if c == nil {
		return
	}
	c.dashboards.WithLabelValues(window).Inc()
	c.dashboardLatency.Observe(took.Seconds())
}

func (c *Collector) RecordRefreshDropped() {
	if c == nil {
		return
	}
	c.refreshDropped.Inc()
}

// Registry exposes the private registry for scraping and tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Package metrics exports snapshot health figures in the Prometheus text
// format so a node_exporter textfile collector can pick them up after a build.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/query"
)

const namespace = "observatory"

// SnapshotCollector holds gauges set from one snapshot in a private registry.
type SnapshotCollector struct {
	registry *prometheus.Registry

	Datasets             *prometheus.GaugeVec
	ResourcesTotal       prometheus.Gauge
	ResourcesBroken      prometheus.Gauge
	ResourcesParseFailed prometheus.Gauge
	ErrorsTotal          prometheus.Gauge
	GeneratedTimestamp   prometheus.Gauge
	OrganizationBroken   *prometheus.GaugeVec
}

func NewSnapshotCollector(root *models.Root) *SnapshotCollector {
	c := &SnapshotCollector{
		registry: prometheus.NewRegistry(),
		Datasets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "datasets",
			Help:      "Datasets in the snapshot by freshness bucket.",
		}, []string{"bucket"}),
		ResourcesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resources_total",
			Help:      "Resources checked in the snapshot.",
		}),
		ResourcesBroken: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resources_broken",
			Help:      "Resources whose check failed.",
		}),
		ResourcesParseFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resources_parse_failed",
			Help:      "Resources that downloaded but did not parse.",
		}),
		ErrorsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Datasets the collection job could not process.",
		}),
		GeneratedTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_generated_timestamp_seconds",
			Help:      "Unix time the snapshot was generated.",
		}),
		OrganizationBroken: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "organization_resources_broken",
			Help:      "Broken resources per publishing organization.",
		}, []string{"organization"}),
	}

	c.registry.MustRegister(
		c.Datasets,
		c.ResourcesTotal,
		c.ResourcesBroken,
		c.ResourcesParseFailed,
		c.ErrorsTotal,
		c.GeneratedTimestamp,
		c.OrganizationBroken,
	)

	c.set(root)
	return c
}

func (c *SnapshotCollector) set(root *models.Root) {
	counts := query.FreshnessCounts(root)
	for _, b := range models.Buckets {
		c.Datasets.WithLabelValues(string(b)).Set(float64(counts.Get(b)))
	}

	if root == nil {
		return
	}

	c.ResourcesTotal.Set(float64(root.Summary.ResourcesTotal))
	c.ResourcesBroken.Set(float64(root.Summary.ResourcesBroken))
	c.ResourcesParseFailed.Set(float64(root.Summary.ResourcesParseFailed))
	c.ErrorsTotal.Set(float64(root.Summary.ErrorsTotal))
	if !root.Meta.GeneratedAt.IsZero() {
		c.GeneratedTimestamp.Set(float64(root.Meta.GeneratedAt.Unix()))
	}

	for _, org := range query.Organizations(root) {
		c.OrganizationBroken.WithLabelValues(org.Name).Set(float64(org.ResourcesBroken))
	}
}

func (c *SnapshotCollector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes all gauges to path in the Prometheus text format.
func (c *SnapshotCollector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

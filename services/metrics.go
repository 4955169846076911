package services

import "github.com/prometheus/client_golang/prometheus"

var (
	sourcesAcquiredCounter *prometheus.CounterVec
	reportsRenderedCounter *prometheus.CounterVec
	snapshotsStoredCounter prometheus.Counter
	reportAssemblySeconds  prometheus.Histogram
)

func init() {
	sourcesAcquiredCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paper_trail_sources_acquired_total",
			Help: "Total number of source acquisitions by outcome (created, reused).",
		},
		[]string{"outcome"},
	)
	reportsRenderedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paper_trail_reports_rendered_total",
			Help: "Total number of rendered dossier reports by style.",
		},
		[]string{"style"},
	)
	snapshotsStoredCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paper_trail_snapshots_stored_total",
			Help: "Total number of dossier snapshots written to object storage.",
		},
	)
	reportAssemblySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "paper_trail_report_assembly_seconds",
			Help:    "Time spent assembling report documents.",
			Buckets: prometheus.DefBuckets,
		},
	)
	prometheus.MustRegister(sourcesAcquiredCounter, reportsRenderedCounter, snapshotsStoredCounter, reportAssemblySeconds)
}

package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRunsTotal counts SyncTrackIDs calls by outcome: noop, changed or failed.
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Total number of album track list reconciliations",
		},
		[]string{"outcome"},
	)

	// TrackWritesTotal counts persisted tracks by reason: attach, detach or renumber.
	TrackWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_track_writes_total",
			Help: "Total number of track rows written by the reconciler",
		},
		[]string{"reason"},
	)

	// RetagFailuresTotal counts metadata rewrites that returned an error.
	RetagFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_retag_failures_total",
			Help: "Total number of failed track metadata rewrites",
		},
	)

	// AggregateCacheTotal counts aggregate lookups by result: hit or miss.
	AggregateCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_aggregate_cache_total",
			Help: "Aggregate cache lookups",
		},
		[]string{"aggregate", "result"},
	)
)

/*
Package monitoring provides Prometheus metrics for the cache manager.

# Overview

Metrics implements webcache.Reporter: every allocation revision updates the
process counts, the per-group byte totals and a counter keyed by the chosen
tactic tier. Capacity commands sent and skipped are counted separately.
The package also carries a Gin middleware recording admin API requests.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// Feed it revisions
	mgr := webcache.NewManager(webcache.Options{Reporter: metrics})

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring

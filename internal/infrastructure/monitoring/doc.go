/*
Package monitoring provides Prometheus metrics for the chatform server.

# Overview

Metrics cover HTTP traffic, catalog listings per entity kind, message and
conversation creation, and websocket subscribers. Each Metrics value owns its
own registry.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", monitoring.Handler(metrics))

	timer := monitoring.NewTimer(metrics, "item")
	// ... run the query ...
	timer.Stop("success")
*/
package monitoring

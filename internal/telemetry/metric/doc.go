// Package metric exposes FileCabinet metrics in Prometheus format.
//
//   - prometheus.go: the Registry, its service.MetricsRecorder methods and
//     the /metrics handler
//   - collector.go: a collector that reports the active validation profile
//     at scrape time
package metric

// Package metrics registers prometheus metrics for the resolution engine.
//
// Metrics:
//   - <ns>_<sub>_resolutions_total: resolutions by terminal state
//   - <ns>_<sub>_resolution_duration_seconds: resolution wall-clock time
//   - <ns>_<sub>_conflicts_total: conflict records by strategy and reason
package metrics

// Package metrics defines how pipeline runs are reported for observability.
// Sinks such as the Prometheus and InfluxDB implementations in infra/metrics
// register themselves by name and are built from configuration with
// NewMetricsSink, which fans out to several sinks when more than one is
// configured.
package metrics

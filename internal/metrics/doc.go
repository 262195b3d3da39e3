// Package metrics provides build observability hooks.
//
// Components hold a Recorder and default to NoopRecorder, so metrics never
// need nil checks at call sites. When metrics are enabled the CLI installs a
// PrometheusRecorder and writes the registry to a textfile after the build
// (node_exporter textfile collector format).
package metrics

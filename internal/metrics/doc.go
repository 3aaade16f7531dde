// Package metrics provides the observability hooks for relocation and task
// execution.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	relocator := relocate.New(relocate.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// One-shot CLI runs export the registry with WriteTextfile (node_exporter
// textfile collector); watch mode serves it over HTTP with HTTPHandler.
package metrics

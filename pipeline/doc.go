// Package pipeline wires the stages into a training-data loader.
//
//	molecules ─▶ species table ─▶ neighbor graphs
//	          ─▶ shuffle pool (fragments) ─▶ dynamic batcher ─▶ padder ─▶ PaddedBatch
//
// A Loader is single-threaded and pull-based: every call to Next pulls
// exactly as many fragments as one batch needs. Run drives several
// independent loaders, each with its own key and pool, into one channel.
//
// Configuration is a YAML document (see DefaultConfig for the defaults).
// Loaders log through log/slog and export Prometheus metrics under the
// molfrag_pipeline_ prefix.
package pipeline

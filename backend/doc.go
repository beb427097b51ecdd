// Package backend provides tool source abstractions and registry.
//
// This package defines the core Backend interface and provides infrastructure
// for assembling a catalogue from multiple sources:
//
//   - Backend interface for tool sources (local, process, manifest, script)
//   - Registry for managing backends in registration order
//   - Aggregator for composing every enabled backend into one tool.Finder
//
// # Backend Types
//
// Backends can be:
//
//   - Local: in-process providers registered directly
//   - Process: executables on disk, run as child processes
//   - Manifest: [[tool]] and [[task]] tables of a project TOML file
//   - Script: project-local JavaScript files
//
// # Registry
//
// The Registry keeps backends in the order they were registered, which is
// also the lookup order of the composed catalogue:
//
//	registry := backend.NewRegistry()
//	registry.Register(localBackend)
//	registry.Register(scriptBackend)
//
// # Aggregator
//
// The Aggregator lists enabled backends in parallel and composes them:
//
//	agg := backend.NewAggregator(registry)
//	finder, err := agg.Compose(ctx, log)
//	runner := run.NewRunner(finder, run.WithLog(log))
package backend

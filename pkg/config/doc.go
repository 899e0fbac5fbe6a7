// Package config loads and validates the upp configuration file.
//
// Configuration is YAML with defaults applied before validation, so a
// missing file or empty section yields a fully usable configuration. The
// engine section controls resolution behavior (max inheritance depth,
// default merge strategy, intersection fallback, parallel merging); the
// logging, metrics, and audit sections configure the ambient services
// around the engine.
package config

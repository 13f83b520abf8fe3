// Package config loads curator's run configuration.
//
// Values come from three layers, later ones winning: built-in defaults, a
// YAML file, and CURATOR_* environment variables. Command-line flags are
// applied on top by the caller.
package config

// Package config loads, normalizes, and validates casework configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CASEWORK_ROOT environment
// fallback. Relative directories are resolved against the install root so
// child scripts and the orchestrator agree on where investigations, scripts
// and logs live regardless of the caller's working directory.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config

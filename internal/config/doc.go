// Package config loads, normalizes, and validates slp2mp4 configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, resolves the ffmpeg executable against PATH,
// and tokenizes the fixed audio arguments with shell quoting rules so the
// ffmpeg runner receives them verbatim.
//
// Always obtain settings through this package so downstream code receives
// resolved binaries, sanitized paths, and clear validation errors.
package config

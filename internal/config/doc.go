// Package config loads, normalizes, and validates usdabc configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from --config, the user config directory,
// or ./usdabc.toml. The Config type centralizes the conversion, archive, and
// logging knobs the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical basis names, and clear validation errors.
package config

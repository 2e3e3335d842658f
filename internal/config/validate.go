package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateConversion() error {
	if c.Conversion.Workers < 0 || c.Conversion.Workers > maxWorkers {
		return fmt.Errorf("conversion.workers must be between 0 and %d", maxWorkers)
	}
	switch c.Conversion.Basis {
	case "hermite", "bezier":
	default:
		return fmt.Errorf("conversion.basis must be hermite or bezier, got %q", c.Conversion.Basis)
	}
	return nil
}

func (c *Config) validateArchive() error {
	if c.Archive.MaxNativeVertices < 0 {
		return errors.New("archive.max_native_vertices must be non-negative")
	}
	if c.Archive.LockTimeoutSeconds < 0 {
		return errors.New("archive.lock_timeout_seconds must be non-negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be non-negative")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for errors.
//
// Struct tags handle field-level constraints (required, oneof, ranges);
// cross-field rules that tags cannot express are checked explicitly.
// Validation does not mutate the configuration - normalization happens
// in ApplyDefaults.
func Validate(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		return err
	}

	// Telemetry needs somewhere to export to when enabled
	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry enabled but no endpoint configured")
	}
	if cfg.Telemetry.Profiling.Enabled && cfg.Telemetry.Profiling.Endpoint == "" {
		return fmt.Errorf("profiling enabled but no endpoint configured")
	}

	if err := validateBlob(&cfg.Blob); err != nil {
		return err
	}

	return nil
}

// validateBlob checks backend-specific required fields.
func validateBlob(cfg *BlobConfig) error {
	switch cfg.Type {
	case "memory":
		// Nothing to configure
	case "filesystem":
		if cfg.Filesystem.BasePath == "" {
			return fmt.Errorf("filesystem blob store requires base_path")
		}
	case "badger":
		if cfg.Badger.Path == "" {
			return fmt.Errorf("badger blob store requires path")
		}
	case "s3":
		if cfg.S3.Bucket == "" {
			return fmt.Errorf("s3 blob store requires bucket")
		}
	}
	return nil
}

package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_ShutdownTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestApplyDefaults_API(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("Expected default API host '0.0.0.0', got %q", cfg.API.Host)
	}
	if cfg.API.Port != 5000 {
		t.Errorf("Expected default API port 5000, got %d", cfg.API.Port)
	}
	if cfg.API.ReadTimeout != 10*time.Second {
		t.Errorf("Expected default read timeout 10s, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.WriteTimeout != 30*time.Second {
		t.Errorf("Expected default write timeout 30s, got %v", cfg.API.WriteTimeout)
	}
	if cfg.API.IdleTimeout != 60*time.Second {
		t.Errorf("Expected default idle timeout 60s, got %v", cfg.API.IdleTimeout)
	}
	if cfg.API.MaxBodySize == 0 {
		t.Error("Expected default max body size to be set")
	}
}

func TestApplyDefaults_Blob(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Blob.Type != "filesystem" {
		t.Errorf("Expected default blob type 'filesystem', got %q", cfg.Blob.Type)
	}
	if cfg.Blob.Filesystem.BasePath == "" {
		t.Error("Expected default filesystem base path to be set")
	}
}

func TestApplyDefaults_Session(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Session.TTL != time.Hour {
		t.Errorf("Expected default session TTL 1h, got %v", cfg.Session.TTL)
	}
	if cfg.Session.SweepInterval != time.Minute {
		t.Errorf("Expected default sweep interval 1m, got %v", cfg.Session.SweepInterval)
	}
}

func TestApplyDefaults_MetricsPortOnlyWhenEnabled(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Metrics.Port != 0 {
		t.Errorf("Expected metrics port to stay 0 when disabled, got %d", cfg.Metrics.Port)
	}

	cfg = &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Expected default metrics port 9090 when enabled, got %d", cfg.Metrics.Port)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "DEBUG",
			Format: "json",
			Output: "/var/log/docrep.log",
		},
		ShutdownTimeout: 60 * time.Second,
		Session: SessionConfig{
			TTL: 15 * time.Minute,
		},
		Blob: BlobConfig{
			Type: "s3",
			S3:   BlobS3Config{Bucket: "docs"},
		},
	}

	ApplyDefaults(cfg)

	// Verify explicit values were preserved
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected explicit level 'DEBUG' to be preserved, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format 'json' to be preserved, got %q", cfg.Logging.Format)
	}
	if cfg.ShutdownTimeout != 60*time.Second {
		t.Errorf("Expected explicit shutdown timeout 60s to be preserved, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Session.TTL != 15*time.Minute {
		t.Errorf("Expected explicit session TTL 15m to be preserved, got %v", cfg.Session.TTL)
	}
	if cfg.Blob.Type != "s3" {
		t.Errorf("Expected explicit blob type 's3' to be preserved, got %q", cfg.Blob.Type)
	}
	// The filesystem default must not kick in for non-filesystem backends
	if cfg.Blob.Filesystem.BasePath != "" {
		t.Errorf("Expected no filesystem base path for s3 backend, got %q", cfg.Blob.Filesystem.BasePath)
	}
}

func TestApplyDefaults_LogLevelNormalization(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "info"}}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected ApplyDefaults to normalize 'info' to 'INFO', got %q", cfg.Logging.Level)
	}
}

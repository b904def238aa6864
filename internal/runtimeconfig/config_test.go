package runtimeconfig

import (
	"errors"
	"testing"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.ContentDir = "docs"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Pattern != "*.md" {
		t.Fatalf("expected default pattern, got %q", cfg.Pattern)
	}
	if cfg.RootDocument != "index" {
		t.Fatalf("expected default root document, got %q", cfg.RootDocument)
	}
	if cfg.IndexCode != "docs" {
		t.Fatalf("expected default index code, got %q", cfg.IndexCode)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
	if cfg.Features.Persistence || cfg.Features.Manifest {
		t.Fatalf("expected features off by default, got %+v", cfg.Features)
	}
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateCrossFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{
			name:   "missing content dir",
			mutate: func(c *Config) { c.ContentDir = "  " },
			want:   ErrContentDirRequired,
		},
		{
			name:   "missing root document",
			mutate: func(c *Config) { c.RootDocument = "" },
			want:   ErrRootDocumentRequired,
		},
		{
			name:   "negative max depth",
			mutate: func(c *Config) { c.MaxDepth = -1 },
			want:   ErrMaxDepthInvalid,
		},
		{
			name: "persistence without index code",
			mutate: func(c *Config) {
				c.Features.Persistence = true
				c.IndexCode = ""
				c.Storage.DSN = "file:docindex.db"
			},
			want: ErrIndexCodeRequired,
		},
		{
			name: "persistence without dsn",
			mutate: func(c *Config) {
				c.Features.Persistence = true
			},
			want: ErrStorageDSNRequired,
		},
		{
			name: "manifest without path",
			mutate: func(c *Config) {
				c.Features.Manifest = true
			},
			want: ErrManifestPathRequired,
		},
		{
			name:   "unknown logging level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
			want:   ErrLoggingLevelInvalid,
		},
		{
			name:   "unknown logging format",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
			want:   ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidatePersistenceConfigured(t *testing.T) {
	cfg := validConfig()
	cfg.Features.Persistence = true
	cfg.Storage.DSN = "file:docindex.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected persistence config to validate, got %v", err)
	}
}

func TestLoggingValidateCaseInsensitive(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "WARN"
	cfg.Logging.Format = "JSON"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected case insensitive logging values, got %v", err)
	}
}

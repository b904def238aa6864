package runtimeconfig

import (
	"errors"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrContentDirRequired indicates the documentation source root is missing.
var ErrContentDirRequired = errors.New("docindex config: content directory is required")

// ErrRootDocumentRequired indicates no root index page was configured.
var ErrRootDocumentRequired = errors.New("docindex config: root document is required")

// ErrIndexCodeRequired indicates the persisted index has no identifier.
var ErrIndexCodeRequired = errors.New("docindex config: index code is required when persistence is enabled")

// ErrStorageDSNRequired ensures persistence only builds with a database target.
var ErrStorageDSNRequired = errors.New("docindex config: storage DSN is required when persistence is enabled")

// ErrManifestPathRequired ensures manifest output has a destination.
var ErrManifestPathRequired = errors.New("docindex config: manifest path is required when manifest output is enabled")

// ErrMaxDepthInvalid rejects negative depth limits.
var ErrMaxDepthInvalid = errors.New("docindex config: max depth must be zero or positive")

// ErrLoggingLevelInvalid rejects unknown logging levels.
var ErrLoggingLevelInvalid = errors.New("docindex config: logging level is invalid")

// ErrLoggingFormatInvalid rejects unknown logging formats.
var ErrLoggingFormatInvalid = errors.New("docindex config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the docindex
// module. Fields intentionally use simple types so host applications can
// extend them later.
type Config struct {
	ContentDir   string
	Pattern      string
	RootDocument string
	IndexCode    string
	MaxDepth     int
	Strict       bool
	Features     Features
	Storage      StorageConfig
	Cache        CacheConfig
	Navigation   NavigationConfig
	Manifest     ManifestConfig
	Logging      LoggingConfig
}

// Features toggles optional behaviour.
type Features struct {
	// Persistence stores built trees in the configured database.
	Persistence bool
	// Manifest writes the JSON build manifest for downstream tooling.
	Manifest bool
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	// DSN is the SQLite data source, e.g. "file:docindex.db".
	DSN string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// NavigationConfig captures routing configuration for URL resolution.
type NavigationConfig struct {
	RouteConfig  *urlkit.Config
	DefaultGroup string
	DefaultRoute string
	SlugParam    string
	// BasePath backs the path resolver when no route config is supplied.
	BasePath string
}

// ManifestConfig controls the build manifest output.
type ManifestConfig struct {
	Path string
}

// LoggingConfig mirrors the go-logger adapter options.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns a configuration with the conventional defaults.
func DefaultConfig() Config {
	return Config{
		Pattern:      "*.md",
		RootDocument: "index",
		IndexCode:    "docs",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks cross-field consistency before the module boots.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ContentDir) == "" {
		return ErrContentDirRequired
	}
	if strings.TrimSpace(c.RootDocument) == "" {
		return ErrRootDocumentRequired
	}
	if c.MaxDepth < 0 {
		return ErrMaxDepthInvalid
	}
	if c.Features.Persistence {
		if strings.TrimSpace(c.IndexCode) == "" {
			return ErrIndexCodeRequired
		}
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	}
	if c.Features.Manifest && strings.TrimSpace(c.Manifest.Path) == "" {
		return ErrManifestPathRequired
	}
	if err := c.Logging.validate(); err != nil {
		return err
	}
	return nil
}

func (l LoggingConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}
	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}
	return nil
}

package bootstrap

import (
	"context"
	"fmt"
	"strings"

	docindex "github.com/goliatone/go-docindex"
	"github.com/goliatone/go-docindex/internal/logging"
	"github.com/goliatone/go-docindex/pkg/interfaces"
)

// Options captures configuration for docindex CLI bootstraps.
type Options struct {
	ContentDir     string
	Pattern        string
	RootDocument   string
	IndexCode      string
	MaxDepth       int
	Strict         bool
	Persistence    bool
	StorageDSN     string
	ManifestPath   string
	BasePath       string
	LogLevel       string
	LogFormat      string
	LogFocus       []string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the docindex module and the configured index service/logger.
type Module struct {
	Module  *docindex.Module
	Service interfaces.IndexService
	Logger  interfaces.Logger
}

// BuildModule constructs a docindex module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := docindex.DefaultConfig()
	cfg.ContentDir = strings.TrimSpace(opts.ContentDir)
	if cfg.ContentDir == "" {
		cfg.ContentDir = "docs"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Pattern = trimmed
	}
	if trimmed := strings.TrimSpace(opts.RootDocument); trimmed != "" {
		cfg.RootDocument = trimmed
	}
	if trimmed := strings.TrimSpace(opts.IndexCode); trimmed != "" {
		cfg.IndexCode = trimmed
	}
	cfg.MaxDepth = opts.MaxDepth
	cfg.Strict = opts.Strict

	if opts.Persistence {
		cfg.Features.Persistence = true
		cfg.Storage.DSN = strings.TrimSpace(opts.StorageDSN)
	}
	if trimmed := strings.TrimSpace(opts.ManifestPath); trimmed != "" {
		cfg.Features.Manifest = true
		cfg.Manifest.Path = trimmed
	}
	cfg.Navigation.BasePath = strings.TrimSpace(opts.BasePath)

	if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
		cfg.Logging.Level = trimmed
	}
	if trimmed := strings.TrimSpace(opts.LogFormat); trimmed != "" {
		cfg.Logging.Format = trimmed
	}
	cfg.Logging.Focus = opts.LogFocus

	moduleOpts := []docindex.Option{}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, docindex.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := docindex.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise docindex module: %w", err)
	}

	service := module.Index()
	if service == nil {
		return nil, fmt.Errorf("index service not configured")
	}

	if opts.Persistence {
		if err := module.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
	}

	logger := logging.IndexLogger(module.LoggerProvider())

	return &Module{
		Module:  module,
		Service: service,
		Logger:  logger,
	}, nil
}

// SplitList parses a comma separated value list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goliatone/go-docindex/cmd/docindex/internal/bootstrap"
	"github.com/goliatone/go-docindex/internal/logging"
	"github.com/goliatone/go-docindex/internal/manifest"
	"github.com/goliatone/go-docindex/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("docindex build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("docindex-build", flag.ExitOnError)
	contentDir := fs.String("content-dir", "docs", "Path to the documentation source root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering source files")
	root := fs.String("root", "index", "Slug of the root index document")
	maxDepth := fs.Int("max-depth", 0, "Maximum toctree expansion depth (0 means unlimited)")
	strict := fs.Bool("strict", false, "Fail the build when validation issues are found")
	manifestPath := fs.String("manifest", "", "Write the build manifest to the given path")
	basePath := fs.String("base-path", "", "URL prefix applied to generated navigation links")
	logLevel := fs.String("log-level", "info", "Logging level (trace, debug, info, warn, error)")
	logFormat := fs.String("log-format", "console", "Logging format (json, console, pretty)")
	logFocus := fs.String("log-focus", "", "Comma separated logger names to focus on")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:   *contentDir,
		Pattern:      *pattern,
		RootDocument: *root,
		MaxDepth:     *maxDepth,
		Strict:       *strict,
		ManifestPath: *manifestPath,
		BasePath:     *basePath,
		LogLevel:     *logLevel,
		LogFormat:    *logFormat,
		LogFocus:     bootstrap.SplitList(*logFocus),
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	ctx := context.Background()

	result, err := module.Service.Build(ctx, interfaces.BuildOptions{
		RootDocument: *root,
		MaxDepth:     *maxDepth,
		Strict:       *strict,
	})
	if err != nil {
		return fmt.Errorf("execute build: %w", err)
	}

	for _, issue := range result.Report.Issues {
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", issue.Severity, issue.Source, issue.Message)
	}

	if *manifestPath != "" {
		doc := manifest.Build(result, time.Now().UTC())
		data, err := doc.Encode()
		if err != nil {
			return fmt.Errorf("encode manifest: %w", err)
		}
		if err := os.WriteFile(*manifestPath, data, 0o644); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		logging.ManifestLogger(module.Module.LoggerProvider()).Info("manifest written",
			"path", *manifestPath, "topics", len(doc.Topics))
	}

	fmt.Fprintf(os.Stdout, "built index with %d document(s), %d issue(s)\n",
		result.Documents, len(result.Report.Issues))

	return nil
}

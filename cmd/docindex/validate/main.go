package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-docindex/cmd/docindex/internal/bootstrap"
	"github.com/goliatone/go-docindex/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runValidate(os.Args[1:]); err != nil {
		log.Fatalf("docindex validate: %v", err)
	}
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("docindex-validate", flag.ExitOnError)
	contentDir := fs.String("content-dir", "docs", "Path to the documentation source root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering source files")
	root := fs.String("root", "index", "Slug of the root index document")
	maxDepth := fs.Int("max-depth", 0, "Maximum toctree expansion depth (0 means unlimited)")
	failOnError := fs.Bool("fail-on-error", true, "Exit with an error when error severity issues are found")
	logLevel := fs.String("log-level", "warn", "Logging level (trace, debug, info, warn, error)")
	logFormat := fs.String("log-format", "console", "Logging format (json, console, pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:   *contentDir,
		Pattern:      *pattern,
		RootDocument: *root,
		MaxDepth:     *maxDepth,
		LogLevel:     *logLevel,
		LogFormat:    *logFormat,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	ctx := context.Background()

	report, err := module.Service.Validate(ctx, interfaces.BuildOptions{
		RootDocument: *root,
		MaxDepth:     *maxDepth,
	})
	if err != nil {
		return fmt.Errorf("execute validate: %w", err)
	}

	for _, issue := range report.Issues {
		location := issue.Source
		if issue.Line > 0 {
			location = fmt.Sprintf("%s:%d", issue.Source, issue.Line)
		}
		fmt.Fprintf(os.Stdout, "%s [%s] %s: %s\n", issue.Severity, issue.Code, location, issue.Message)
	}

	if *failOnError && report.HasErrors() {
		return fmt.Errorf("validation found error severity issues")
	}

	fmt.Fprintf(os.Stdout, "validation completed with %d issue(s)\n", len(report.Issues))

	return nil
}

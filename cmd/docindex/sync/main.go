package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-docindex/cmd/docindex/internal/bootstrap"
	indexcmd "github.com/goliatone/go-docindex/internal/commands/index"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("docindex sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("docindex-sync", flag.ExitOnError)
	contentDir := fs.String("content-dir", "docs", "Path to the documentation source root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering source files")
	root := fs.String("root", "index", "Slug of the root index document")
	indexCode := fs.String("index-code", "docs", "Identifier of the persisted index")
	maxDepth := fs.Int("max-depth", 0, "Maximum toctree expansion depth (0 means unlimited)")
	strict := fs.Bool("strict", false, "Fail the sync when validation issues are found")
	dsn := fs.String("dsn", "file:docindex.db", "SQLite data source for the persisted index")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting entries")
	deleteOrphaned := fs.Bool("delete-orphaned", false, "Remove persisted entries whose source document is gone")
	logLevel := fs.String("log-level", "info", "Logging level (trace, debug, info, warn, error)")
	logFormat := fs.String("log-format", "console", "Logging format (json, console, pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:   *contentDir,
		Pattern:      *pattern,
		RootDocument: *root,
		IndexCode:    *indexCode,
		MaxDepth:     *maxDepth,
		Strict:       *strict,
		Persistence:  true,
		StorageDSN:   *dsn,
		LogLevel:     *logLevel,
		LogFormat:    *logFormat,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	ctx := context.Background()

	handler := indexcmd.NewSyncIndexHandler(module.Service, module.Logger, indexcmd.FeatureGates{
		IndexEnabled:       func() bool { return true },
		PersistenceEnabled: func() bool { return true },
	})
	cmd := indexcmd.SyncIndexCommand{
		RootDocument:   *root,
		MaxDepth:       *maxDepth,
		Strict:         *strict,
		DryRun:         *dryRun,
		DeleteOrphaned: *deleteOrphaned,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "index sync command executed successfully")

	return nil
}

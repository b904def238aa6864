package indexcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docindex/internal/commands"
	"github.com/goliatone/go-docindex/internal/logging"
	"github.com/goliatone/go-docindex/pkg/interfaces"
)

const (
	buildOperation    = "index.build"
	validateOperation = "index.validate"
	syncOperation     = "index.sync"
)

var (
	// ErrIndexFeatureDisabled is returned when the index feature flag is disabled at runtime.
	ErrIndexFeatureDisabled = errors.New("index command: feature disabled")
	// ErrPersistenceDisabled is returned when a sync is requested without a configured store.
	ErrPersistenceDisabled = errors.New("index command: persistence disabled")
)

var (
	_ command.Commander[BuildIndexCommand]    = (*BuildIndexHandler)(nil)
	_ command.Commander[ValidateIndexCommand] = (*ValidateIndexHandler)(nil)
	_ command.Commander[SyncIndexCommand]     = (*SyncIndexHandler)(nil)
)

// BuildIndexHandler orchestrates index builds via the shared command handler foundation.
type BuildIndexHandler struct {
	inner *commands.Handler[BuildIndexCommand]
}

// NewBuildIndexHandler creates a handler bound to the supplied index service.
func NewBuildIndexHandler(service interfaces.IndexService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[BuildIndexCommand]) *BuildIndexHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildIndexCommand) error {
		if !gates.indexEnabled() {
			return ErrIndexFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.Build(ctx, interfaces.BuildOptions{
			RootDocument: msg.RootDocument,
			MaxDepth:     msg.MaxDepth,
			Strict:       msg.Strict,
		})
		if err != nil {
			return err
		}
		if result != nil {
			errorCount, warningCount := issueCounts(result.Report)
			logging.WithFields(baseLogger, map[string]any{
				"document_count": result.Documents,
				"error_count":    errorCount,
				"warning_count":  warningCount,
				"strict":         msg.Strict,
			}).Info("index.command.build.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildIndexCommand]{
		commands.WithLogger[BuildIndexCommand](baseLogger),
		commands.WithOperation[BuildIndexCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildIndexCommand) map[string]any {
			fields := map[string]any{
				"root_document": msg.RootDocument,
			}
			if msg.MaxDepth > 0 {
				fields["max_depth"] = msg.MaxDepth
			}
			if msg.Strict {
				fields["strict"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildIndexCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildIndexHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildIndexCommand].
func (h *BuildIndexHandler) Execute(ctx context.Context, msg BuildIndexCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ValidateIndexHandler runs structural validation via the shared command handler foundation.
type ValidateIndexHandler struct {
	inner *commands.Handler[ValidateIndexCommand]
}

// NewValidateIndexHandler creates a handler bound to the supplied index service.
func NewValidateIndexHandler(service interfaces.IndexService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ValidateIndexCommand]) *ValidateIndexHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ValidateIndexCommand) error {
		if !gates.indexEnabled() {
			return ErrIndexFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		report, err := service.Validate(ctx, interfaces.BuildOptions{
			RootDocument: msg.RootDocument,
			MaxDepth:     msg.MaxDepth,
		})
		if err != nil {
			return err
		}
		if report != nil {
			errorCount, warningCount := issueCounts(report)
			logging.WithFields(baseLogger, map[string]any{
				"issue_count":   len(report.Issues),
				"error_count":   errorCount,
				"warning_count": warningCount,
			}).Info("index.command.validate.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateIndexCommand]{
		commands.WithLogger[ValidateIndexCommand](baseLogger),
		commands.WithOperation[ValidateIndexCommand](validateOperation),
		commands.WithMessageFields(func(msg ValidateIndexCommand) map[string]any {
			fields := map[string]any{
				"root_document": msg.RootDocument,
			}
			if msg.MaxDepth > 0 {
				fields["max_depth"] = msg.MaxDepth
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ValidateIndexCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateIndexHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ValidateIndexCommand].
func (h *ValidateIndexHandler) Execute(ctx context.Context, msg ValidateIndexCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncIndexHandler reconciles the persisted index via the shared command handler foundation.
type SyncIndexHandler struct {
	inner *commands.Handler[SyncIndexCommand]
}

// NewSyncIndexHandler creates a handler bound to the supplied index service.
func NewSyncIndexHandler(service interfaces.IndexService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SyncIndexCommand]) *SyncIndexHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncIndexCommand) error {
		if !gates.indexEnabled() {
			return ErrIndexFeatureDisabled
		}
		if !gates.persistenceEnabled() {
			return ErrPersistenceDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.Sync(ctx, interfaces.SyncOptions{
			BuildOptions: interfaces.BuildOptions{
				RootDocument: msg.RootDocument,
				MaxDepth:     msg.MaxDepth,
				Strict:       msg.Strict,
			},
			DryRun:         msg.DryRun,
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count":  result.Created,
				"updated_count":  result.Updated,
				"deleted_count":  result.Deleted,
				"skipped_count":  result.Skipped,
				"dry_run":        msg.DryRun,
				"delete_orphans": msg.DeleteOrphaned,
			}).Info("index.command.sync.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncIndexCommand]{
		commands.WithLogger[SyncIndexCommand](baseLogger),
		commands.WithOperation[SyncIndexCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncIndexCommand) map[string]any {
			fields := map[string]any{
				"root_document": msg.RootDocument,
			}
			if msg.MaxDepth > 0 {
				fields["max_depth"] = msg.MaxDepth
			}
			if msg.Strict {
				fields["strict"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncIndexCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncIndexHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncIndexCommand].
func (h *SyncIndexHandler) Execute(ctx context.Context, msg SyncIndexCommand) error {
	return h.inner.Execute(ctx, msg)
}

func issueCounts(report *interfaces.ValidationReport) (errorCount, warningCount int) {
	if report == nil {
		return 0, 0
	}
	for _, issue := range report.Issues {
		switch issue.Severity {
		case interfaces.SeverityError:
			errorCount++
		case interfaces.SeverityWarning:
			warningCount++
		}
	}
	return errorCount, warningCount
}

package indexcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docindex/internal/commands"
	"github.com/goliatone/go-docindex/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the index command handlers produced by RegisterIndexCommands.
type HandlerSet struct {
	Build    *BuildIndexHandler
	Validate *ValidateIndexHandler
	Sync     *SyncIndexHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	buildHandlerOpts    []commands.HandlerOption[BuildIndexCommand]
	validateHandlerOpts []commands.HandlerOption[ValidateIndexCommand]
	syncHandlerOpts     []commands.HandlerOption[SyncIndexCommand]
}

// WithBuildHandlerOptions forwards options to the BuildIndexHandler constructor.
func WithBuildHandlerOptions(opts ...commands.HandlerOption[BuildIndexCommand]) Option {
	return func(cfg *options) {
		cfg.buildHandlerOpts = append(cfg.buildHandlerOpts, opts...)
	}
}

// WithValidateHandlerOptions forwards options to the ValidateIndexHandler constructor.
func WithValidateHandlerOptions(opts ...commands.HandlerOption[ValidateIndexCommand]) Option {
	return func(cfg *options) {
		cfg.validateHandlerOpts = append(cfg.validateHandlerOpts, opts...)
	}
}

// WithSyncHandlerOptions forwards options to the SyncIndexHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncIndexCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// RegisterIndexCommands builds index command handlers and registers them with
// the provided registry. A HandlerSet containing the constructed handlers is
// returned so callers can wire additional integrations (dispatcher, cron) as
// needed.
func RegisterIndexCommands(reg CommandRegistry, service interfaces.IndexService, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("index command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "index")

	buildHandler := NewBuildIndexHandler(service, logger, gates, cfg.buildHandlerOpts...)
	validateHandler := NewValidateIndexHandler(service, logger, gates, cfg.validateHandlerOpts...)
	syncHandler := NewSyncIndexHandler(service, logger, gates, cfg.syncHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(buildHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(validateHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(syncHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Build:    buildHandler,
		Validate: validateHandler,
		Sync:     syncHandler,
	}, nil
}

// RegisterSyncCron wires the provided sync handler into a cron registrar using
// the supplied command configuration and message payload. The handler is
// executed with a background context.
func RegisterSyncCron(reg CronRegistrar, handler *SyncIndexHandler, cfg command.HandlerConfig, msg SyncIndexCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}

package indexcmd

import (
	"context"
	"testing"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docindex/pkg/interfaces"
)

type recordingRegistry struct {
	handlers []any
	err      error
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestRegisterIndexCommands(t *testing.T) {
	registry := &recordingRegistry{}
	service := &stubIndexService{
		buildResult: &interfaces.BuildResult{Report: &interfaces.ValidationReport{}},
	}

	set, err := RegisterIndexCommands(registry, service, nil, FeatureGates{})
	if err != nil {
		t.Fatalf("register index commands: %v", err)
	}
	if set == nil || set.Build == nil || set.Validate == nil || set.Sync == nil {
		t.Fatalf("expected full handler set, got %#v", set)
	}
	if len(registry.handlers) != 3 {
		t.Fatalf("expected 3 registered handlers, got %d", len(registry.handlers))
	}

	if err := set.Build.Execute(context.Background(), BuildIndexCommand{RootDocument: "index"}); err != nil {
		t.Fatalf("execute registered build handler: %v", err)
	}
	if len(service.buildCalls) != 1 {
		t.Fatalf("expected build call through registered handler, got %d", len(service.buildCalls))
	}
}

func TestRegisterIndexCommandsNilService(t *testing.T) {
	if _, err := RegisterIndexCommands(&recordingRegistry{}, nil, nil, FeatureGates{}); err == nil {
		t.Fatal("expected error for nil service")
	}
}

func TestRegisterSyncCron(t *testing.T) {
	service := &stubIndexService{syncResult: &interfaces.SyncResult{}}
	handler := NewSyncIndexHandler(service, nil, FeatureGates{})

	var registered bool
	registrar := CronRegistrar(func(cfg command.HandlerConfig, fn any) error {
		registered = true
		run, ok := fn.(func() error)
		if !ok {
			t.Fatalf("expected func() error payload, got %T", fn)
		}
		return run()
	})

	msg := SyncIndexCommand{RootDocument: "index", DryRun: true}
	if err := RegisterSyncCron(registrar, handler, command.HandlerConfig{}, msg); err != nil {
		t.Fatalf("register sync cron: %v", err)
	}
	if !registered {
		t.Fatal("expected registrar invoked")
	}
	if len(service.syncCalls) != 1 {
		t.Fatalf("expected sync execution, got %d calls", len(service.syncCalls))
	}
}

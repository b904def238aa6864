package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-docindex/pkg/interfaces"
)

type recordingLogger struct {
	fields   map[string]any
	messages []string
}

var _ interfaces.Logger = (*recordingLogger)(nil)
var _ interfaces.FieldsLogger = (*recordingLogger)(nil)

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{fields: map[string]any{}}
}

func (r *recordingLogger) Trace(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Debug(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Info(msg string, _ ...any)  { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Error(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Fatal(msg string, _ ...any) { r.messages = append(r.messages, msg) }

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(r.fields)+len(fields))
	for key, value := range r.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{fields: merged}
}

type staticProvider struct {
	logger interfaces.Logger
	names  []string
}

func (p *staticProvider) GetLogger(name string) interfaces.Logger {
	p.names = append(p.names, name)
	return p.logger
}

func TestModuleLoggerAttachesModuleField(t *testing.T) {
	base := newRecordingLogger()
	provider := &staticProvider{logger: base}

	logger := ModuleLogger(provider, "docindex.index")

	recorded, ok := logger.(*recordingLogger)
	if !ok {
		t.Fatalf("expected recording logger, got %T", logger)
	}
	if recorded.fields["module"] != "docindex.index" {
		t.Fatalf("expected module field, got %v", recorded.fields)
	}
	if len(provider.names) != 1 || provider.names[0] != "docindex.index" {
		t.Fatalf("expected provider asked for module name, got %v", provider.names)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	base := newRecordingLogger()
	provider := &staticProvider{logger: base}

	logger := ModuleLogger(provider, "")

	recorded := logger.(*recordingLogger)
	if recorded.fields["module"] != "docindex" {
		t.Fatalf("expected root module field, got %v", recorded.fields)
	}
}

func TestNamespaceHelpers(t *testing.T) {
	cases := map[string]func(interfaces.LoggerProvider) interfaces.Logger{
		"docindex.loader":   LoaderLogger,
		"docindex.toc":      TocLogger,
		"docindex.index":    IndexLogger,
		"docindex.manifest": ManifestLogger,
	}
	for module, helper := range cases {
		provider := &staticProvider{logger: newRecordingLogger()}
		logger := helper(provider)
		recorded := logger.(*recordingLogger)
		if recorded.fields["module"] != module {
			t.Fatalf("expected module %q, got %v", module, recorded.fields)
		}
	}
}

func TestModuleLoggerNilProviderFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "docindex.index")
	if logger == nil {
		t.Fatal("expected a logger even without provider")
	}
	logger.Info("ignored")
}

func TestWithFieldsMergesOntoFieldsLogger(t *testing.T) {
	base := newRecordingLogger().WithFields(map[string]any{"module": "docindex"})

	logger := WithFields(base, map[string]any{"index_code": "docs"})

	recorded := logger.(*recordingLogger)
	if recorded.fields["module"] != "docindex" || recorded.fields["index_code"] != "docs" {
		t.Fatalf("expected merged fields, got %v", recorded.fields)
	}
}

func TestWithFieldsNoFieldsReturnsSameLogger(t *testing.T) {
	base := newRecordingLogger()
	if got := WithFields(base, nil); got != base {
		t.Fatal("expected unchanged logger for empty fields")
	}
}

func TestWithIndexContextSkipsEmptyValues(t *testing.T) {
	base := newRecordingLogger()

	logger := WithIndexContext(base, "docs/index.md", "", "  ")

	recorded := logger.(*recordingLogger)
	if recorded.fields["source_path"] != "docs/index.md" {
		t.Fatalf("expected source path field, got %v", recorded.fields)
	}
	if _, ok := recorded.fields["index_code"]; ok {
		t.Fatal("expected empty index code dropped")
	}
	if _, ok := recorded.fields["sync_action"]; ok {
		t.Fatal("expected blank action dropped")
	}
}

func TestContextFieldsRoundTrip(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"index_code": "docs"})
	ctx = ContextWithFields(ctx, map[string]any{"sync_action": "create"})

	fields := ContextFields(ctx)
	if fields["index_code"] != "docs" || fields["sync_action"] != "create" {
		t.Fatalf("expected merged context fields, got %v", fields)
	}

	fields["index_code"] = "mutated"
	if got := ContextFields(ctx)["index_code"]; got != "docs" {
		t.Fatalf("expected defensive copy, got %v", got)
	}
}

func TestContextFieldsMissing(t *testing.T) {
	if fields := ContextFields(context.Background()); fields != nil {
		t.Fatalf("expected nil fields, got %v", fields)
	}
}

package manifest_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-docindex/internal/manifest"
	"github.com/goliatone/go-docindex/pkg/interfaces"
	"github.com/goliatone/go-docindex/pkg/testsupport"
)

func sampleBuildResult() *interfaces.BuildResult {
	return &interfaces.BuildResult{
		Root: &interfaces.NavigationNode{
			Ref:   "index",
			Title: "qopt Documentation",
			Children: []interfaces.NavigationNode{
				{
					Ref:      "schroedinger_solver",
					Title:    "Schroedinger Solvers",
					Source:   "schroedinger_solver.md",
					URL:      "/schroedinger-solver/",
					Position: 0,
					Depth:    1,
				},
				{
					Ref:      "examples",
					Title:    "Examples",
					Source:   "examples/index.md",
					URL:      "/examples/",
					Position: 1,
					Depth:    1,
					Children: []interfaces.NavigationNode{
						{
							Ref:      "optimization",
							Title:    "Optimization Algorithms",
							Source:   "examples/optimization.md",
							URL:      "/examples/optimization/",
							Position: 0,
							Depth:    2,
							Hidden:   true,
						},
					},
				},
			},
		},
		Report: &interfaces.ValidationReport{
			Issues: []interfaces.ValidationIssue{
				{
					Severity: interfaces.SeverityWarning,
					Code:     "orphan_document",
					Source:   "stray.md",
					Message:  "document is not reachable from any index entry",
				},
			},
		},
		Documents: 4,
	}
}

func TestBuildKeysTopicsByRefChain(t *testing.T) {
	generated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := manifest.Build(sampleBuildResult(), generated)

	if m.Root != "index" {
		t.Fatalf("expected root ref, got %q", m.Root)
	}
	if !m.GeneratedAt.Equal(generated) {
		t.Fatalf("expected generation time preserved, got %v", m.GeneratedAt)
	}

	want := []string{"examples", "examples/optimization", "schroedinger_solver"}
	keys := m.TopicKeys()
	if len(keys) != len(want) {
		t.Fatalf("expected %d topics, got %v", len(want), keys)
	}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("expected key %q at %d, got %q", key, i, keys[i])
		}
	}

	nested := m.Topics["examples/optimization"]
	if nested.Parent != "examples" {
		t.Fatalf("expected parent chain recorded, got %q", nested.Parent)
	}
	if !nested.Hidden || nested.Depth != 2 {
		t.Fatalf("unexpected nested topic %+v", nested)
	}

	if len(m.Issues) != 1 || m.Issues[0].Code != "orphan_document" {
		t.Fatalf("expected report issues carried, got %v", m.Issues)
	}
}

func TestBuildNilResult(t *testing.T) {
	m := manifest.Build(nil, time.Now())
	if len(m.Topics) != 0 || m.Root != "" {
		t.Fatalf("expected empty manifest, got %+v", m)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	m := manifest.Build(sampleBuildResult(), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	data, err := m.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parsed, err := manifest.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Version != m.Version {
		t.Fatalf("expected version %d, got %d", m.Version, parsed.Version)
	}
	if len(parsed.Topics) != len(m.Topics) {
		t.Fatalf("expected %d topics, got %d", len(m.Topics), len(parsed.Topics))
	}
	if parsed.Topics["schroedinger_solver"].Title != "Schroedinger Solvers" {
		t.Fatalf("unexpected topic after round trip: %+v", parsed.Topics["schroedinger_solver"])
	}
}

func TestParseEmptyReturnsFreshManifest(t *testing.T) {
	m, err := manifest.Parse(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if m.Version == 0 || m.Topics == nil {
		t.Fatalf("expected initialised manifest, got %+v", m)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := manifest.Parse([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateBytesRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing required fields": `{"version": 1}`,
		"bad version type":        `{"version": "one", "generated_at": "2025-06-01T12:00:00Z", "topics": {}}`,
		"topic missing ref":       `{"version": 1, "generated_at": "2025-06-01T12:00:00Z", "topics": {"a": {"title": "A"}}}`,
		"empty topic ref":         `{"version": 1, "generated_at": "2025-06-01T12:00:00Z", "topics": {"a": {"ref": "", "title": "A"}}}`,
	}
	for name, payload := range cases {
		if err := manifest.ValidateBytes([]byte(payload)); !errors.Is(err, manifest.ErrManifestInvalid) {
			t.Fatalf("%s: expected ErrManifestInvalid, got %v", name, err)
		}
	}
}

func TestParseFixtureManifest(t *testing.T) {
	data, err := testsupport.LoadFixture("testdata/manifest.json")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	if err := manifest.ValidateBytes(data); err != nil {
		t.Fatalf("expected fixture to validate, got %v", err)
	}

	var golden manifest.Manifest
	if err := testsupport.LoadGolden("testdata/manifest.json", &golden); err != nil {
		t.Fatalf("load golden: %v", err)
	}

	parsed, err := manifest.Parse(data)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if parsed.Root != golden.Root {
		t.Fatalf("expected root %q, got %q", golden.Root, parsed.Root)
	}
	if len(parsed.Topics) != len(golden.Topics) {
		t.Fatalf("expected %d topics, got %d", len(golden.Topics), len(parsed.Topics))
	}
	if parsed.Topics["examples/optimization"].Parent != "examples" {
		t.Fatalf("unexpected nested topic %+v", parsed.Topics["examples/optimization"])
	}
}

func TestValidateBytesAcceptsMinimalManifest(t *testing.T) {
	payload := `{"version": 1, "generated_at": "2025-06-01T12:00:00Z", "topics": {}}`
	if err := manifest.ValidateBytes([]byte(payload)); err != nil {
		t.Fatalf("expected minimal manifest to validate, got %v", err)
	}
}

// Package manifest serialises the outcome of an index build into the JSON
// document consumed by downstream render tooling.
package manifest

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-docindex/pkg/interfaces"
)

const (
	// FileName is the conventional manifest location inside the output dir.
	FileName    = ".docindex-manifest.json"
	fileVersion = 1
)

// Manifest stores metadata about the last successful build so downstream
// tooling and incremental runs can consume it.
type Manifest struct {
	Version     int                          `json:"version"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Root        string                       `json:"root"`
	Topics      map[string]Topic             `json:"topics"`
	Issues      []interfaces.ValidationIssue `json:"issues,omitempty"`
	Metadata    map[string]json.RawMessage   `json:"metadata,omitempty"`
}

// Topic captures one resolved navigation entry.
type Topic struct {
	Ref      string `json:"ref"`
	Title    string `json:"title"`
	Source   string `json:"source,omitempty"`
	URL      string `json:"url,omitempty"`
	Parent   string `json:"parent,omitempty"`
	Position int    `json:"position"`
	Depth    int    `json:"depth"`
	Hidden   bool   `json:"hidden,omitempty"`
}

// New creates an empty manifest with the current schema version.
func New() *Manifest {
	return &Manifest{
		Version: fileVersion,
		Topics:  map[string]Topic{},
	}
}

// Build converts a build result into a manifest. Topics are keyed by the
// slash-joined ref chain so nested entries stay unique.
func Build(result *interfaces.BuildResult, generatedAt time.Time) *Manifest {
	m := New()
	m.GeneratedAt = generatedAt
	if result == nil || result.Root == nil {
		return m
	}

	m.Root = result.Root.Ref
	if result.Report != nil {
		m.Issues = append(m.Issues, result.Report.Issues...)
	}

	var walk func(parentKey string, node interfaces.NavigationNode)
	walk = func(parentKey string, node interfaces.NavigationNode) {
		key := node.Ref
		if parentKey != "" {
			key = parentKey + "/" + node.Ref
		}
		m.Topics[key] = Topic{
			Ref:      node.Ref,
			Title:    node.Title,
			Source:   node.Source,
			URL:      node.URL,
			Parent:   parentKey,
			Position: node.Position,
			Depth:    node.Depth,
			Hidden:   node.Hidden,
		}
		for _, child := range node.Children {
			walk(key, child)
		}
	}
	for _, child := range result.Root.Children {
		walk("", child)
	}

	return m
}

// Parse decodes manifest bytes, tolerating empty input by returning a fresh
// manifest.
func Parse(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return New(), nil
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}
	if m.Topics == nil {
		m.Topics = map[string]Topic{}
	}
	if m.Version == 0 {
		m.Version = fileVersion
	}
	return &m, nil
}

// Encode renders the manifest as stable, indented JSON after validating it
// against the embedded schema.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}
	if err := ValidateBytes(data); err != nil {
		return nil, err
	}
	return data, nil
}

// TopicKeys returns the topic keys in sorted order, mostly for deterministic
// logging and tests.
func (m *Manifest) TopicKeys() []string {
	keys := make([]string, 0, len(m.Topics))
	for key := range m.Topics {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

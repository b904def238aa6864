package toc_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-docindex/internal/toc"
)

const indexBody = `# Documentation

Welcome to the documentation.

` + "```" + `{toctree}
:maxdepth: 2
:caption: Contents

schroedinger_solver
entanglement_fidelity
optimization
pulse_parametrization
` + "```" + `

Trailing prose.
`

func TestParseDirectiveWithOptions(t *testing.T) {
	directives, err := toc.Parse([]byte(indexBody))
	if err != nil {
		t.Fatalf("parse directive: %v", err)
	}
	if len(directives) != 1 {
		t.Fatalf("expected one directive, got %d", len(directives))
	}

	directive := directives[0]
	if directive.MaxDepth != 2 {
		t.Fatalf("expected maxdepth 2, got %d", directive.MaxDepth)
	}
	if directive.Caption != "Contents" {
		t.Fatalf("expected caption %q, got %q", "Contents", directive.Caption)
	}

	refs := make([]string, 0, len(directive.Entries))
	for _, entry := range directive.Entries {
		refs = append(refs, entry.Ref)
	}
	want := []string{"schroedinger_solver", "entanglement_fidelity", "optimization", "pulse_parametrization"}
	if len(refs) != len(want) {
		t.Fatalf("expected %d entries, got %d (%v)", len(want), len(refs), refs)
	}
	for i, ref := range want {
		if refs[i] != ref {
			t.Fatalf("expected entry %d to be %q, got %q", i, ref, refs[i])
		}
	}
}

func TestParsePreservesEntryOrderAndLines(t *testing.T) {
	body := "```{toctree}\n\nmonte_carlo_experiments\nopen_quantum_systems\nparallelization\n```\n"
	directives, err := toc.Parse([]byte(body))
	if err != nil {
		t.Fatalf("parse directive: %v", err)
	}
	entries := directives[0].Entries
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Line >= entries[1].Line || entries[1].Line >= entries[2].Line {
		t.Fatalf("expected increasing line numbers, got %d %d %d",
			entries[0].Line, entries[1].Line, entries[2].Line)
	}
}

func TestParseTitleOverrideForm(t *testing.T) {
	body := "```{toctree}\n\nEnergy Spectra <energy_spectra_analysis>\nQuTiP <https://qutip.org>\n```\n"
	directives, err := toc.Parse([]byte(body))
	if err != nil {
		t.Fatalf("parse directive: %v", err)
	}
	entries := directives[0].Entries
	if entries[0].Ref != "energy_spectra_analysis" {
		t.Fatalf("expected ref %q, got %q", "energy_spectra_analysis", entries[0].Ref)
	}
	if entries[0].Title != "Energy Spectra" {
		t.Fatalf("expected title override, got %q", entries[0].Title)
	}
	if !entries[1].External() {
		t.Fatalf("expected external entry for %q", entries[1].Ref)
	}
	if entries[1].Title != "QuTiP" {
		t.Fatalf("expected external title, got %q", entries[1].Title)
	}
}

func TestParseBooleanOptions(t *testing.T) {
	body := "```{toctree}\n:hidden:\n:numbered:\n:glob:\n:titlesonly:\n\nnumerics\n```\n"
	directives, err := toc.Parse([]byte(body))
	if err != nil {
		t.Fatalf("parse directive: %v", err)
	}
	directive := directives[0]
	if !directive.Hidden || !directive.Numbered || !directive.Glob || !directive.TitlesOnly {
		t.Fatalf("expected all boolean options set, got %+v", directive)
	}
}

func TestParseEmptyDirective(t *testing.T) {
	body := "```{toctree}\n:caption: Placeholder\n```\n"
	directives, err := toc.Parse([]byte(body))
	if err != nil {
		t.Fatalf("parse empty directive: %v", err)
	}
	if len(directives[0].Entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(directives[0].Entries))
	}
}

func TestParseMultipleDirectives(t *testing.T) {
	body := "```{toctree}\n:caption: Solvers\n\nschroedinger_solver\n```\n\nprose\n\n~~~{toctree}\n:caption: Analysis\n\nenergy_spectra_analysis\n~~~\n"
	directives, err := toc.Parse([]byte(body))
	if err != nil {
		t.Fatalf("parse directives: %v", err)
	}
	if len(directives) != 2 {
		t.Fatalf("expected two directives, got %d", len(directives))
	}
	if directives[0].Caption != "Solvers" || directives[1].Caption != "Analysis" {
		t.Fatalf("unexpected captions %q / %q", directives[0].Caption, directives[1].Caption)
	}
}

func TestParseCRLFAndBOM(t *testing.T) {
	body := "\uFEFF```{toctree}\r\n:maxdepth: 1\r\n\r\noptimization\r\n```\r\n"
	directives, err := toc.Parse([]byte(body))
	if err != nil {
		t.Fatalf("parse CRLF body: %v", err)
	}
	if len(directives) != 1 {
		t.Fatalf("expected one directive, got %d", len(directives))
	}
	if directives[0].MaxDepth != 1 {
		t.Fatalf("expected maxdepth 1, got %d", directives[0].MaxDepth)
	}
	if directives[0].Entries[0].Ref != "optimization" {
		t.Fatalf("expected entry %q, got %q", "optimization", directives[0].Entries[0].Ref)
	}
}

func TestParseUnterminatedDirective(t *testing.T) {
	body := "```{toctree}\n\nschroedinger_solver\n"
	_, err := toc.Parse([]byte(body))
	if err == nil {
		t.Fatal("expected unterminated directive error")
	}
	var parseErr *toc.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if !strings.Contains(err.Error(), "unterminated") {
		t.Fatalf("expected unterminated message, got %q", err.Error())
	}
}

func TestParseUnknownOption(t *testing.T) {
	body := "```{toctree}\n:sorted:\n\nnumerics\n```\n"
	_, err := toc.Parse([]byte(body))
	if err == nil {
		t.Fatal("expected unknown option error")
	}
	var parseErr *toc.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if parseErr.Line != 2 {
		t.Fatalf("expected error on line 2, got %d", parseErr.Line)
	}
}

func TestParseInvalidMaxDepth(t *testing.T) {
	for _, value := range []string{"abc", "-1"} {
		body := "```{toctree}\n:maxdepth: " + value + "\n\nnumerics\n```\n"
		if _, err := toc.Parse([]byte(body)); err == nil {
			t.Fatalf("expected invalid maxdepth error for %q", value)
		}
	}
}

func TestParseIgnoresPlainCodeFences(t *testing.T) {
	body := "```python\nprint(\"hello\")\n```\n\n```{toctree}\n\nnumerics\n```\n"
	directives, err := toc.Parse([]byte(body))
	if err != nil {
		t.Fatalf("parse body with code fence: %v", err)
	}
	if len(directives) != 1 {
		t.Fatalf("expected one directive, got %d", len(directives))
	}
}

func TestDuplicatesReportsLaterOccurrences(t *testing.T) {
	directive := toc.Directive{
		Entries: []toc.Entry{
			{Ref: "optimization", Line: 3},
			{Ref: "numerics", Line: 4},
			{Ref: "optimization", Line: 5},
		},
	}
	dupes := directive.Duplicates()
	if len(dupes) != 1 {
		t.Fatalf("expected one duplicate, got %d", len(dupes))
	}
	if dupes[0].Line != 5 {
		t.Fatalf("expected duplicate at line 5, got %d", dupes[0].Line)
	}
}

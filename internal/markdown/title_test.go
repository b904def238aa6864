package markdown_test

import (
	"testing"

	"github.com/goliatone/go-docindex/internal/markdown"
	"github.com/goliatone/go-docindex/pkg/interfaces"
)

func TestDocumentTitleFrontMatterWins(t *testing.T) {
	doc := &interfaces.Document{
		FilePath:    "optimization.md",
		Slug:        "optimization",
		FrontMatter: interfaces.FrontMatter{Title: "Optimization Algorithms"},
		Body:        []byte("# Something Else\n"),
	}
	if got := markdown.DocumentTitle(doc); got != "Optimization Algorithms" {
		t.Fatalf("expected frontmatter title, got %q", got)
	}
}

func TestDocumentTitleFirstHeading(t *testing.T) {
	doc := &interfaces.Document{
		FilePath: "entanglement_fidelity.md",
		Slug:     "entanglement-fidelity",
		Body:     []byte("Intro paragraph.\n\n## Entanglement Fidelity\n\nBody.\n"),
	}
	if got := markdown.DocumentTitle(doc); got != "Entanglement Fidelity" {
		t.Fatalf("expected heading title, got %q", got)
	}
}

func TestDocumentTitleFallsBackToSlug(t *testing.T) {
	doc := &interfaces.Document{
		FilePath: "monte_carlo_experiments.md",
		Slug:     "monte-carlo-experiments",
		Body:     []byte("No headings here.\n"),
	}
	if got := markdown.DocumentTitle(doc); got != "monte carlo experiments" {
		t.Fatalf("expected slug derived title, got %q", got)
	}
}

func TestDocumentTitleNotebookHeading(t *testing.T) {
	notebook := `{
  "cells": [
    {"cell_type": "code", "source": ["import numpy as np\n"]},
    {"cell_type": "markdown", "source": ["# Parallelization\n", "\n", "Running solvers in parallel.\n"]}
  ],
  "nbformat": 4
}`
	doc := &interfaces.Document{
		FilePath: "qopt_features/parallelization.ipynb",
		Slug:     "qopt-features/parallelization",
		Body:     []byte(notebook),
	}
	if got := markdown.DocumentTitle(doc); got != "Parallelization" {
		t.Fatalf("expected notebook heading, got %q", got)
	}
}

func TestDocumentTitleNotebookStringSource(t *testing.T) {
	notebook := `{
  "cells": [
    {"cell_type": "markdown", "source": "## Numerics\nDiscretisation schemes.\n"}
  ],
  "nbformat": 4
}`
	doc := &interfaces.Document{
		FilePath: "numerics.ipynb",
		Slug:     "numerics",
		Body:     []byte(notebook),
	}
	if got := markdown.DocumentTitle(doc); got != "Numerics" {
		t.Fatalf("expected notebook heading from string source, got %q", got)
	}
}

func TestFirstHeadingEmptyBody(t *testing.T) {
	if got := markdown.FirstHeading(nil); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}

package interfaces

import "context"

// IndexService exposes the high-level index workflows: building the
// navigation tree from documentation sources, validating its structure, and
// synchronising the persisted copy consumed by downstream render tooling.
type IndexService interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Validate(ctx context.Context, opts BuildOptions) (*ValidationReport, error)
	Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error)
	ResolveNavigation(ctx context.Context, indexCode string) ([]NavigationNode, error)
}

// BuildOptions selects the documentation root and walk behaviour for a build.
type BuildOptions struct {
	// RootDocument is the slug of the index page the walk starts from.
	RootDocument string
	// MaxDepth caps recursion into nested index documents. Zero means unlimited.
	MaxDepth int
	// Strict promotes validation issues to hard build errors.
	Strict bool
}

// SyncOptions extends BuildOptions with persistence behaviour.
type SyncOptions struct {
	BuildOptions
	// DryRun builds and reports without writing to the repository.
	DryRun bool
	// DeleteOrphaned removes persisted entries whose source document is gone.
	DeleteOrphaned bool
}

// BuildResult summarises a completed index build.
type BuildResult struct {
	Root   *NavigationNode
	Report *ValidationReport
	// Documents counts every source file reachable from the root.
	Documents int
}

// SyncResult reports the persistence outcome of a sync run.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Skipped int
	DryRun  bool
}

// IssueSeverity grades validation findings.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ValidationIssue captures a single structural problem found while building
// or checking an index.
type ValidationIssue struct {
	Severity IssueSeverity `json:"severity"`
	Code     string        `json:"code"`
	Source   string        `json:"source"`
	Ref      string        `json:"ref,omitempty"`
	Line     int           `json:"line,omitempty"`
	Message  string        `json:"message"`
}

// ValidationReport aggregates the issues of one build or validate run.
type ValidationReport struct {
	Issues []ValidationIssue `json:"issues"`
}

// HasErrors reports whether any issue is error severity.
func (r *ValidationReport) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// NavigationNode is the render-facing shape of one resolved index entry.
type NavigationNode struct {
	Ref      string           `json:"ref"`
	Title    string           `json:"title"`
	URL      string           `json:"url,omitempty"`
	Source   string           `json:"source,omitempty"`
	Caption  string           `json:"caption,omitempty"`
	Depth    int              `json:"depth"`
	Position int              `json:"position"`
	Hidden   bool             `json:"hidden,omitempty"`
	Numbered bool             `json:"numbered,omitempty"`
	Children []NavigationNode `json:"children,omitempty"`
}

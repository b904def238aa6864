package index

import "errors"

var (
	// ErrRootDocumentMissing indicates the configured root document could not
	// be found under the content root.
	ErrRootDocumentMissing = errors.New("index: root document not found")

	// ErrReferenceCycle indicates the directive graph references a document
	// that is already on the current expansion path.
	ErrReferenceCycle = errors.New("index: reference cycle detected")

	// ErrValidationFailed is returned by strict builds when the validation
	// report contains error-severity issues.
	ErrValidationFailed = errors.New("index: validation failed")
)

// Issue codes attached to validation findings.
const (
	IssueUnresolvedRef  = "unresolved_reference"
	IssueDuplicateEntry = "duplicate_entry"
	IssueDirectiveParse = "directive_parse"
	IssueMultipleParent = "multiple_parents"
	IssueOrphanDocument = "orphan_document"
	IssueDraftReference = "draft_reference"
)

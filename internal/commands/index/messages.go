package indexcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	buildIndexMessageType    = "docindex.index.build"
	validateIndexMessageType = "docindex.index.validate"
	syncIndexMessageType     = "docindex.index.sync"
)

// BuildIndexCommand walks the documentation corpus starting from RootDocument
// and assembles the navigation tree. The fields map directly onto
// interfaces.BuildOptions.
type BuildIndexCommand struct {
	// RootDocument is the slug of the index page the walk starts from.
	RootDocument string `json:"root_document"`
	// MaxDepth caps recursion into nested index documents. Zero means unlimited.
	MaxDepth int `json:"max_depth,omitempty"`
	// Strict promotes validation issues to hard build errors.
	Strict bool `json:"strict,omitempty"`
}

// Type implements command.Message.
func (BuildIndexCommand) Type() string { return buildIndexMessageType }

// Validate ensures the root reference is present before handlers execute.
func (cmd BuildIndexCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.RootDocument, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("docindex.index.build.root_required", "root document is required")
			}
			return nil
		})),
		validation.Field(&cmd.MaxDepth, validation.Min(0)),
	)
}

// ValidateIndexCommand runs a structural check over the navigation tree
// without persisting anything. Issues are reported, never fatal.
type ValidateIndexCommand struct {
	// RootDocument is the slug of the index page the walk starts from.
	RootDocument string `json:"root_document"`
	// MaxDepth caps recursion into nested index documents. Zero means unlimited.
	MaxDepth int `json:"max_depth,omitempty"`
}

// Type implements command.Message.
func (ValidateIndexCommand) Type() string { return validateIndexMessageType }

// Validate ensures the root reference is present before handlers execute.
func (cmd ValidateIndexCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.RootDocument, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("docindex.index.validate.root_required", "root document is required")
			}
			return nil
		})),
		validation.Field(&cmd.MaxDepth, validation.Min(0)),
	)
}

// SyncIndexCommand builds the navigation tree and reconciles it against the
// persisted index, applying deletion or preview flags consistent with
// interfaces.SyncOptions.
type SyncIndexCommand struct {
	// RootDocument is the slug of the index page the walk starts from.
	RootDocument string `json:"root_document"`
	// MaxDepth caps recursion into nested index documents. Zero means unlimited.
	MaxDepth int `json:"max_depth,omitempty"`
	// Strict promotes validation issues to hard build errors.
	Strict bool `json:"strict,omitempty"`
	// DryRun collects the reconciliation diff without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// DeleteOrphaned removes persisted entries whose source document is gone.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncIndexCommand) Type() string { return syncIndexMessageType }

// Validate ensures the root reference is present before handlers execute.
func (cmd SyncIndexCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.RootDocument, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("docindex.index.sync.root_required", "root document is required")
			}
			return nil
		})),
		validation.Field(&cmd.MaxDepth, validation.Min(0)),
	)
}

package markdown

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-docindex/pkg/interfaces"
)

// DocumentTitle resolves the display title for a document following the
// precedence used across the index: explicit frontmatter title, first heading
// in the body, then the final slug segment.
func DocumentTitle(doc *interfaces.Document) string {
	if doc == nil {
		return ""
	}

	if title := strings.TrimSpace(doc.FrontMatter.Title); title != "" {
		return title
	}

	var heading string
	if IsNotebookPath(doc.FilePath) {
		heading, _ = notebookHeading(doc.Body)
	} else {
		heading = FirstHeading(doc.Body)
	}
	if heading != "" {
		return heading
	}

	return titleFromSlug(doc.Slug)
}

// FirstHeading walks the Markdown AST and returns the text of the first
// heading node, or an empty string when the body has none.
func FirstHeading(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	engine := goldmark.New()
	root := engine.Parser().Parse(text.NewReader(body))

	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			title = strings.TrimSpace(string(heading.Text(body)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

type notebookEnvelope struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

// notebookHeading extracts the first ATX heading from the first markdown cell
// of a Jupyter notebook. Notebook sources store cell text either as a string
// or as a list of line fragments.
func notebookHeading(source []byte) (string, error) {
	var nb notebookEnvelope
	if err := json.Unmarshal(source, &nb); err != nil {
		return "", fmt.Errorf("parse notebook: %w", err)
	}

	for _, cell := range nb.Cells {
		if cell.CellType != "markdown" {
			continue
		}
		text := cellText(cell.Source)
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "#") {
				return strings.TrimSpace(strings.TrimLeft(line, "#")), nil
			}
		}
	}
	return "", nil
}

func cellText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, "")
	}
	return ""
}

func titleFromSlug(docSlug string) string {
	base := path.Base(strings.TrimSuffix(docSlug, "/"))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}

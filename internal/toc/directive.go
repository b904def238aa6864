package toc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const directiveName = "toctree"

// ErrUnterminatedDirective indicates a directive fence was opened but never
// closed before the end of the document.
var ErrUnterminatedDirective = errors.New("toc: unterminated directive")

// Entry is a single topic reference inside a directive. Order among sibling
// entries is meaningful and preserved end to end.
type Entry struct {
	// Ref is the topic reference as written, e.g. "schroedinger_solver" or
	// "examples/energy_spectra". External URLs are carried verbatim.
	Ref string
	// Title overrides the resolved document title when the entry uses the
	// "Title <ref>" form.
	Title string
	// Line is the 1-based line number of the entry within the source body.
	Line int
}

// External reports whether the entry references a URL rather than a document.
func (e Entry) External() bool {
	return strings.HasPrefix(e.Ref, "http://") || strings.HasPrefix(e.Ref, "https://")
}

// Directive is one parsed toctree block: its options plus ordered entries.
type Directive struct {
	// Line is the 1-based line number of the opening fence.
	Line       int
	Caption    string
	MaxDepth   int
	Hidden     bool
	Numbered   bool
	Glob       bool
	TitlesOnly bool
	Entries    []Entry
}

// Duplicates returns entries whose Ref already appeared earlier in the same
// directive. The first occurrence is never reported.
func (d Directive) Duplicates() []Entry {
	seen := make(map[string]struct{}, len(d.Entries))
	var dupes []Entry
	for _, entry := range d.Entries {
		if _, ok := seen[entry.Ref]; ok {
			dupes = append(dupes, entry)
			continue
		}
		seen[entry.Ref] = struct{}{}
	}
	return dupes
}

// ParseError carries the source line of a malformed directive element.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toc: line %d: %s", e.Line, e.Message)
}

// Parse extracts every toctree directive from a Markdown body. Directives are
// fenced blocks whose info string is "{toctree}"; options are colon-prefixed
// lines at the top of the block, separated from entries by the first blank or
// non-option line. CRLF sources and byte order marks parse identically to
// plain LF input.
func Parse(source []byte) ([]Directive, error) {
	lines := splitLines(source)

	var directives []Directive
	for i := 0; i < len(lines); i++ {
		fence, ok := openingFence(lines[i])
		if !ok {
			continue
		}

		directive := Directive{Line: i + 1}
		body, next, err := collectBody(lines, i+1, fence)
		if err != nil {
			return nil, err
		}

		if err := parseBody(&directive, body, i+2); err != nil {
			return nil, err
		}

		directives = append(directives, directive)
		i = next
	}

	return directives, nil
}

type fenceInfo struct {
	marker string
	indent int
}

// openingFence matches ``` or ~~~ runs (length >= 3) whose info string names
// the toctree directive, tolerating up to three spaces of indentation.
func openingFence(line string) (fenceInfo, bool) {
	trimmed := strings.TrimLeft(line, " ")
	indent := len(line) - len(trimmed)
	if indent > 3 {
		return fenceInfo{}, false
	}

	marker := leadingRun(trimmed, '`')
	if marker == "" {
		marker = leadingRun(trimmed, '~')
	}
	if len(marker) < 3 {
		return fenceInfo{}, false
	}

	info := strings.TrimSpace(trimmed[len(marker):])
	if info != "{"+directiveName+"}" {
		return fenceInfo{}, false
	}
	return fenceInfo{marker: marker, indent: indent}, true
}

func leadingRun(s string, ch byte) string {
	i := 0
	for i < len(s) && s[i] == ch {
		i++
	}
	return s[:i]
}

func closesFence(line string, fence fenceInfo) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(fence.marker) {
		return false
	}
	run := leadingRun(trimmed, fence.marker[0])
	return run == trimmed && len(run) >= len(fence.marker)
}

func collectBody(lines []string, start int, fence fenceInfo) ([]string, int, error) {
	for i := start; i < len(lines); i++ {
		if closesFence(lines[i], fence) {
			return lines[start:i], i, nil
		}
	}
	return nil, 0, &ParseError{Line: start, Message: ErrUnterminatedDirective.Error()}
}

// parseBody splits the directive body into the option block and the entry
// list. firstLine is the 1-based source line of the first body line.
func parseBody(directive *Directive, body []string, firstLine int) error {
	inOptions := true
	for offset, raw := range body {
		line := strings.TrimSpace(raw)
		lineNo := firstLine + offset

		if inOptions {
			if line == "" {
				inOptions = false
				continue
			}
			if name, value, ok := splitOption(line); ok {
				if err := applyOption(directive, name, value, lineNo); err != nil {
					return err
				}
				continue
			}
			inOptions = false
		}

		if line == "" {
			continue
		}

		ref, title := splitEntry(line)
		if ref == "" {
			return &ParseError{Line: lineNo, Message: fmt.Sprintf("empty reference in entry %q", line)}
		}
		directive.Entries = append(directive.Entries, Entry{
			Ref:   ref,
			Title: title,
			Line:  lineNo,
		})
	}
	return nil
}

func splitOption(line string) (name, value string, ok bool) {
	if !strings.HasPrefix(line, ":") {
		return "", "", false
	}
	rest := line[1:]
	end := strings.Index(rest, ":")
	if end < 0 {
		return "", "", false
	}
	return strings.TrimSpace(rest[:end]), strings.TrimSpace(rest[end+1:]), true
}

func applyOption(directive *Directive, name, value string, line int) error {
	switch strings.ToLower(name) {
	case "caption":
		directive.Caption = value
	case "maxdepth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 0 {
			return &ParseError{Line: line, Message: fmt.Sprintf("invalid maxdepth %q", value)}
		}
		directive.MaxDepth = depth
	case "hidden":
		directive.Hidden = true
	case "numbered":
		directive.Numbered = true
	case "glob":
		directive.Glob = true
	case "titlesonly":
		directive.TitlesOnly = true
	default:
		return &ParseError{Line: line, Message: fmt.Sprintf("unknown option %q", name)}
	}
	return nil
}

// splitEntry recognises the "Title <ref>" form; anything else is a bare
// reference.
func splitEntry(line string) (ref, title string) {
	if strings.HasSuffix(line, ">") {
		if open := strings.LastIndex(line, "<"); open >= 0 {
			ref = strings.TrimSpace(line[open+1 : len(line)-1])
			title = strings.TrimSpace(line[:open])
			return ref, title
		}
	}
	return line, ""
}

func splitLines(source []byte) []string {
	text := string(source)
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Package markdown implements discovery and parsing for documentation
// sources: frontmatter extraction, Goldmark rendering, and title resolution
// for Markdown files and Jupyter notebooks referenced from index pages.
package markdown

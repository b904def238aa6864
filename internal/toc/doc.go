// Package toc parses table-of-contents directives out of documentation
// index pages. A directive is a fenced block listing ordered topic
// references, optionally preceded by colon-prefixed options that control how
// the navigation tree is assembled.
package toc

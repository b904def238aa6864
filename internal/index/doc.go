// Package index builds, validates, and persists the documentation
// navigation tree. The build walks from a configured root document,
// expanding every table-of-contents directive into ordered, resolved
// navigation nodes.
package index

// Package bookseed holds release metadata for the bookseed module.
package bookseed

// Version is the release version printed by "bookseed version".
const Version = "0.3.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/bookseed"

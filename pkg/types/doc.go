// Package types defines the configuration, entity types, and standard
// errors shared by the bookseed runner and CLI.
package types

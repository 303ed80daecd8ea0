//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// github.com/pressly/goose/v3/cmd/goose is pinned via the go.mod tool
// directive. go:generate directives additionally expect github.com/matryer/moq
// on PATH.

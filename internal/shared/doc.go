// Package shared provides common utilities and test helpers used across the
// codebase. It serves as a central location for functionality that doesn't
// belong to any specific pipeline stage.
//
// The testutil subpackage provides an in-memory slog handler so tests can
// assert on the log records a component emits without parsing JSON output.
//
// This package should only contain test utilities used by multiple packages
// and generic helpers with no domain-specific logic.
package shared

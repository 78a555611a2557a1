// Package shared holds helpers used by more than one package of the report
// service. The testutil subpackage provides a capturing slog handler and
// record fixtures for tests.
package shared

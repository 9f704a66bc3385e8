// Package shared holds helpers used across CNH Pulse packages that belong to
// no single layer.
//
// The testutil subpackage provides:
//
//	- Driver-count CSV fixtures written to temporary directories
//	- A buffered slog handler for asserting on log output
//
// Example usage:
//
//	func TestLoad(t *testing.T) {
//	    path := testutil.WriteDefaultDriverCSV(t)
//	    logger, logs := testutil.NewTestLogger(t)
//	    ...
//	}
package shared

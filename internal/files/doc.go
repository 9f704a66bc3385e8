// Package files provides file system access for the dashboard: locating the
// driver-count source, memoizing its parsed table, and writing exports.
//
// This package contains three components:
//
// Discovery: finds CSV files and resolves a configured source path, which may
// name a file or a directory holding dated exports.
//
// TableStore: caches parsed tables keyed by absolute path, modification time
// and size, so a source is parsed at most once per version. Concurrent
// requests for the same version share a single parse.
//
// Manager: writes output files atomically under a base directory.
//
// Example usage:
//
//	loader := dataprocessing.NewLoader(dataprocessing.LoadOptions{}, logger)
//	store := files.NewTableStore(loader, 30*time.Minute, logger)
//
//	table, err := store.Get(ctx, "data/condutores_habilitados.csv")
package files

// Package dataprocessing turns the Detran licensed-driver CSV into the
// aggregates the dashboard views need. It covers loading, per-row enrichment
// and per-view arithmetic over an immutable in-memory table.
//
// # Architecture
//
// The package is organized into these components:
//
// 1. Loader: reads the CSV into a Table, dropping implausible age bands
// 2. Classifier and Grouper: derive a profile and a category group per row
// 3. Age-band ordering: a fixed chronological enumeration of band labels
// 4. Aggregator: grouped sums, zero-filled pivots, rankings and guarded ratios
// 5. Weighted metric: count-weighted mean of band midpoints per group
//
// # Usage
//
// Loading and grouping:
//
//	loader := dataprocessing.NewLoader(dataprocessing.LoadOptions{Encoding: "iso-8859-1"}, logger)
//	table, err := loader.Load(ctx, "condutores.csv")
//	if err != nil {
//	    return err
//	}
//
//	heavy := table.Filter(dataprocessing.Heavy())
//	byGroup, err := dataprocessing.GroupSum(heavy, dataprocessing.DimCategoryGroup)
//
// Pivoting paid activity per band:
//
//	pivot, err := dataprocessing.Pivot(heavy,
//	    []dataprocessing.Dimension{dataprocessing.DimAgeBand},
//	    dataprocessing.DimPaidActivity, []string{"S", "N"})
//
// # Data Flow
//
//	CSV File → Loader → Table → Filter → GroupSum / Pivot / WeightedMean → View
//
// # Error Handling
//
// Load failures are *errors.DataLoadError values carrying the path, row and
// column. Age bands outside the enumeration produce *errors.UnknownBandError.
// Ratios and means never divide by zero: Share, SafeRatio and Percent return 0
// and WeightedMean leaves Mean nil.
//
// Tables are never modified after load, so they can be shared across
// concurrent requests.
package dataprocessing

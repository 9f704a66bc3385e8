// Package exporter writes the enriched driver-count table: every kept source
// row with its original cells plus the derived profile_label column.
//
// This package contains two writers:
//
// CSV: WriteEnrichedCSV streams the table through encoding/csv, optionally
// prefixed with a UTF-8 BOM for Excel. The output round-trips through the
// loader byte for byte.
//
// XLSX: WriteEnrichedXLSX writes the same rows to a single worksheet using
// excelize's stream writer.
//
// Example usage:
//
//	var buf bytes.Buffer
//	if err := exporter.WriteEnrichedCSV(&buf, table, exporter.CSVOptions{}); err != nil {
//	    return err
//	}
package exporter

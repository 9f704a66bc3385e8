package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/transform"

	"cnhpulse/internal/dataprocessing"
)

// utf8BOM helps Excel recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility; ignored for other encodings

	// Encoding of the output bytes. WriteEnrichedCSV defaults it to the
	// table's source encoding; elsewhere empty means UTF-8.
	Encoding string
}

// StreamWriter writes CSV records one at a time
type StreamWriter struct {
	writer  *csv.Writer
	encoder io.WriteCloser
}

// NewStreamWriter writes the optional BOM and the header, then returns a
// writer for the records
func NewStreamWriter(w io.Writer, headers []string, opts CSVOptions) (*StreamWriter, error) {
	enc, err := dataprocessing.SourceEncoding(opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("output encoding: %w", err)
	}

	if opts.BOMPrefix && enc == nil {
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	sw := &StreamWriter{}
	if enc != nil {
		sw.encoder = transform.NewWriter(w, enc.NewEncoder())
		w = sw.encoder
	}

	writer := csv.NewWriter(w)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	sw.writer = writer
	return sw, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes buffered records
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return err
	}
	if s.encoder != nil {
		return s.encoder.Close()
	}
	return nil
}

// EnrichedHeader is the source header followed by the derived profile column
func EnrichedHeader(t *dataprocessing.Table) []string {
	return append(t.Header(), dataprocessing.ColumnProfile)
}

// EnrichedRow is the raw source cells of row i followed by its profile label
func EnrichedRow(t *dataprocessing.Table, i int) []string {
	return append(t.RawRow(i), string(dataprocessing.ProfileOf(t.Record(i))))
}

// WriteEnrichedCSV writes every kept source row with its original cells plus
// the derived profile label, in the source encoding unless opts names another.
// Loading the output with the source's encoding and writing it again yields
// identical bytes.
func WriteEnrichedCSV(w io.Writer, t *dataprocessing.Table, opts CSVOptions) error {
	if opts.Encoding == "" {
		opts.Encoding = t.Encoding()
	}
	stream, err := NewStreamWriter(w, EnrichedHeader(t), opts)
	if err != nil {
		return err
	}

	for i := 0; i < t.Len(); i++ {
		if err := stream.WriteRecord(EnrichedRow(t, i)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}

	return stream.Close()
}

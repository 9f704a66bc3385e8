package services

import (
	"context"

	"cnhpulse/internal/dataprocessing"
	"cnhpulse/internal/exporter"
	"cnhpulse/pkg/contracts/domain"
)

// columnDictionary documents the columns the dashboard understands
var columnDictionary = []domain.ColumnDescription{
	{Column: dataprocessing.ColumnMunicipality, Description: "Municipality of residence of the licensed drivers"},
	{Column: dataprocessing.ColumnCategory, Description: "Licence category code (A, B, AB, C, D, E and combinations such as AE)"},
	{Column: dataprocessing.ColumnAgeBand, Description: "Age band, e.g. 18-21 ANOS; bands over 100 years except MAIOR DE 100 ANOS are dropped"},
	{Column: dataprocessing.ColumnPaidActivity, Description: "S when the drivers declare paid activity (EAR), N otherwise"},
	{Column: dataprocessing.ColumnCount, Description: "Number of drivers sharing the other attributes of the row"},
	{Column: dataprocessing.ColumnLatitude, Description: "Municipality latitude, when geocoded"},
	{Column: dataprocessing.ColumnLongitude, Description: "Municipality longitude, when geocoded"},
	{Column: dataprocessing.ColumnGender, Description: "Gender as published: FEMININO or MASCULINO"},
	{Column: dataprocessing.ColumnDisability, Description: "S when the drivers have a disability (PcD)"},
	{Column: dataprocessing.ColumnBlocked, Description: "S when the licence is blocked"},
	{Column: dataprocessing.ColumnProfile, Description: "Derived profile: Amateur, HeavyTraditional, GigApps or Other"},
}

// About documents the loaded dataset and previews its first rows. rows <= 0
// uses the configured preview size; larger requests are capped.
func (s *DashboardService) About(ctx context.Context, rows int) (*domain.AboutView, error) {
	var view *domain.AboutView
	err := s.observe(ctx, "about", func(ctx context.Context) error {
		t, err := s.table(ctx)
		if err != nil {
			return err
		}

		if rows <= 0 {
			rows = s.settings.PreviewRows
		}
		if s.settings.MaxPreviewRows > 0 && rows > s.settings.MaxPreviewRows {
			rows = s.settings.MaxPreviewRows
		}
		if rows > t.Len() {
			rows = t.Len()
		}

		header := exporter.EnrichedHeader(t)
		view = &domain.AboutView{
			Source:     t.Source(),
			LoadedAt:   t.LoadedAt(),
			Rows:       t.Len(),
			Dictionary: dictionaryFor(header),
			Header:     header,
			Preview:    make([][]string, 0, rows),
		}
		for i := 0; i < rows; i++ {
			view.Preview = append(view.Preview, exporter.EnrichedRow(t, i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// dictionaryFor keeps the descriptions of the columns present in header
func dictionaryFor(header []string) []domain.ColumnDescription {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var out []domain.ColumnDescription
	for _, d := range columnDictionary {
		if present[d.Column] {
			out = append(out, d)
		}
	}
	return out
}

package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"cnhpulse/internal/charts"
	"cnhpulse/pkg/contracts/domain"
)

// Chart names
const (
	ChartAgeWall       = "age-wall"
	ChartEARConversion = "ear-conversion"
	ChartYouthChoice   = "youth-choice"
)

type chartBuilder func(s *DashboardService, ctx context.Context) (charts.BarChart, error)

var chartBuilders = map[string]chartBuilder{
	ChartAgeWall:       (*DashboardService).ageWallChart,
	ChartEARConversion: (*DashboardService).conversionChart,
	ChartYouthChoice:   (*DashboardService).youthChoiceChart,
}

// ChartNames lists the available charts
func ChartNames() []string {
	names := make([]string, 0, len(chartBuilders))
	for name := range chartBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chart renders the named chart as a PNG image
func (s *DashboardService) Chart(ctx context.Context, name string, w io.Writer) error {
	build, ok := chartBuilders[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}

	chart, err := build(s, ctx)
	if err != nil {
		return err
	}
	return s.observe(ctx, "chart_"+name, func(ctx context.Context) error {
		return charts.WritePNG(w, chart, charts.DefaultWidth, charts.DefaultHeight)
	})
}

func (s *DashboardService) ageWallChart(ctx context.Context) (charts.BarChart, error) {
	view, err := s.Demographics(ctx)
	if err != nil {
		return charts.BarChart{}, err
	}
	return paidSplitChart("Heavy drivers by age band", view.AgeWall), nil
}

func (s *DashboardService) conversionChart(ctx context.Context) (charts.BarChart, error) {
	view, err := s.Blackout(ctx, nil)
	if err != nil {
		return charts.BarChart{}, err
	}
	chart := charts.BarChart{
		Title:  "Paid-activity conversion by age band",
		XLabel: "Age band",
		YLabel: "% of heavy drivers",
		Series: []charts.Series{{Label: "Paid (EAR) %"}},
	}
	for _, p := range view.Conversion {
		chart.Categories = append(chart.Categories, shortBand(p.Label))
		chart.Series[0].Values = append(chart.Series[0].Values, p.PaidPercent)
	}
	return chart, nil
}

func (s *DashboardService) youthChoiceChart(ctx context.Context) (charts.BarChart, error) {
	view, err := s.Demographics(ctx)
	if err != nil {
		return charts.BarChart{}, err
	}
	chart := charts.BarChart{
		Title:  "Paid drivers: light versus heavy categories",
		XLabel: "Age band",
		YLabel: "Drivers",
		Series: []charts.Series{
			{Label: string(domain.VehicleClassLight)},
			{Label: string(domain.VehicleClassHeavy)},
		},
	}
	for _, b := range view.YouthChoice.Bands {
		chart.Categories = append(chart.Categories, shortBand(b.AgeBand))
		chart.Series[0].Values = append(chart.Series[0].Values, float64(b.Light))
		chart.Series[1].Values = append(chart.Series[1].Values, float64(b.Heavy))
	}
	return chart, nil
}

// paidSplitChart plots paid and non-paid drivers side by side per band
func paidSplitChart(title string, splits []domain.PaidSplit) charts.BarChart {
	chart := charts.BarChart{
		Title:  title,
		XLabel: "Age band",
		YLabel: "Drivers",
		Series: []charts.Series{
			{Label: domain.PaidActivityYes.Label()},
			{Label: domain.PaidActivityNo.Label()},
		},
	}
	for _, p := range splits {
		chart.Categories = append(chart.Categories, shortBand(p.Label))
		chart.Series[0].Values = append(chart.Series[0].Values, float64(p.Paid))
		chart.Series[1].Values = append(chart.Series[1].Values, float64(p.NotPaid))
	}
	return chart
}

// shortBand drops the " ANOS" suffix for axis labels
func shortBand(label string) string {
	return strings.TrimSuffix(label, " ANOS")
}

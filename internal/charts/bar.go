package charts

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "cnhpulse/internal/errors"
)

// Default image size
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// Series is one set of bars, aligned with the chart categories
type Series struct {
	Label  string
	Values []float64
}

// BarChart describes a grouped bar chart
type BarChart struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []Series
}

// Validate checks that every series has one value per category
func (c BarChart) Validate() error {
	if len(c.Categories) == 0 {
		return &apperrors.EmptyGroupError{Selection: "chart " + c.Title}
	}
	if len(c.Series) == 0 {
		return apperrors.NewAppValidationError("chart has no series")
	}
	for _, s := range c.Series {
		if len(s.Values) != len(c.Categories) {
			return apperrors.NewAppValidationError(
				fmt.Sprintf("series %q has %d values for %d categories", s.Label, len(s.Values), len(c.Categories)))
		}
	}
	return nil
}

// Plot builds the gonum plot for the chart
func (c BarChart) Plot() (*plot.Plot, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Y.Min = 0

	barWidth := vg.Points(40 / float64(len(c.Series)))
	n := float64(len(c.Series))
	for i, s := range c.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), barWidth)
		if err != nil {
			return nil, fmt.Errorf("failed to build series %q: %w", s.Label, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-(n-1)/2) * barWidth

		p.Add(bars)
		p.Legend.Add(s.Label, bars)
	}

	p.Legend.Top = true
	p.NominalX(c.Categories...)
	p.X.Tick.Label.XAlign = draw.XCenter
	p.Add(plotter.NewGrid())

	return p, nil
}

// WritePNG renders the chart as a PNG image
func WritePNG(w io.Writer, c BarChart, width, height vg.Length) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"cnhpulse/internal/dataprocessing"
	apperrors "cnhpulse/internal/errors"
	"cnhpulse/pkg/contracts/domain"
)

// Replacement-index severities
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityHealthy  = "healthy"
)

// City risk statuses by weighted mean age
const (
	RiskCritical  = "critical"
	RiskAttention = "attention"
	RiskStable    = "stable"
	RiskUndefined = "undefined"
)

// Blackout computes the workforce-replacement view. cities, when given,
// replaces the default top-N city ranking; names match ignoring accents.
func (s *DashboardService) Blackout(ctx context.Context, cities []string) (*domain.BlackoutView, error) {
	var view *domain.BlackoutView
	err := s.observe(ctx, "blackout", func(ctx context.Context) error {
		heavy, err := s.heavyTable(ctx)
		if err != nil {
			return err
		}

		newEntrants := heavy.SumWhere(dataprocessing.NewEntrants())
		veterans := heavy.SumWhere(dataprocessing.Veterans())
		index := dataprocessing.SafeRatio(newEntrants, veterans)

		view = &domain.BlackoutView{
			Status:           domain.ViewStatusOK,
			NewEntrants:      newEntrants,
			Veterans:         veterans,
			ReplacementIndex: index,
			Severity:         replacementSeverity(index),
			GenerationalGap:  generationalGap(heavy),
		}

		conversion, err := dataprocessing.Pivot(heavy,
			[]dataprocessing.Dimension{dataprocessing.DimAgeBand},
			dataprocessing.DimPaidActivity, paidColumns)
		if err != nil {
			return err
		}
		view.Conversion = paidSplits(conversion)

		ranking, err := dataprocessing.WeightedMean(heavy, s.settings.Midpoints, dataprocessing.DimMunicipality)
		if err != nil {
			return err
		}
		risks := rankCities(ranking)

		if view.CityRisk, err = s.selectCities(risks, cities); err != nil {
			return err
		}
		view.RiskMap = s.riskMap(heavy, risks)
		return nil
	}, attribute.StringSlice("cities", cities))
	if err != nil {
		return nil, err
	}
	return view, nil
}

func replacementSeverity(index float64) string {
	switch {
	case index < 0.5:
		return SeverityCritical
	case index < 1:
		return SeverityWarning
	default:
		return SeverityHealthy
	}
}

func riskStatus(meanAge *float64) string {
	switch {
	case meanAge == nil:
		return RiskUndefined
	case *meanAge > 50:
		return RiskCritical
	case *meanAge > 45:
		return RiskAttention
	default:
		return RiskStable
	}
}

// generationalGap compares veterans and new entrants per heavy group, sorted
// by veterans ascending
func generationalGap(heavy *dataprocessing.Table) []domain.GenerationalGap {
	out := make([]domain.GenerationalGap, 0, len(domain.HeavyGroups))
	for _, g := range domain.HeavyGroups {
		group := dataprocessing.GroupIs(g)
		out = append(out, domain.GenerationalGap{
			Group:       g,
			Veterans:    heavy.SumWhere(dataprocessing.And(group, dataprocessing.Veterans())),
			NewEntrants: heavy.SumWhere(dataprocessing.And(group, dataprocessing.NewEntrants())),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Veterans < out[j].Veterans })
	return out
}

// rankCities orders municipalities by weighted mean age, oldest first.
// Municipalities without drivers rank last.
func rankCities(values []dataprocessing.WeightedValue) []domain.CityRisk {
	sorted := append([]dataprocessing.WeightedValue(nil), values...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Mean, sorted[j].Mean
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})

	out := make([]domain.CityRisk, len(sorted))
	for i, v := range sorted {
		out[i] = domain.CityRisk{
			Rank:         i + 1,
			Municipality: v.Key(),
			Drivers:      v.Count,
			MeanAge:      v.Mean,
			Status:       riskStatus(v.Mean),
		}
	}
	return out
}

// selectCities keeps the requested cities in ranking order, or the top N
func (s *DashboardService) selectCities(risks []domain.CityRisk, cities []string) ([]domain.CityRisk, error) {
	if len(cities) == 0 {
		if len(risks) > s.settings.CityRiskTopN {
			return risks[:s.settings.CityRiskTopN], nil
		}
		return risks, nil
	}

	wanted := make(map[string]bool, len(cities))
	for _, c := range cities {
		wanted[dataprocessing.FoldAccents(strings.TrimSpace(c))] = true
	}

	var out []domain.CityRisk
	for _, r := range risks {
		if wanted[dataprocessing.FoldAccents(r.Municipality)] {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, &apperrors.EmptyGroupError{Selection: "cities=" + strings.Join(cities, ",")}
	}
	return out, nil
}

// riskMap places every municipality above the map threshold
func (s *DashboardService) riskMap(heavy *dataprocessing.Table, risks []domain.CityRisk) []domain.MapPoint {
	coords := heavy.Coordinates()
	var points []domain.MapPoint
	for _, r := range risks {
		if r.Drivers <= s.settings.MapMinDrivers {
			continue
		}
		p, ok := mapPoint(coords, r.Municipality, r.Drivers)
		if !ok {
			continue
		}
		p.MeanAge = r.MeanAge
		p.Tier = r.Status
		points = append(points, p)
	}
	return points
}

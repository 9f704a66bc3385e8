package services

import (
	"context"
	"sort"

	"cnhpulse/internal/dataprocessing"
	"cnhpulse/pkg/contracts/domain"
)

// Ageing-map tiers by share of drivers over 60
const (
	TierRed    = "red"
	TierYellow = "yellow"
	TierGreen  = "green"
)

// Demographics computes the workforce-ageing section
func (s *DashboardService) Demographics(ctx context.Context) (*domain.DemographicsView, error) {
	var view *domain.DemographicsView
	err := s.observe(ctx, "demographics", func(ctx context.Context) error {
		t, err := s.table(ctx)
		if err != nil {
			return err
		}
		heavy, err := heavyOf(t)
		if err != nil {
			return err
		}

		professionals := heavy.Filter(dataprocessing.Paid())
		total := professionals.Sum()
		seniors := professionals.SumWhere(dataprocessing.RetirementAge())
		young := professionals.SumWhere(dataprocessing.NewEntrants())

		view = &domain.DemographicsView{
			Status:                domain.ViewStatusOK,
			HeavyProfessionals:    total,
			Seniors:               seniors,
			RetirementRiskPercent: dataprocessing.Percent(seniors, total),
			Young:                 young,
			RenewalPercent:        dataprocessing.Percent(young, total),
		}

		wall, err := dataprocessing.Pivot(heavy,
			[]dataprocessing.Dimension{dataprocessing.DimAgeBand},
			dataprocessing.DimPaidActivity, paidColumns)
		if err != nil {
			return err
		}
		view.AgeWall = paidSplits(wall)

		if view.YouthChoice, err = youthChoice(t.Filter(dataprocessing.Paid())); err != nil {
			return err
		}

		view.AgeingMap, err = s.ageingMap(heavy)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// youthChoice compares light and heavy categories among paid drivers per band
func youthChoice(paid *dataprocessing.Table) (domain.YouthChoice, error) {
	light, heavyClass := string(domain.VehicleClassLight), string(domain.VehicleClassHeavy)
	pivot, err := dataprocessing.Pivot(paid,
		[]dataprocessing.Dimension{dataprocessing.DimAgeBand},
		dataprocessing.DimVehicleClass, []string{light, heavyClass})
	if err != nil {
		return domain.YouthChoice{}, err
	}

	var choice domain.YouthChoice
	var lightPeak, heavyPeak int64
	for i, row := range pivot.Rows {
		split := domain.ClassBandSplit{
			AgeBand: row.Key(),
			Light:   pivot.Cell(i, light),
			Heavy:   pivot.Cell(i, heavyClass),
		}
		if split.Light > lightPeak {
			lightPeak, choice.LightPeak = split.Light, split.AgeBand
		}
		if split.Heavy > heavyPeak {
			heavyPeak, choice.HeavyPeak = split.Heavy, split.AgeBand
		}
		choice.Bands = append(choice.Bands, split)
	}
	return choice, nil
}

// ageingMap shows the share of heavy drivers over 60 per municipality
func (s *DashboardService) ageingMap(heavy *dataprocessing.Table) ([]domain.MapPoint, error) {
	totals, err := dataprocessing.GroupSum(heavy, dataprocessing.DimMunicipality)
	if err != nil {
		return nil, err
	}
	seniors, err := dataprocessing.SumBy(heavy.Filter(dataprocessing.SixtyPlus()), dataprocessing.DimMunicipality)
	if err != nil {
		return nil, err
	}

	coords := heavy.Coordinates()
	var points []domain.MapPoint
	for _, m := range totals {
		if m.Count <= s.settings.MapMinDrivers {
			continue
		}
		p, ok := mapPoint(coords, m.Key(), m.Count)
		if !ok {
			continue
		}
		p.Seniors = seniors[m.Key()]
		p.Percent = dataprocessing.Percent(p.Seniors, p.Count)
		p.Tier = ageingTier(p.Percent)
		points = append(points, p)
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Percent > points[j].Percent })
	return points, nil
}

func ageingTier(percent float64) string {
	switch {
	case percent > 20:
		return TierRed
	case percent > 10:
		return TierYellow
	default:
		return TierGreen
	}
}

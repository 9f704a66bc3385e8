package services

import (
	"context"

	"cnhpulse/internal/dataprocessing"
	apperrors "cnhpulse/internal/errors"
	"cnhpulse/pkg/contracts/domain"
)

// profileOrder is the display order of the occupational profiles
var profileOrder = []domain.Profile{
	domain.ProfileAmateur,
	domain.ProfileHeavyTraditional,
	domain.ProfileGigApps,
	domain.ProfileOther,
}

// Overview computes the headline totals of the dataset
func (s *DashboardService) Overview(ctx context.Context) (*domain.OverviewView, error) {
	var view *domain.OverviewView
	err := s.observe(ctx, "overview", func(ctx context.Context) error {
		t, err := s.table(ctx)
		if err != nil {
			return err
		}
		if t.Empty() {
			return &apperrors.EmptyGroupError{Selection: "dataset"}
		}

		total := t.Sum()
		heavy := t.Filter(dataprocessing.Heavy())
		heavyTotal := heavy.Sum()
		paid := t.SumWhere(dataprocessing.Paid())

		view = &domain.OverviewView{
			Status:           domain.ViewStatusOK,
			TotalDrivers:     total,
			PaidDrivers:      paid,
			PaidPercent:      dataprocessing.Percent(paid, total),
			HeavyDrivers:     heavyTotal,
			HeavyPercent:     dataprocessing.Percent(heavyTotal, total),
			HeavyPaidDrivers: heavy.SumWhere(dataprocessing.Paid()),
			Municipalities:   len(t.Municipalities()),
		}

		bands, err := dataprocessing.GroupSum(heavy, dataprocessing.DimAgeBand)
		if err != nil {
			return err
		}
		if top := dataprocessing.TopN(bands, 1); len(top) == 1 && top[0].Count > 0 {
			dominant := labeled(top, heavyTotal)[0]
			view.DominantHeavyBand = &dominant
		}

		profiles, err := dataprocessing.SumBy(t, dataprocessing.DimProfile)
		if err != nil {
			return err
		}
		view.Profiles = make([]domain.LabeledCount, 0, len(profileOrder))
		for _, p := range profileOrder {
			view.Profiles = append(view.Profiles, domain.LabeledCount{
				Label:   string(p),
				Count:   profiles[string(p)],
				Percent: dataprocessing.Percent(profiles[string(p)], total),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

package services

import (
	"context"

	"cnhpulse/internal/dataprocessing"
	"cnhpulse/pkg/contracts/domain"
)

// Diversity computes the gender-gap view over heavy categories
func (s *DashboardService) Diversity(ctx context.Context) (*domain.DiversityView, error) {
	var view *domain.DiversityView
	err := s.observe(ctx, "diversity", func(ctx context.Context) error {
		heavy, err := s.heavyTable(ctx)
		if err != nil {
			return err
		}

		female := dataprocessing.GenderIs(domain.GenderFemale)
		reserve := heavy.Filter(dataprocessing.And(female, dataprocessing.NotPaid()))

		view = &domain.DiversityView{
			Status:        domain.ViewStatusOK,
			FemaleTotal:   heavy.SumWhere(female),
			FemaleReserve: reserve.Sum(),
		}

		activation, err := dataprocessing.Pivot(heavy,
			[]dataprocessing.Dimension{dataprocessing.DimGender},
			dataprocessing.DimPaidActivity, paidColumns)
		if err != nil {
			return err
		}
		rates := make(map[string]float64)
		for _, split := range paidSplits(activation) {
			view.Activation = append(view.Activation, domain.GenderActivation{
				Gender:         split.Label,
				Paid:           split.Paid,
				NotPaid:        split.NotPaid,
				Total:          split.Total,
				ActivationRate: split.PaidPercent,
			})
			rates[split.Label] = split.PaidPercent
		}
		view.ActivationGap = rates[domain.GenderMale] - rates[domain.GenderFemale]

		byCity, err := dataprocessing.GroupSum(reserve, dataprocessing.DimMunicipality)
		if err != nil {
			return err
		}
		coords := reserve.Coordinates()
		for _, m := range byCity {
			if p, ok := mapPoint(coords, m.Key(), m.Count); ok {
				view.ReserveMap = append(view.ReserveMap, p)
			}
		}
		view.ReserveTop = labeled(dataprocessing.TopN(byCity, s.settings.ReserveTopN), view.FemaleReserve)

		women, err := dataprocessing.Pivot(heavy.Filter(female),
			[]dataprocessing.Dimension{dataprocessing.DimCategoryGroup},
			dataprocessing.DimPaidActivity, paidColumns)
		if err != nil {
			return err
		}
		view.WomenByGroup = groupSplits(women)

		groupC := reserve.Filter(dataprocessing.GroupIs(domain.CategoryGroupC))
		bands, err := dataprocessing.GroupSum(groupC, dataprocessing.DimAgeBand)
		if err != nil {
			return err
		}
		view.GroupCReserveAge = labeled(bands, groupC.Sum())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

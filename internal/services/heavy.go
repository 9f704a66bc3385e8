package services

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"

	"cnhpulse/internal/dataprocessing"
	apperrors "cnhpulse/internal/errors"
	"cnhpulse/pkg/contracts/domain"
)

// DefaultRankingLimit is the number of municipalities listed per group
const DefaultRankingLimit = 20

// HeavyQuery filters the heavy-vehicle panel
type HeavyQuery struct {
	// AgeBand restricts the distribution and paid pivot. Empty means all bands.
	AgeBand string
	// Search keeps municipalities whose name contains the term, ignoring accents
	Search string
	// Limit caps each group ranking; 0 means DefaultRankingLimit
	Limit int
}

// HeavyPanel computes the heavy-vehicle (C/D/E) panel
func (s *DashboardService) HeavyPanel(ctx context.Context, q HeavyQuery) (*domain.HeavyPanelView, error) {
	var view *domain.HeavyPanelView
	err := s.observe(ctx, "heavy", func(ctx context.Context) error {
		heavy, err := s.heavyTable(ctx)
		if err != nil {
			return err
		}

		total := heavy.Sum()
		women := heavy.SumWhere(dataprocessing.GenderIs(domain.GenderFemale))
		view = &domain.HeavyPanelView{
			Status:            domain.ViewStatusOK,
			Professionals:     heavy.SumWhere(dataprocessing.Paid()),
			GroupETotal:       heavy.SumWhere(dataprocessing.GroupIs(domain.CategoryGroupE)),
			WomenHeavy:        women,
			WomenHeavyPercent: dataprocessing.Percent(women, total),
		}

		scope := heavy
		if q.AgeBand != "" {
			band, err := dataprocessing.CanonicalBand(q.AgeBand)
			if err != nil {
				return err
			}
			set, err := dataprocessing.NewBandSet(band)
			if err != nil {
				return err
			}
			scope = heavy.Filter(dataprocessing.BandIn(set))
			if scope.Empty() {
				return &apperrors.EmptyGroupError{Selection: "age_band=" + band}
			}
			view.AgeBand = band
		}

		if view.Distribution, err = groupDistribution(scope); err != nil {
			return err
		}

		pivot, err := dataprocessing.Pivot(scope,
			[]dataprocessing.Dimension{dataprocessing.DimCategoryGroup},
			dataprocessing.DimPaidActivity, paidColumns)
		if err != nil {
			return err
		}
		view.PaidByGroup = groupSplits(pivot)

		if view.Rankings, err = groupRankings(heavy, q.Search, q.Limit); err != nil {
			return err
		}

		view.Heatmap, err = heatmap(heavy.Filter(dataprocessing.Paid()))
		return err
	}, attribute.String("age_band", q.AgeBand), attribute.String("search", q.Search))
	if err != nil {
		return nil, err
	}
	return view, nil
}

// groupDistribution counts drivers per heavy group in display order
func groupDistribution(t *dataprocessing.Table) ([]domain.LabeledCount, error) {
	byGroup, err := dataprocessing.SumBy(t, dataprocessing.DimCategoryGroup)
	if err != nil {
		return nil, err
	}

	total := t.Sum()
	out := make([]domain.LabeledCount, 0, len(domain.HeavyGroups))
	for _, g := range domain.HeavyGroups {
		out = append(out, domain.LabeledCount{
			Label:   string(g),
			Count:   byGroup[string(g)],
			Percent: dataprocessing.Percent(byGroup[string(g)], total),
		})
	}
	return out, nil
}

// groupRankings ranks municipalities by driver count within each heavy group
func groupRankings(heavy *dataprocessing.Table, search string, limit int) ([]domain.GroupRanking, error) {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	out := make([]domain.GroupRanking, 0, len(domain.HeavyGroups))
	for _, g := range domain.HeavyGroups {
		group := heavy.Filter(dataprocessing.GroupIs(g))
		totals, err := dataprocessing.GroupSum(group, dataprocessing.DimMunicipality)
		if err != nil {
			return nil, err
		}

		var matches []dataprocessing.GroupTotal
		for _, m := range dataprocessing.SortByCount(totals) {
			if dataprocessing.MatchesSearch(m.Key(), search) {
				matches = append(matches, m)
			}
		}

		ranking := domain.GroupRanking{Group: g, Matches: len(matches)}
		if len(matches) > limit {
			matches = matches[:limit]
		}
		ranking.Municipalities = labeled(matches, group.Sum())
		out = append(out, ranking)
	}
	return out, nil
}

// heatmap weights each municipality by log1p(count) relative to the largest
func heatmap(t *dataprocessing.Table) ([]domain.MapPoint, error) {
	totals, err := dataprocessing.GroupSum(t, dataprocessing.DimMunicipality)
	if err != nil {
		return nil, err
	}

	coords := t.Coordinates()
	points := make([]domain.MapPoint, 0, len(totals))
	var maxWeight float64
	for _, m := range totals {
		p, ok := mapPoint(coords, m.Key(), m.Count)
		if !ok || m.Count <= 0 {
			continue
		}
		p.Weight = math.Log1p(float64(m.Count))
		maxWeight = math.Max(maxWeight, p.Weight)
		points = append(points, p)
	}

	if maxWeight > 0 {
		for i := range points {
			points[i].Weight /= maxWeight
		}
	}
	return points, nil
}

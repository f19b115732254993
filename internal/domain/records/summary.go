package records

import (
	"slices"
	"time"
)

const recentTreatmentsLimit = 5

const monthLayout = "2006-01"

// Summary son las cifras del dashboard.
type Summary struct {
	TotalAnimals    int
	TotalTreatments int
	TotalFeeding    int
	TotalBreeding   int

	TreatmentsThisMonth int
	TreatmentCostTotal  float64
	FeedingToday        int
	FeedAmountToday     float64

	// Animales con status distinto de "healthy".
	AnimalsNeedingAttention int
	AnimalsByStatus         map[string]int
	AnimalsByType           map[string]int

	RecentTreatments []Treatment
}

// Summary calcula el dashboard respecto de now. Mes y día de cada registro
// son los de su fecha tal como se capturó, igual que el filtro por mes.
func (s *Store) Summary(now time.Time) Summary {
	st := s.snapshot()

	out := Summary{
		TotalAnimals:    len(st.animals),
		TotalTreatments: len(st.treatments),
		TotalFeeding:    len(st.feeding),
		TotalBreeding:   len(st.breeding),
		AnimalsByStatus: map[string]int{},
		AnimalsByType:   map[string]int{},
	}

	for _, a := range st.animals {
		status := a.Status
		if status == "" {
			status = StatusHealthy
		}
		out.AnimalsByStatus[status]++
		out.AnimalsByType[a.Type]++
		if status != StatusHealthy {
			out.AnimalsNeedingAttention++
		}
	}

	thisMonth := TreatmentFilter{Month: now.Format(monthLayout)}
	today := now.Format(DateLayout)
	for _, t := range st.treatments {
		if t.Cost != nil {
			out.TreatmentCostTotal += *t.Cost
		}
		if thisMonth.Match(t) {
			out.TreatmentsThisMonth++
		}
	}
	for _, f := range st.feeding {
		if f.Time.Format(DateLayout) == today {
			out.FeedingToday++
			out.FeedAmountToday += f.Amount
		}
	}

	recent := slices.Clone(st.treatments)
	slices.SortStableFunc(recent, func(a, b Treatment) int { return b.Date.Compare(a.Date) })
	if len(recent) > recentTreatmentsLimit {
		recent = recent[:recentTreatmentsLimit]
	}
	out.RecentTreatments = recent

	return out
}

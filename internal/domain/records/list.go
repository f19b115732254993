package records

import (
	"iter"
	"slices"
	"strings"
)

// TreatmentFilter: los campos vacíos no filtran.
type TreatmentFilter struct {
	Type     string
	AnimalID string
	// Month es un prefijo de Date en DateTimeLayout ("2025-01", "2025-01-15").
	Month string
}

func (f TreatmentFilter) Match(t Treatment) bool {
	if v := strings.TrimSpace(f.Type); v != "" && t.Type != v {
		return false
	}
	if v := strings.TrimSpace(f.AnimalID); v != "" && t.AnimalID != v {
		return false
	}
	if v := strings.TrimSpace(f.Month); v != "" && !strings.HasPrefix(t.Date.Format(DateTimeLayout), v) {
		return false
	}
	return true
}

// ListTreatments devuelve los tratamientos que cumplen f, del más reciente al
// más antiguo (empates en orden de inserción). Cada range vuelve a leer el
// estado actual; no se retiene cursor.
func (s *Store) ListTreatments(f TreatmentFilter) iter.Seq[Treatment] {
	return func(yield func(Treatment) bool) {
		items := s.snapshot().treatments

		matched := make([]Treatment, 0, len(items))
		for _, t := range items {
			if f.Match(t) {
				matched = append(matched, t)
			}
		}
		slices.SortStableFunc(matched, func(a, b Treatment) int {
			return b.Date.Compare(a.Date)
		})

		for _, t := range matched {
			if !yield(t) {
				return
			}
		}
	}
}

// ListAnimals, ListFeeding y ListBreeding devuelven la colección completa en
// orden de inserción.

func (s *Store) ListAnimals() iter.Seq[Animal] {
	return func(yield func(Animal) bool) {
		for _, a := range s.snapshot().animals {
			if !yield(a) {
				return
			}
		}
	}
}

func (s *Store) ListFeeding() iter.Seq[Feeding] {
	return func(yield func(Feeding) bool) {
		for _, f := range s.snapshot().feeding {
			if !yield(f) {
				return
			}
		}
	}
}

func (s *Store) ListBreeding() iter.Seq[Breeding] {
	return func(yield func(Breeding) bool) {
		for _, b := range s.snapshot().breeding {
			if !yield(b) {
				return
			}
		}
	}
}

package records

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"livestock-records/internal/platform/logger"
)

// Snapshot es el estado completo, con las mismas keys que el layout
// persistido. Lo usan export/import (backup y restore).
type Snapshot struct {
	Animals    []Animal    `json:"livestock_animals"`
	Treatments []Treatment `json:"livestock_treatments"`
	Feeding    []Feeding   `json:"livestock_feeding"`
	Breeding   []Breeding  `json:"livestock_breeding"`
}

func (s *Store) Export() Snapshot {
	st := s.snapshot()
	return Snapshot{
		Animals:    slices.Clone(st.animals),
		Treatments: slices.Clone(st.treatments),
		Feeding:    slices.Clone(st.feeding),
		Breeding:   slices.Clone(st.breeding),
	}
}

// Import reemplaza las cuatro colecciones por snap y persiste todo junto.
// Cada registro pasa por las mismas reglas que su Create; además rechaza ids
// vacíos o duplicados y referencias a animales que no están en snap.
func (s *Store) Import(ctx context.Context, snap Snapshot) (err error) {
	defer s.observe(ctx, "import", time.Now(), &err)

	if err = snap.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.st
	s.st = state{
		animals:    slices.Clone(snap.Animals),
		treatments: slices.Clone(snap.Treatments),
		feeding:    slices.Clone(snap.Feeding),
		breeding:   slices.Clone(snap.Breeding),
	}
	if err = s.commit(ctx, prev, Collections...); err != nil {
		return err
	}

	s.log.Info("records imported", logger.Fields{
		"animals":    len(snap.Animals),
		"treatments": len(snap.Treatments),
		"feeding":    len(snap.Feeding),
		"breeding":   len(snap.Breeding),
	})
	return nil
}

func (snap Snapshot) validate() error {
	animals := make(map[string]struct{}, len(snap.Animals))
	for i, a := range snap.Animals {
		if err := uniqueID(animals, CollectionAnimals, i, a.ID); err != nil {
			return err
		}
		if _, err := (AnimalInput{Name: a.Name, Type: a.Type, Weight: a.Weight}).normalize(); err != nil {
			return at(CollectionAnimals, i, err)
		}
	}

	ref := func(c Collection, i int, field, id string) error {
		if _, ok := animals[id]; !ok {
			return invalid(fmt.Sprintf("%s[%d].%s", c.Key(), i, field), fmt.Sprintf("animal %q does not exist", id))
		}
		return nil
	}

	seen := map[string]struct{}{}
	for i, t := range snap.Treatments {
		if err := uniqueID(seen, CollectionTreatments, i, t.ID); err != nil {
			return err
		}
		if _, err := (TreatmentInput{AnimalID: t.AnimalID, Type: t.Type, Name: t.Name, Date: t.Date, Cost: t.Cost}).normalize(); err != nil {
			return at(CollectionTreatments, i, err)
		}
		if err := ref(CollectionTreatments, i, "animalId", t.AnimalID); err != nil {
			return err
		}
	}

	seen = map[string]struct{}{}
	for i, f := range snap.Feeding {
		if err := uniqueID(seen, CollectionFeeding, i, f.ID); err != nil {
			return err
		}
		if _, err := (FeedingInput{AnimalID: f.AnimalID, FeedType: f.FeedType, Amount: f.Amount, Time: f.Time}).normalize(); err != nil {
			return at(CollectionFeeding, i, err)
		}
		if err := ref(CollectionFeeding, i, "animalId", f.AnimalID); err != nil {
			return err
		}
	}

	seen = map[string]struct{}{}
	for i, b := range snap.Breeding {
		if err := uniqueID(seen, CollectionBreeding, i, b.ID); err != nil {
			return err
		}
		if _, err := (BreedingInput{FemaleID: b.FemaleID, MaleID: b.MaleID, Date: b.Date, ExpectedBirthDate: b.ExpectedBirthDate}).normalize(); err != nil {
			return at(CollectionBreeding, i, err)
		}
		if err := ref(CollectionBreeding, i, "femaleId", b.FemaleID); err != nil {
			return err
		}
		if err := ref(CollectionBreeding, i, "maleId", b.MaleID); err != nil {
			return err
		}
	}
	return nil
}

// at antepone la posición del registro al campo de un ValidationError.
func at(c Collection, i int, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	return invalid(fmt.Sprintf("%s[%d].%s", c.Key(), i, ve.Field), ve.Reason)
}

func uniqueID(seen map[string]struct{}, c Collection, i int, id string) error {
	field := fmt.Sprintf("%s[%d].id", c.Key(), i)
	if strings.TrimSpace(id) == "" {
		return invalid(field, "required")
	}
	if _, dup := seen[id]; dup {
		return invalid(field, fmt.Sprintf("duplicate id %q", id))
	}
	seen[id] = struct{}{}
	return nil
}

package records

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestExportImport(t *testing.T) {
	src := openStore(t, newTestStorage())
	ctx := context.Background()
	a := mustAnimal(t, src, "Daisy")
	b := mustAnimal(t, src, "Bruno")
	if _, err := src.CreateBreeding(ctx, BreedingInput{FemaleID: a.ID, MaleID: b.ID, Date: date("2025-03-01T09:00"), Method: "natural"}); err != nil {
		t.Fatalf("breeding: %v", err)
	}

	raw, err := json.Marshal(src.Export())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	st := newTestStorage()
	dst := openStore(t, st)
	mustAnimal(t, dst, "Overwritten")

	if err := dst.Import(ctx, snap); err != nil {
		t.Fatalf("import: %v", err)
	}
	if dst.Count(CollectionAnimals) != 2 || dst.Count(CollectionBreeding) != 1 {
		t.Fatalf("counts after import: %d %d", dst.Count(CollectionAnimals), dst.Count(CollectionBreeding))
	}
	if _, err := dst.GetAnimal(ctx, a.ID); err != nil {
		t.Fatalf("imported animal: %v", err)
	}
	// las cuatro keys quedan escritas, vacías incluidas
	if got := st.get(CollectionTreatments.Key()); got != "[]" {
		t.Fatalf("treatments key = %q", got)
	}
}

func TestImport_RejectsInconsistentSnapshot(t *testing.T) {
	s := openStore(t, newTestStorage())
	ctx := context.Background()
	keep := mustAnimal(t, s, "Keep")

	herd := []Animal{{ID: "f", Name: "F", Type: "Cattle"}, {ID: "m", Name: "M", Type: "Cattle"}}
	when := date("2025-03-01T09:00")
	before := date("2025-02-01T09:00")
	cases := map[string]Snapshot{
		"duplicate animal id": {Animals: []Animal{{ID: "a", Name: "A", Type: "Cattle"}, {ID: "a", Name: "B", Type: "Cattle"}}},
		"empty id":            {Animals: []Animal{{ID: " ", Name: "A", Type: "Cattle"}}},
		"missing name":        {Animals: []Animal{{ID: "a", Type: "Cattle"}}},
		"negative weight":     {Animals: []Animal{{ID: "a", Name: "A", Type: "Cattle", Weight: ptr(-1)}}},
		"dangling treatment": {
			Treatments: []Treatment{{ID: "t", AnimalID: "ghost", Type: "vaccine", Name: "FMD", Date: when}},
		},
		"treatment without type name or date": {
			Animals:    herd,
			Treatments: []Treatment{{ID: "t", AnimalID: "f"}},
		},
		"treatment negative cost": {
			Animals:    herd,
			Treatments: []Treatment{{ID: "t", AnimalID: "f", Type: "vaccine", Name: "FMD", Date: when, Cost: ptr(-3)}},
		},
		"feeding negative amount": {
			Animals: herd,
			Feeding: []Feeding{{ID: "x", AnimalID: "f", FeedType: "hay", Amount: -5, Time: when}},
		},
		"feeding without type": {
			Animals: herd,
			Feeding: []Feeding{{ID: "x", AnimalID: "f", Amount: 2, Time: when}},
		},
		"breeding same animal": {
			Animals:  herd,
			Breeding: []Breeding{{ID: "b", FemaleID: "f", MaleID: "f", Date: when}},
		},
		"breeding birth before service": {
			Animals:  herd,
			Breeding: []Breeding{{ID: "b", FemaleID: "f", MaleID: "m", Date: when, ExpectedBirthDate: &before}},
		},
		"dangling male": {
			Animals:  herd,
			Breeding: []Breeding{{ID: "b", FemaleID: "f", MaleID: "ghost", Date: when}},
		},
	}
	for name, snap := range cases {
		if err := s.Import(ctx, snap); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
	if _, err := s.GetAnimal(ctx, keep.ID); err != nil {
		t.Fatalf("rejected import must leave state untouched: %v", err)
	}

	var ve *ValidationError
	err := s.Import(ctx, Snapshot{Animals: herd, Feeding: []Feeding{{ID: "x", AnimalID: "f", FeedType: "hay", Time: when}}})
	if !errors.As(err, &ve) || ve.Field != "livestock_feeding[0].amount" {
		t.Fatalf("expected error on livestock_feeding[0].amount, got %v", err)
	}
}

func TestImport_PersistFailureRollsBack(t *testing.T) {
	st := newTestStorage()
	s := openStore(t, st)
	keep := mustAnimal(t, s, "Keep")

	st.failOn = CollectionFeeding.Key()
	err := s.Import(context.Background(), Snapshot{Animals: []Animal{{ID: "x", Name: "X", Type: "Goat"}}})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if _, err := s.GetAnimal(context.Background(), keep.ID); err != nil {
		t.Fatalf("state must be rolled back: %v", err)
	}
	var persisted []Animal
	if err := json.Unmarshal([]byte(st.get(CollectionAnimals.Key())), &persisted); err != nil || len(persisted) != 1 || persisted[0].ID != keep.ID {
		t.Fatalf("animals key must be rewritten with previous content: %v %+v", err, persisted)
	}
}

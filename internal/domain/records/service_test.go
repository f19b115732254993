package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
	"testing"
	"time"
)

// -------------------------
// Test storage (in-memory)
// -------------------------

var errDiskFull = errors.New("storage: disk full")

type testStorage struct {
	mu    sync.Mutex
	byKey map[string][]byte
	saves int

	// failOn hace fallar Save para esa key.
	failOn string
	// afterSave corre después de cada Save exitoso, fuera del lock.
	afterSave func(key string)
	order     []string
}

func newTestStorage() *testStorage {
	return &testStorage{byKey: map[string][]byte{}}
}

func (s *testStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byKey[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return slices.Clone(b), nil
}

func (s *testStorage) Save(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.saves++
	if key == s.failOn {
		s.mu.Unlock()
		return errDiskFull
	}
	s.byKey[key] = slices.Clone(payload)
	s.order = append(s.order, key)
	hook := s.afterSave
	s.mu.Unlock()

	if hook != nil {
		hook(key)
	}
	return nil
}

func (s *testStorage) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.byKey[key])
}

// batchStorage agrega SaveBatch atómico sobre testStorage.
type batchStorage struct {
	*testStorage
	batches int
	failAll bool
}

func (s *batchStorage) SaveBatch(ctx context.Context, entries []Entry) error {
	s.batches++
	if s.failAll {
		return errDiskFull
	}
	for _, e := range entries {
		if err := s.testStorage.Save(ctx, e.Key, e.Payload); err != nil {
			return err
		}
	}
	return nil
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (o *recordingObserver) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, fmt.Sprintf("%s:%v", op, success))
}

func openStore(t *testing.T, st Storage, opts ...Option) *Store {
	t.Helper()
	s, err := Open(context.Background(), st, opts...)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func mustAnimal(t *testing.T, s *Store, name string) Animal {
	t.Helper()
	a, err := s.CreateAnimal(context.Background(), AnimalInput{Name: name, Type: "Cattle"})
	if err != nil {
		t.Fatalf("create animal %s: %v", name, err)
	}
	return a
}

func date(s string) time.Time {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}

// -------------------------
// Tests
// -------------------------

func TestOpen_EmptyStorage(t *testing.T) {
	s := openStore(t, newTestStorage())

	for _, c := range Collections {
		if n := s.Count(c); n != 0 {
			t.Fatalf("%s: expected empty, got %d", c, n)
		}
	}
	if _, err := Open(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil storage")
	}
}

func TestOpen_LoadsPersistedState(t *testing.T) {
	st := newTestStorage()
	ctx := context.Background()
	s := openStore(t, st)

	weight, cost := 450.5, 12.0
	birth := time.Date(2022, 4, 9, 0, 0, 0, 0, time.UTC)
	due := date("2025-12-01T00:00")

	bessie, err := s.CreateAnimal(ctx, AnimalInput{Name: "Bessie", Type: "Cattle", Breed: "Holstein", BirthDate: &birth, Gender: "female", Weight: &weight})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bruno, err := s.CreateAnimal(ctx, AnimalInput{Name: "Bruno", Type: "Cattle", Gender: "male", Status: "sick", Notes: "limping"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	mustAnimal(t, s, "Nanny")

	for _, in := range []TreatmentInput{
		{AnimalID: bessie.ID, Type: "vaccine", Name: "FMD", Date: date("2025-01-01T10:00"), Cost: &cost, Veterinarian: "Dr. Ruiz"},
		{AnimalID: bruno.ID, Type: "medication", Name: "Penicillin", Date: date("2025-03-01T08:30"), Dosage: "5ml"},
		{AnimalID: bessie.ID, Type: "checkup", Name: "Annual", Date: date("2025-01-01T10:00")},
	} {
		if _, err := s.CreateTreatment(ctx, in); err != nil {
			t.Fatalf("treatment: %v", err)
		}
	}
	for _, in := range []FeedingInput{
		{AnimalID: bessie.ID, FeedType: "hay", Amount: 4.5, Time: date("2025-03-20T07:00")},
		{AnimalID: bruno.ID, FeedType: "grain", Amount: 1, Time: date("2025-03-20T18:00"), Notes: "evening"},
	} {
		if _, err := s.CreateFeeding(ctx, in); err != nil {
			t.Fatalf("feeding: %v", err)
		}
	}
	if _, err := s.CreateBreeding(ctx, BreedingInput{FemaleID: bessie.ID, MaleID: bruno.ID, Date: date("2025-03-01T09:00"), Method: "natural", ExpectedBirthDate: &due}); err != nil {
		t.Fatalf("breeding: %v", err)
	}

	reopened := openStore(t, st)

	sameList(t, "animals", collect(s.ListAnimals()), collect(reopened.ListAnimals()), sameAnimal)
	sameList(t, "treatments", collect(s.ListTreatments(TreatmentFilter{})), collect(reopened.ListTreatments(TreatmentFilter{})), sameTreatment)
	sameList(t, "feeding", collect(s.ListFeeding()), collect(reopened.ListFeeding()), sameFeeding)
	sameList(t, "breeding", collect(s.ListBreeding()), collect(reopened.ListBreeding()), sameBreeding)
}

func sameList[T any](t *testing.T, name string, want, got []T, eq func(a, b T) bool) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d records, want %d", name, len(got), len(want))
	}
	for i := range want {
		if !eq(want[i], got[i]) {
			t.Fatalf("%s[%d]:\n got %+v\nwant %+v", name, i, got[i], want[i])
		}
	}
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameAnimal(a, b Animal) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Type == b.Type && a.Breed == b.Breed &&
		sameTime(a.BirthDate, b.BirthDate) && a.Gender == b.Gender && sameFloat(a.Weight, b.Weight) &&
		a.Notes == b.Notes && a.Status == b.Status &&
		a.CreatedAt.Equal(b.CreatedAt) && a.UpdatedAt.Equal(b.UpdatedAt)
}

func sameTreatment(a, b Treatment) bool {
	return a.ID == b.ID && a.AnimalID == b.AnimalID && a.Type == b.Type && a.Name == b.Name &&
		a.Date.Equal(b.Date) && a.Dosage == b.Dosage && a.Veterinarian == b.Veterinarian &&
		sameFloat(a.Cost, b.Cost) && a.Notes == b.Notes && a.CreatedAt.Equal(b.CreatedAt)
}

func sameFeeding(a, b Feeding) bool {
	return a.ID == b.ID && a.AnimalID == b.AnimalID && a.FeedType == b.FeedType && a.Amount == b.Amount &&
		a.Time.Equal(b.Time) && a.Notes == b.Notes && a.CreatedAt.Equal(b.CreatedAt)
}

func sameBreeding(a, b Breeding) bool {
	return a.ID == b.ID && a.FemaleID == b.FemaleID && a.MaleID == b.MaleID && a.Date.Equal(b.Date) &&
		a.Method == b.Method && sameTime(a.ExpectedBirthDate, b.ExpectedBirthDate) &&
		a.Notes == b.Notes && a.CreatedAt.Equal(b.CreatedAt)
}

func TestOpen_CorruptPayload(t *testing.T) {
	st := newTestStorage()
	st.byKey[CollectionFeeding.Key()] = []byte(`{not json`)
	st.byKey[CollectionAnimals.Key()] = []byte("  ")

	_, err := Open(context.Background(), st)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Key != CollectionFeeding.Key() {
		t.Fatalf("expected error for %s, got %v", CollectionFeeding.Key(), err)
	}
}

func TestCreateAnimal_DefaultsAndPersist(t *testing.T) {
	st := newTestStorage()
	s := openStore(t, st)

	a, err := s.CreateAnimal(context.Background(), AnimalInput{Name: "  Bessie ", Type: "Cattle", Gender: "Female"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" || a.Name != "Bessie" || a.Status != StatusHealthy || a.Gender != "female" {
		t.Fatalf("unexpected animal %+v", a)
	}
	if !a.CreatedAt.Equal(a.UpdatedAt) {
		t.Fatalf("createdAt != updatedAt")
	}

	var persisted []Animal
	if err := json.Unmarshal([]byte(st.get("livestock_animals")), &persisted); err != nil {
		t.Fatalf("decode persisted: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != a.ID {
		t.Fatalf("persisted = %+v", persisted)
	}
}

func TestCreateAnimal_Validation(t *testing.T) {
	s := openStore(t, newTestStorage())
	neg := -1.0

	cases := []AnimalInput{
		{Name: "", Type: "Cattle"},
		{Name: "Bessie", Type: "  "},
		{Name: "Bessie", Type: "Cattle", Weight: &neg},
	}
	for _, in := range cases {
		if _, err := s.CreateAnimal(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Fatalf("%+v: expected ErrValidation, got %v", in, err)
		}
	}
	if s.Count(CollectionAnimals) != 0 {
		t.Fatalf("invalid input must not mutate")
	}
}

func TestIDsAreUniqueAcrossRetries(t *testing.T) {
	s := openStore(t, newTestStorage())
	ids := []string{"dup", "dup", "dup", "other"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	a := mustAnimal(t, s, "A")
	b := mustAnimal(t, s, "B")
	if a.ID != "dup" || b.ID != "other" {
		t.Fatalf("ids = %s, %s", a.ID, b.ID)
	}
}

func TestUpdateAnimal(t *testing.T) {
	s := openStore(t, newTestStorage())
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	a := mustAnimal(t, s, "Bessie")

	// reloj hacia atrás: updatedAt no retrocede
	s.now = func() time.Time { return base.Add(-time.Hour) }
	up, err := s.UpdateAnimal(ctx, a.ID, AnimalInput{Name: "Bessie II", Type: "Cattle", Status: "sick"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.ID != a.ID || !up.CreatedAt.Equal(a.CreatedAt) {
		t.Fatalf("id/createdAt changed: %+v", up)
	}
	if up.UpdatedAt.Before(a.UpdatedAt) {
		t.Fatalf("updatedAt went backwards: %v < %v", up.UpdatedAt, a.UpdatedAt)
	}

	s.now = func() time.Time { return base.Add(time.Hour) }
	up, err = s.UpdateAnimal(ctx, a.ID, AnimalInput{Name: "Bessie II", Type: "Cattle"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !up.UpdatedAt.Equal(base.Add(time.Hour)) || up.Status != StatusHealthy {
		t.Fatalf("unexpected %+v", up)
	}

	if _, err := s.UpdateAnimal(ctx, "missing", AnimalInput{Name: "X", Type: "Cattle"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTreatment_MissingAnimal(t *testing.T) {
	st := newTestStorage()
	s := openStore(t, st)

	_, err := s.CreateTreatment(context.Background(), TreatmentInput{
		AnimalID: "does-not-exist",
		Type:     "vaccine",
		Name:     "FMD",
		Date:     date("2025-01-01T10:00"),
	})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "animalId" {
		t.Fatalf("expected ValidationError on animalId, got %v", err)
	}
	if s.Count(CollectionTreatments) != 0 || st.saves != 0 {
		t.Fatalf("rejected create must not mutate nor persist")
	}
}

func TestCreateFeedingAndBreeding_Validation(t *testing.T) {
	s := openStore(t, newTestStorage())
	ctx := context.Background()
	a := mustAnimal(t, s, "Daisy")
	b := mustAnimal(t, s, "Bruno")
	early := date("2025-01-01T00:00")

	if _, err := s.CreateFeeding(ctx, FeedingInput{AnimalID: a.ID, FeedType: "hay", Amount: 0, Time: early}); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero amount: %v", err)
	}
	if _, err := s.CreateFeeding(ctx, FeedingInput{AnimalID: "ghost", FeedType: "hay", Amount: 2, Time: early}); !errors.Is(err, ErrValidation) {
		t.Fatalf("ghost animal: %v", err)
	}
	if _, err := s.CreateBreeding(ctx, BreedingInput{FemaleID: a.ID, MaleID: a.ID, Date: early}); !errors.Is(err, ErrValidation) {
		t.Fatalf("same parents: %v", err)
	}
	before := early.Add(-24 * time.Hour)
	if _, err := s.CreateBreeding(ctx, BreedingInput{FemaleID: a.ID, MaleID: b.ID, Date: early, ExpectedBirthDate: &before}); !errors.Is(err, ErrValidation) {
		t.Fatalf("due before date: %v", err)
	}
	if _, err := s.CreateBreeding(ctx, BreedingInput{FemaleID: a.ID, MaleID: "ghost", Date: early}); !errors.Is(err, ErrValidation) {
		t.Fatalf("ghost male: %v", err)
	}
	if s.Count(CollectionFeeding) != 0 || s.Count(CollectionBreeding) != 0 {
		t.Fatalf("rejected creates must not mutate")
	}
}

func TestDeleteAnimal_Cascade(t *testing.T) {
	st := newTestStorage()
	s := openStore(t, st)
	ctx := context.Background()

	bessie := mustAnimal(t, s, "Bessie")
	bull := mustAnimal(t, s, "Bruno")
	other := mustAnimal(t, s, "Other")

	if _, err := s.CreateTreatment(ctx, TreatmentInput{AnimalID: bessie.ID, Type: "vaccine", Name: "FMD", Date: date("2025-01-01T10:00")}); err != nil {
		t.Fatalf("treatment: %v", err)
	}
	if _, err := s.CreateTreatment(ctx, TreatmentInput{AnimalID: other.ID, Type: "checkup", Name: "Annual", Date: date("2025-01-02T10:00")}); err != nil {
		t.Fatalf("treatment: %v", err)
	}
	if _, err := s.CreateFeeding(ctx, FeedingInput{AnimalID: bessie.ID, FeedType: "hay", Amount: 3, Time: date("2025-01-01T07:00")}); err != nil {
		t.Fatalf("feeding: %v", err)
	}
	if _, err := s.CreateBreeding(ctx, BreedingInput{FemaleID: bessie.ID, MaleID: bull.ID, Date: date("2025-02-01T09:00")}); err != nil {
		t.Fatalf("breeding: %v", err)
	}

	res, err := s.DeleteAnimal(ctx, bessie.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := CascadeResult{AnimalRemoved: true, Treatments: 1, Feeding: 1, Breeding: 1}
	if res != want {
		t.Fatalf("cascade = %+v, want %+v", res, want)
	}

	for tr := range s.ListTreatments(TreatmentFilter{}) {
		if tr.AnimalID == bessie.ID {
			t.Fatalf("orphan treatment %+v", tr)
		}
	}
	if s.Count(CollectionTreatments) != 1 || s.Count(CollectionFeeding) != 0 || s.Count(CollectionBreeding) != 0 {
		t.Fatalf("counts after cascade: t=%d f=%d b=%d",
			s.Count(CollectionTreatments), s.Count(CollectionFeeding), s.Count(CollectionBreeding))
	}
	if _, err := s.GetAnimal(ctx, bull.ID); err != nil {
		t.Fatalf("bull must remain: %v", err)
	}

	// persistido también
	reopened := openStore(t, st)
	if reopened.Count(CollectionAnimals) != 2 || reopened.Count(CollectionBreeding) != 0 {
		t.Fatalf("persisted cascade mismatch")
	}
}

func TestDeleteAnimal_MaleRemovesBreeding(t *testing.T) {
	s := openStore(t, newTestStorage())
	ctx := context.Background()
	a := mustAnimal(t, s, "A")
	b := mustAnimal(t, s, "B")

	if _, err := s.CreateBreeding(ctx, BreedingInput{FemaleID: a.ID, MaleID: b.ID, Date: date("2025-03-01T09:00")}); err != nil {
		t.Fatalf("breeding: %v", err)
	}
	res, err := s.DeleteAnimal(ctx, b.ID)
	if err != nil || res.Breeding != 1 {
		t.Fatalf("delete B: %+v %v", res, err)
	}
	if len(collect(s.ListBreeding())) != 0 {
		t.Fatalf("breeding should be empty")
	}
	if _, err := s.GetAnimal(ctx, a.ID); err != nil {
		t.Fatalf("A must remain: %v", err)
	}
}

func TestDeleteAnimal_AbsentIsNoop(t *testing.T) {
	st := newTestStorage()
	s := openStore(t, st)
	mustAnimal(t, s, "Bessie")
	saves := st.saves

	res, err := s.DeleteAnimal(context.Background(), "missing")
	if err != nil || res.AnimalRemoved {
		t.Fatalf("expected no-op, got %+v %v", res, err)
	}
	if st.saves != saves {
		t.Fatalf("no-op delete must not persist")
	}
}

func TestDeleteByID(t *testing.T) {
	s := openStore(t, newTestStorage())
	ctx := context.Background()
	a := mustAnimal(t, s, "A")
	b := mustAnimal(t, s, "B")

	tr, _ := s.CreateTreatment(ctx, TreatmentInput{AnimalID: a.ID, Type: "vaccine", Name: "FMD", Date: date("2025-01-01T10:00")})
	f, _ := s.CreateFeeding(ctx, FeedingInput{AnimalID: a.ID, FeedType: "hay", Amount: 1, Time: date("2025-01-01T07:00")})
	br, _ := s.CreateBreeding(ctx, BreedingInput{FemaleID: a.ID, MaleID: b.ID, Date: date("2025-01-01T08:00")})

	for name, del := range map[string]func(string) (bool, error){
		"treatment": func(id string) (bool, error) { return s.DeleteTreatment(ctx, id) },
		"feeding":   func(id string) (bool, error) { return s.DeleteFeeding(ctx, id) },
		"breeding":  func(id string) (bool, error) { return s.DeleteBreeding(ctx, id) },
	} {
		id := map[string]string{"treatment": tr.ID, "feeding": f.ID, "breeding": br.ID}[name]
		// mismo trato de espacios que DeleteAnimal
		if removed, err := del(" " + id + "\t"); err != nil || !removed {
			t.Fatalf("%s: first delete %v %v", name, removed, err)
		}
		if removed, err := del(id); err != nil || removed {
			t.Fatalf("%s: second delete must be a no-op, got %v %v", name, removed, err)
		}
	}
	if s.Count(CollectionAnimals) != 2 {
		t.Fatalf("animals must be untouched")
	}
}

func TestPersistFailure_RollsBack(t *testing.T) {
	st := newTestStorage()
	obs := &recordingObserver{}
	s := openStore(t, st, WithObserver(obs))
	a := mustAnimal(t, s, "Bessie")

	st.failOn = CollectionAnimals.Key()
	_, err := s.CreateAnimal(context.Background(), AnimalInput{Name: "Ghost", Type: "Cattle"})
	if !errors.Is(err, ErrPersistence) || !errors.Is(err, errDiskFull) {
		t.Fatalf("expected persistence error wrapping backend error, got %v", err)
	}
	if s.Count(CollectionAnimals) != 1 {
		t.Fatalf("failed create must be rolled back")
	}

	_, err = s.UpdateAnimal(context.Background(), a.ID, AnimalInput{Name: "Renamed", Type: "Cattle"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	got, _ := s.GetAnimal(context.Background(), a.ID)
	if got.Name != "Bessie" {
		t.Fatalf("failed update must be rolled back, got %q", got.Name)
	}

	// el store sigue usable
	st.failOn = ""
	if _, err := s.CreateAnimal(context.Background(), AnimalInput{Name: "Daisy", Type: "Cattle"}); err != nil {
		t.Fatalf("store unusable after failure: %v", err)
	}

	want := []string{"create_animal:true", "create_animal:false", "update_animal:false", "create_animal:true"}
	if !slices.Equal(obs.ops, want) {
		t.Fatalf("observed %v, want %v", obs.ops, want)
	}
}

func TestPersistFailure_CascadeRewritesWrittenKeys(t *testing.T) {
	st := newTestStorage()
	s := openStore(t, st)
	ctx := context.Background()

	a := mustAnimal(t, s, "Bessie")
	if _, err := s.CreateTreatment(ctx, TreatmentInput{AnimalID: a.ID, Type: "vaccine", Name: "FMD", Date: date("2025-01-01T10:00")}); err != nil {
		t.Fatalf("treatment: %v", err)
	}
	treatmentsBefore := st.get(CollectionTreatments.Key())

	// treatments se escribe, animals falla
	st.failOn = CollectionAnimals.Key()
	if _, err := s.DeleteAnimal(ctx, a.ID); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	if s.Count(CollectionAnimals) != 1 || s.Count(CollectionTreatments) != 1 {
		t.Fatalf("in-memory cascade must be rolled back")
	}
	if got := st.get(CollectionTreatments.Key()); got != treatmentsBefore {
		t.Fatalf("treatments key not restored:\n got %s\nwant %s", got, treatmentsBefore)
	}
}

func TestDeleteAnimal_WritesDependentsBeforeAnimals(t *testing.T) {
	st := newTestStorage()
	s := openStore(t, st)
	ctx := context.Background()

	a := mustAnimal(t, s, "Bessie")
	b := mustAnimal(t, s, "Bruno")
	if _, err := s.CreateTreatment(ctx, TreatmentInput{AnimalID: a.ID, Type: "vaccine", Name: "FMD", Date: date("2025-01-01T10:00")}); err != nil {
		t.Fatalf("treatment: %v", err)
	}
	if _, err := s.CreateBreeding(ctx, BreedingInput{FemaleID: a.ID, MaleID: b.ID, Date: date("2025-02-01T09:00")}); err != nil {
		t.Fatalf("breeding: %v", err)
	}

	st.mu.Lock()
	st.order = nil
	st.mu.Unlock()

	if _, err := s.DeleteAnimal(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := []string{CollectionTreatments.Key(), CollectionBreeding.Key(), CollectionAnimals.Key()}
	if !slices.Equal(st.order, want) {
		t.Fatalf("write order = %v, want %v", st.order, want)
	}
}

func TestDeleteAnimal_CancelledMidCascade(t *testing.T) {
	st := newTestStorage()
	s := openStore(t, st)

	a := mustAnimal(t, s, "Bessie")
	keep := mustAnimal(t, s, "Daisy")
	for _, id := range []string{a.ID, keep.ID} {
		if _, err := s.CreateTreatment(context.Background(), TreatmentInput{AnimalID: id, Type: "vaccine", Name: "FMD", Date: date("2025-01-01T10:00")}); err != nil {
			t.Fatalf("treatment: %v", err)
		}
		if _, err := s.CreateFeeding(context.Background(), FeedingInput{AnimalID: id, FeedType: "hay", Amount: 2, Time: date("2025-01-01T07:00")}); err != nil {
			t.Fatalf("feeding: %v", err)
		}
	}

	// el cliente se desconecta después de la primera key escrita
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	st.afterSave = func(string) { cancel() }

	if _, err := s.DeleteAnimal(ctx, a.ID); err != nil {
		t.Fatalf("delete must complete after cancellation: %v", err)
	}
	st.afterSave = nil

	reopened := openStore(t, st)
	if reopened.Count(CollectionAnimals) != 1 || reopened.Count(CollectionTreatments) != 1 || reopened.Count(CollectionFeeding) != 1 {
		t.Fatalf("reloaded counts: animals=%d treatments=%d feeding=%d",
			reopened.Count(CollectionAnimals), reopened.Count(CollectionTreatments), reopened.Count(CollectionFeeding))
	}
	for tr := range reopened.ListTreatments(TreatmentFilter{}) {
		if _, err := reopened.GetAnimal(context.Background(), tr.AnimalID); err != nil {
			t.Fatalf("dangling treatment %s: %v", tr.ID, err)
		}
	}
	for f := range reopened.ListFeeding() {
		if _, err := reopened.GetAnimal(context.Background(), f.AnimalID); err != nil {
			t.Fatalf("dangling feeding %s: %v", f.ID, err)
		}
	}
}

func TestPersistFailure_BatchSaver(t *testing.T) {
	bs := &batchStorage{testStorage: newTestStorage()}
	s := openStore(t, bs)
	ctx := context.Background()

	a := mustAnimal(t, s, "Bessie")
	if _, err := s.CreateFeeding(ctx, FeedingInput{AnimalID: a.ID, FeedType: "hay", Amount: 2, Time: date("2025-01-01T07:00")}); err != nil {
		t.Fatalf("feeding: %v", err)
	}
	if bs.batches != 0 {
		t.Fatalf("single-key writes must not use SaveBatch")
	}

	bs.failAll = true
	if _, err := s.DeleteAnimal(ctx, a.ID); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if bs.batches != 1 || s.Count(CollectionFeeding) != 1 {
		t.Fatalf("batches=%d feeding=%d", bs.batches, s.Count(CollectionFeeding))
	}

	bs.failAll = false
	if res, err := s.DeleteAnimal(ctx, a.ID); err != nil || res.Feeding != 1 {
		t.Fatalf("retry: %+v %v", res, err)
	}
	if bs.batches != 2 {
		t.Fatalf("cascade should use one batch, got %d", bs.batches)
	}
}

func TestConcurrentMutations(t *testing.T) {
	s := openStore(t, newTestStorage())
	ctx := context.Background()
	a := mustAnimal(t, s, "Bessie")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.CreateFeeding(ctx, FeedingInput{AnimalID: a.ID, FeedType: "hay", Amount: 1, Time: date("2025-01-01T07:00")})
		}()
		go func() {
			defer wg.Done()
			for f := range s.ListFeeding() {
				_ = f.ID
			}
		}()
	}
	wg.Wait()

	if n := s.Count(CollectionFeeding); n != 20 {
		t.Fatalf("expected 20 feeding records, got %d", n)
	}
	if res, err := s.DeleteAnimal(ctx, a.ID); err != nil || res.Feeding != 20 {
		t.Fatalf("cascade: %+v %v", res, err)
	}
}

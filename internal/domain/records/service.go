package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"livestock-records/internal/platform/logger"

	"github.com/google/uuid"
)

// state son las cuatro colecciones en orden de inserción.
// Los slices nunca se modifican in place: toda mutación arma un slice nuevo
// (o hace append más allá del len visible), así una copia de state sirve
// como snapshot para rollback y para lecturas fuera del lock.
type state struct {
	animals    []Animal
	treatments []Treatment
	feeding    []Feeding
	breeding   []Breeding
}

// Store es el dueño exclusivo de las cuatro colecciones.
// Cada mutación + persistencia ocurre dentro de una única sección crítica.
type Store struct {
	mu sync.Mutex
	st state

	storage Storage
	log     logger.Logger
	obs     Observer

	now   func() time.Time
	newID func() string
}

type Option func(*Store)

func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.obs = o
		}
	}
}

// Open construye el store y carga las cuatro colecciones desde storage.
// Una key ausente equivale a colección vacía.
func Open(ctx context.Context, storage Storage, opts ...Option) (*Store, error) {
	if storage == nil {
		return nil, errors.New("records: storage required")
	}

	s := &Store{
		storage: storage,
		log:     logger.Nop(),
		obs:     noopObserver{},
		now:     time.Now,
		newID:   newUUID,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// UUIDv7: ordenado por tiempo.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Store) load(ctx context.Context) error {
	var st state
	if err := loadCollection(ctx, s.storage, CollectionAnimals, &st.animals); err != nil {
		return err
	}
	if err := loadCollection(ctx, s.storage, CollectionTreatments, &st.treatments); err != nil {
		return err
	}
	if err := loadCollection(ctx, s.storage, CollectionFeeding, &st.feeding); err != nil {
		return err
	}
	if err := loadCollection(ctx, s.storage, CollectionBreeding, &st.breeding); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = st
	s.mu.Unlock()

	s.log.Info("records loaded", logger.Fields{
		"animals":    len(st.animals),
		"treatments": len(st.treatments),
		"feeding":    len(st.feeding),
		"breeding":   len(st.breeding),
	})
	return nil
}

func loadCollection[T any](ctx context.Context, storage Storage, c Collection, dst *[]T) error {
	payload, err := storage.Load(ctx, c.Key())
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return &PersistenceError{Key: c.Key(), Err: err}
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return &PersistenceError{Key: c.Key(), Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func (st state) encode(c Collection) ([]byte, error) {
	switch c {
	case CollectionAnimals:
		return encodeCollection(st.animals)
	case CollectionTreatments:
		return encodeCollection(st.treatments)
	case CollectionFeeding:
		return encodeCollection(st.feeding)
	case CollectionBreeding:
		return encodeCollection(st.breeding)
	default:
		return nil, fmt.Errorf("unknown collection %q", c)
	}
}

// encodeCollection serializa siempre un array (nunca null).
func encodeCollection[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

// commit persiste las colecciones changed del estado actual.
// Si la escritura falla, el estado en memoria vuelve a prev y las keys que
// alcanzaron a escribirse se reescriben con su contenido anterior.
// Requiere s.mu tomado.
func (s *Store) commit(ctx context.Context, prev state, changed ...Collection) error {
	entries := make([]Entry, 0, len(changed))
	for _, c := range changed {
		payload, err := s.st.encode(c)
		if err != nil {
			s.st = prev
			return &PersistenceError{Key: c.Key(), Err: err}
		}
		entries = append(entries, Entry{Key: c.Key(), Payload: payload})
	}

	// una escritura empezada termina aunque el request se cancele
	ctx = context.WithoutCancel(ctx)
	written, err := s.save(ctx, entries)
	if err == nil {
		return nil
	}

	s.st = prev
	s.rewrite(ctx, changed[:written])
	s.log.Error("persist failed, in-memory change rolled back", logger.Fields{
		"keys":  keysOf(entries),
		"error": err,
	})
	return err
}

func (s *Store) save(ctx context.Context, entries []Entry) (int, error) {
	if bs, ok := s.storage.(BatchSaver); ok && len(entries) > 1 {
		if err := bs.SaveBatch(ctx, entries); err != nil {
			return 0, &PersistenceError{Key: keysOf(entries), Err: err}
		}
		return len(entries), nil
	}
	for i, e := range entries {
		if err := s.storage.Save(ctx, e.Key, e.Payload); err != nil {
			return i, &PersistenceError{Key: e.Key, Err: err}
		}
	}
	return len(entries), nil
}

// rewrite es best effort: si también falla, queda en el log.
func (s *Store) rewrite(ctx context.Context, collections []Collection) {
	for _, c := range collections {
		payload, err := s.st.encode(c)
		if err == nil {
			err = s.storage.Save(ctx, c.Key(), payload)
		}
		if err != nil {
			s.log.Error("rewrite after failed persist", logger.Fields{"key": c.Key(), "error": err})
		}
	}
}

func keysOf(entries []Entry) string {
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	return strings.Join(keys, ",")
}

func (s *Store) observe(ctx context.Context, op string, start time.Time, errp *error) {
	s.obs.Observe(ctx, op, *errp == nil, time.Since(start))
}

// freshID genera un id que no existe en la colección c. Requiere s.mu.
func (s *Store) freshID(c Collection) string {
	for {
		id := s.newID()
		if !s.st.hasID(c, id) {
			return id
		}
	}
}

func (st state) hasID(c Collection, id string) bool {
	switch c {
	case CollectionAnimals:
		return slices.ContainsFunc(st.animals, func(a Animal) bool { return a.ID == id })
	case CollectionTreatments:
		return slices.ContainsFunc(st.treatments, func(t Treatment) bool { return t.ID == id })
	case CollectionFeeding:
		return slices.ContainsFunc(st.feeding, func(f Feeding) bool { return f.ID == id })
	case CollectionBreeding:
		return slices.ContainsFunc(st.breeding, func(b Breeding) bool { return b.ID == id })
	}
	return false
}

func (st state) animalIndex(id string) int {
	return slices.IndexFunc(st.animals, func(a Animal) bool { return a.ID == id })
}

// requireAnimal valida una referencia a animal al momento de escribirla.
func (st state) requireAnimal(field, id string) error {
	if st.animalIndex(id) < 0 {
		return invalid(field, fmt.Sprintf("animal %q does not exist", id))
	}
	return nil
}

// without devuelve una copia de items sin los elementos que cumplen drop,
// y cuántos se descartaron.
func without[T any](items []T, drop func(T) bool) ([]T, int) {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if drop(it) {
			continue
		}
		out = append(out, it)
	}
	return out, len(items) - len(out)
}

// -------------------------
// Animals
// -------------------------

func (s *Store) CreateAnimal(ctx context.Context, in AnimalInput) (a Animal, err error) {
	defer s.observe(ctx, "create_animal", time.Now(), &err)

	in, err = in.normalize()
	if err != nil {
		return Animal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	a = Animal{
		ID:        s.freshID(CollectionAnimals),
		Name:      in.Name,
		Type:      in.Type,
		Breed:     in.Breed,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
		Weight:    in.Weight,
		Notes:     in.Notes,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	prev := s.st
	s.st.animals = append(s.st.animals, a)
	if err = s.commit(ctx, prev, CollectionAnimals); err != nil {
		return Animal{}, err
	}

	s.log.Debug("animal created", logger.Fields{"animal_id": a.ID, "type": a.Type})
	return a, nil
}

// UpdateAnimal reemplaza todos los campos salvo ID y CreatedAt.
// UpdatedAt nunca retrocede aunque el reloj lo haga.
func (s *Store) UpdateAnimal(ctx context.Context, id string, in AnimalInput) (a Animal, err error) {
	defer s.observe(ctx, "update_animal", time.Now(), &err)

	id = strings.TrimSpace(id)
	in, err = in.normalize()
	if err != nil {
		return Animal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.st.animalIndex(id)
	if idx < 0 {
		return Animal{}, &NotFoundError{Collection: CollectionAnimals, ID: id}
	}

	cur := s.st.animals[idx]
	updatedAt := s.now()
	if updatedAt.Before(cur.UpdatedAt) {
		updatedAt = cur.UpdatedAt
	}

	a = Animal{
		ID:        cur.ID,
		Name:      in.Name,
		Type:      in.Type,
		Breed:     in.Breed,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
		Weight:    in.Weight,
		Notes:     in.Notes,
		Status:    in.Status,
		CreatedAt: cur.CreatedAt,
		UpdatedAt: updatedAt,
	}

	prev := s.st
	animals := slices.Clone(s.st.animals)
	animals[idx] = a
	s.st.animals = animals
	if err = s.commit(ctx, prev, CollectionAnimals); err != nil {
		return Animal{}, err
	}

	s.log.Debug("animal updated", logger.Fields{"animal_id": a.ID})
	return a, nil
}

func (s *Store) GetAnimal(_ context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.st.animalIndex(id)
	if idx < 0 {
		return Animal{}, &NotFoundError{Collection: CollectionAnimals, ID: id}
	}
	return s.st.animals[idx], nil
}

// CascadeResult resume lo que eliminó un DeleteAnimal.
type CascadeResult struct {
	AnimalRemoved bool
	Treatments    int
	Feeding       int
	Breeding      int
}

// DeleteAnimal elimina el animal y todo registro que lo referencia, en una
// sola sección crítica y con una sola escritura. Un id ausente es no-op.
// Sin BatchSaver, las colecciones dependientes se escriben antes que
// livestock_animals: una escritura parcial nunca deja referencias colgadas.
func (s *Store) DeleteAnimal(ctx context.Context, id string) (res CascadeResult, err error) {
	defer s.observe(ctx, "delete_animal", time.Now(), &err)

	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.animalIndex(id) < 0 {
		return CascadeResult{}, nil
	}

	prev := s.st
	var changed []Collection

	s.st.animals, _ = without(s.st.animals, func(a Animal) bool { return a.ID == id })
	res.AnimalRemoved = true

	if rest, n := without(s.st.treatments, func(t Treatment) bool { return t.AnimalID == id }); n > 0 {
		s.st.treatments = rest
		res.Treatments = n
		changed = append(changed, CollectionTreatments)
	}
	if rest, n := without(s.st.feeding, func(f Feeding) bool { return f.AnimalID == id }); n > 0 {
		s.st.feeding = rest
		res.Feeding = n
		changed = append(changed, CollectionFeeding)
	}
	if rest, n := without(s.st.breeding, func(b Breeding) bool { return b.References(id) }); n > 0 {
		s.st.breeding = rest
		res.Breeding = n
		changed = append(changed, CollectionBreeding)
	}
	changed = append(changed, CollectionAnimals)

	if err = s.commit(ctx, prev, changed...); err != nil {
		return CascadeResult{}, err
	}

	s.log.Debug("animal deleted", logger.Fields{
		"animal_id":  id,
		"treatments": res.Treatments,
		"feeding":    res.Feeding,
		"breeding":   res.Breeding,
	})
	return res, nil
}

// -------------------------
// Treatments / Feeding / Breeding
// -------------------------

func (s *Store) CreateTreatment(ctx context.Context, in TreatmentInput) (t Treatment, err error) {
	defer s.observe(ctx, "create_treatment", time.Now(), &err)

	in, err = in.normalize()
	if err != nil {
		return Treatment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.st.requireAnimal("animalId", in.AnimalID); err != nil {
		return Treatment{}, err
	}

	t = Treatment{
		ID:           s.freshID(CollectionTreatments),
		AnimalID:     in.AnimalID,
		Type:         in.Type,
		Name:         in.Name,
		Date:         in.Date,
		Dosage:       in.Dosage,
		Veterinarian: in.Veterinarian,
		Cost:         in.Cost,
		Notes:        in.Notes,
		CreatedAt:    s.now(),
	}

	prev := s.st
	s.st.treatments = append(s.st.treatments, t)
	if err = s.commit(ctx, prev, CollectionTreatments); err != nil {
		return Treatment{}, err
	}
	return t, nil
}

func (s *Store) CreateFeeding(ctx context.Context, in FeedingInput) (f Feeding, err error) {
	defer s.observe(ctx, "create_feeding", time.Now(), &err)

	in, err = in.normalize()
	if err != nil {
		return Feeding{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.st.requireAnimal("animalId", in.AnimalID); err != nil {
		return Feeding{}, err
	}

	f = Feeding{
		ID:        s.freshID(CollectionFeeding),
		AnimalID:  in.AnimalID,
		FeedType:  in.FeedType,
		Amount:    in.Amount,
		Time:      in.Time,
		Notes:     in.Notes,
		CreatedAt: s.now(),
	}

	prev := s.st
	s.st.feeding = append(s.st.feeding, f)
	if err = s.commit(ctx, prev, CollectionFeeding); err != nil {
		return Feeding{}, err
	}
	return f, nil
}

func (s *Store) CreateBreeding(ctx context.Context, in BreedingInput) (b Breeding, err error) {
	defer s.observe(ctx, "create_breeding", time.Now(), &err)

	in, err = in.normalize()
	if err != nil {
		return Breeding{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.st.requireAnimal("femaleId", in.FemaleID); err != nil {
		return Breeding{}, err
	}
	if err = s.st.requireAnimal("maleId", in.MaleID); err != nil {
		return Breeding{}, err
	}

	b = Breeding{
		ID:                s.freshID(CollectionBreeding),
		FemaleID:          in.FemaleID,
		MaleID:            in.MaleID,
		Date:              in.Date,
		Method:            in.Method,
		ExpectedBirthDate: in.ExpectedBirthDate,
		Notes:             in.Notes,
		CreatedAt:         s.now(),
	}

	prev := s.st
	s.st.breeding = append(s.st.breeding, b)
	if err = s.commit(ctx, prev, CollectionBreeding); err != nil {
		return Breeding{}, err
	}
	return b, nil
}

// Los deletes por id son idempotentes: removed=false si no existía.

func (s *Store) DeleteTreatment(ctx context.Context, id string) (removed bool, err error) {
	defer s.observe(ctx, "delete_treatment", time.Now(), &err)

	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	rest, n := without(s.st.treatments, func(t Treatment) bool { return t.ID == id })
	if n == 0 {
		return false, nil
	}
	prev := s.st
	s.st.treatments = rest
	if err = s.commit(ctx, prev, CollectionTreatments); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) DeleteFeeding(ctx context.Context, id string) (removed bool, err error) {
	defer s.observe(ctx, "delete_feeding", time.Now(), &err)

	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	rest, n := without(s.st.feeding, func(f Feeding) bool { return f.ID == id })
	if n == 0 {
		return false, nil
	}
	prev := s.st
	s.st.feeding = rest
	if err = s.commit(ctx, prev, CollectionFeeding); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) DeleteBreeding(ctx context.Context, id string) (removed bool, err error) {
	defer s.observe(ctx, "delete_breeding", time.Now(), &err)

	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	rest, n := without(s.st.breeding, func(b Breeding) bool { return b.ID == id })
	if n == 0 {
		return false, nil
	}
	prev := s.st
	s.st.breeding = rest
	if err = s.commit(ctx, prev, CollectionBreeding); err != nil {
		return false, err
	}
	return true, nil
}

// Count devuelve el tamaño actual de la colección (gauges de metrics).
func (s *Store) Count(c Collection) int {
	st := s.snapshot()
	switch c {
	case CollectionAnimals:
		return len(st.animals)
	case CollectionTreatments:
		return len(st.treatments)
	case CollectionFeeding:
		return len(st.feeding)
	case CollectionBreeding:
		return len(st.breeding)
	}
	return 0
}

// snapshot devuelve los headers de los slices; ver invariante en state.
func (s *Store) snapshot() state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

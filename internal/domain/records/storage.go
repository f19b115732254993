package records

import (
	"context"
	"errors"
)

// ErrKeyNotFound lo devuelven los backends cuando la key nunca fue escrita.
// El store lo interpreta como colección vacía.
var ErrKeyNotFound = errors.New("storage: key not found")

type Collection string

const (
	CollectionAnimals    Collection = "animals"
	CollectionTreatments Collection = "treatments"
	CollectionFeeding    Collection = "feeding"
	CollectionBreeding   Collection = "breeding"
)

// Collections en el orden en que se cargan y persisten.
var Collections = []Collection{
	CollectionAnimals,
	CollectionTreatments,
	CollectionFeeding,
	CollectionBreeding,
}

// Key es la key estable bajo la que se persiste la colección.
func (c Collection) Key() string { return "livestock_" + string(c) }

func (c Collection) singular() string {
	switch c {
	case CollectionAnimals:
		return "animal"
	case CollectionTreatments:
		return "treatment"
	case CollectionFeeding:
		return "feeding"
	case CollectionBreeding:
		return "breeding"
	default:
		return string(c)
	}
}

// Storage es el backend key/value donde se persiste cada colección
// serializada (JSON) bajo su propia key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
}

type Entry struct {
	Key     string
	Payload []byte
}

// BatchSaver es opcional: backends que pueden escribir varias keys de forma
// atómica (sqlite, postgres). El cascade delete y el import lo usan si existe.
type BatchSaver interface {
	SaveBatch(ctx context.Context, entries []Entry) error
}

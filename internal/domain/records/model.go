package records

import (
	"fmt"
	"time"
)

// DateTimeLayout es el formato "datetime-local" con el que se capturan
// fechas de tratamientos, alimentación y servicios. El filtro por mes compara
// contra esta representación.
const DateTimeLayout = "2006-01-02T15:04"

// DateLayout se usa para fechas sin hora (nacimiento, parto estimado).
const DateLayout = "2006-01-02"

// StatusHealthy es el estado por defecto de un animal.
const StatusHealthy = "healthy"

// Animal representa un animal del rebaño.
type Animal struct {
	ID string `json:"id"`

	Name      string     `json:"name"`
	Type      string     `json:"type"` // Cattle, Sheep, Goat...
	Breed     string     `json:"breed"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Gender    string     `json:"gender"`
	Weight    *float64   `json:"weight"` // kg

	Notes  string `json:"notes"`
	Status string `json:"status"` // libre; "healthy" por defecto

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AgeAt devuelve la edad legible del animal en now.
func (a Animal) AgeAt(now time.Time) string {
	if a.BirthDate == nil || a.BirthDate.After(now) {
		return "Unknown"
	}
	b := *a.BirthDate
	months := (now.Year()-b.Year())*12 + int(now.Month()) - int(b.Month())
	if now.Day() < b.Day() {
		months--
	}
	switch {
	case months >= 12:
		return plural(months/12, "year")
	case months >= 1:
		return plural(months, "month")
	default:
		days := int(now.Sub(b).Hours() / 24)
		return plural(days, "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Treatment es un tratamiento aplicado a un animal (vacuna, antibiótico...).
type Treatment struct {
	ID       string `json:"id"`
	AnimalID string `json:"animalId"`

	Type string    `json:"type"` // vaccine, medication, deworming, checkup...
	Name string    `json:"name"`
	Date time.Time `json:"date"`

	Dosage       string   `json:"dosage,omitempty"`
	Veterinarian string   `json:"veterinarian,omitempty"`
	Cost         *float64 `json:"cost"`

	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Feeding registra una ración entregada a un animal.
type Feeding struct {
	ID       string `json:"id"`
	AnimalID string `json:"animalId"`

	FeedType string    `json:"feedType"`
	Amount   float64   `json:"amount"` // kg
	Time     time.Time `json:"time"`

	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Breeding registra un servicio entre una hembra y un macho.
type Breeding struct {
	ID       string `json:"id"`
	FemaleID string `json:"femaleId"`
	MaleID   string `json:"maleId"`

	Date              time.Time  `json:"date"`
	Method            string     `json:"method"` // natural, artificial
	ExpectedBirthDate *time.Time `json:"expectedBirthDate,omitempty"`

	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// References indica si el servicio involucra al animal id.
func (b Breeding) References(id string) bool {
	return b.FemaleID == id || b.MaleID == id
}

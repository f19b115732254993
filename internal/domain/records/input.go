package records

import (
	"math"
	"strings"
	"time"
)

type AnimalInput struct {
	Name      string
	Type      string
	Breed     string
	BirthDate *time.Time
	Gender    string
	Weight    *float64
	Notes     string
	Status    string
}

type TreatmentInput struct {
	AnimalID     string
	Type         string
	Name         string
	Date         time.Time
	Dosage       string
	Veterinarian string
	Cost         *float64
	Notes        string
}

type FeedingInput struct {
	AnimalID string
	FeedType string
	Amount   float64
	Time     time.Time
	Notes    string
}

type BreedingInput struct {
	FemaleID          string
	MaleID            string
	Date              time.Time
	Method            string
	ExpectedBirthDate *time.Time
	Notes             string
}

func (in AnimalInput) normalize() (AnimalInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	in.Breed = strings.TrimSpace(in.Breed)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	in.Notes = strings.TrimSpace(in.Notes)
	in.Status = strings.TrimSpace(in.Status)

	if in.Name == "" {
		return in, invalid("name", "required")
	}
	if in.Type == "" {
		return in, invalid("type", "required")
	}
	if in.Weight != nil && !nonNegative(*in.Weight) {
		return in, invalid("weight", "must be a non-negative number")
	}
	if in.Status == "" {
		in.Status = StatusHealthy
	}
	return in, nil
}

func (in TreatmentInput) normalize() (TreatmentInput, error) {
	in.AnimalID = strings.TrimSpace(in.AnimalID)
	in.Type = strings.TrimSpace(in.Type)
	in.Name = strings.TrimSpace(in.Name)
	in.Dosage = strings.TrimSpace(in.Dosage)
	in.Veterinarian = strings.TrimSpace(in.Veterinarian)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.AnimalID == "" {
		return in, invalid("animalId", "required")
	}
	if in.Type == "" {
		return in, invalid("type", "required")
	}
	if in.Name == "" {
		return in, invalid("name", "required")
	}
	if in.Date.IsZero() {
		return in, invalid("date", "required")
	}
	if in.Cost != nil && !nonNegative(*in.Cost) {
		return in, invalid("cost", "must be a non-negative number")
	}
	return in, nil
}

func (in FeedingInput) normalize() (FeedingInput, error) {
	in.AnimalID = strings.TrimSpace(in.AnimalID)
	in.FeedType = strings.TrimSpace(in.FeedType)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.AnimalID == "" {
		return in, invalid("animalId", "required")
	}
	if in.FeedType == "" {
		return in, invalid("feedType", "required")
	}
	if !nonNegative(in.Amount) || in.Amount == 0 {
		return in, invalid("amount", "must be a positive number")
	}
	if in.Time.IsZero() {
		return in, invalid("time", "required")
	}
	return in, nil
}

func (in BreedingInput) normalize() (BreedingInput, error) {
	in.FemaleID = strings.TrimSpace(in.FemaleID)
	in.MaleID = strings.TrimSpace(in.MaleID)
	in.Method = strings.TrimSpace(in.Method)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.FemaleID == "" {
		return in, invalid("femaleId", "required")
	}
	if in.MaleID == "" {
		return in, invalid("maleId", "required")
	}
	if in.FemaleID == in.MaleID {
		return in, invalid("maleId", "must differ from femaleId")
	}
	if in.Date.IsZero() {
		return in, invalid("date", "required")
	}
	if in.ExpectedBirthDate != nil && in.ExpectedBirthDate.Before(in.Date) {
		return in, invalid("expectedBirthDate", "must not be before the breeding date")
	}
	return in, nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

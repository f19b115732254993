package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"livestock-records/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, store *Store, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	h := &handlers{store: store, log: log, now: time.Now}

	r.Route("/animals", func(ar chi.Router) {
		ar.Get("/", h.listAnimals)
		ar.Post("/", h.createAnimal)
		ar.Get("/{animalID}", h.getAnimal)
		ar.Put("/{animalID}", h.updateAnimal)
		ar.Delete("/{animalID}", h.deleteAnimal)
	})

	r.Route("/treatments", func(tr chi.Router) {
		tr.Get("/", h.listTreatments)
		tr.Post("/", h.createTreatment)
		tr.Delete("/{treatmentID}", h.deleteTreatment)
	})

	r.Route("/feeding", func(fr chi.Router) {
		fr.Get("/", h.listFeeding)
		fr.Post("/", h.createFeeding)
		fr.Delete("/{feedingID}", h.deleteFeeding)
	})

	r.Route("/breeding", func(br chi.Router) {
		br.Get("/", h.listBreeding)
		br.Post("/", h.createBreeding)
		br.Delete("/{breedingID}", h.deleteBreeding)
	})

	r.Get("/dashboard", h.dashboard)
	r.Get("/export", h.export)
	r.Post("/import", h.importSnapshot)
}

type handlers struct {
	store *Store
	log   logger.Logger
	now   func() time.Time
}

// mutationResponse lleva el mensaje de confirmación que la UI muestra como
// notificación transitoria.
type mutationResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type deleteResponse struct {
	Message string           `json:"message"`
	Removed bool             `json:"removed"`
	Cascade *cascadeResponse `json:"cascade,omitempty"`
}

type cascadeResponse struct {
	Treatments int `json:"treatments"`
	Feeding    int `json:"feeding"`
	Breeding   int `json:"breeding"`
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return invalid("body", "invalid json")
	}
	return nil
}

// writeError traduce la taxonomía del store a status HTTP.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrPersistence):
		h.log.Error("storage write failed", logger.Fields{"path": r.URL.Path, "error": err})
		http.Error(w, "storage unavailable, changes were not saved", http.StatusServiceUnavailable)
	default:
		h.log.Error("unexpected error", logger.Fields{"path": r.URL.Path, "error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// parseNumber acepta número JSON o string numérico (lo que manda un form).
// Ausente, null o "" => nil.
func parseNumber(field string, raw json.RawMessage) (*float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, invalid(field, "must be a number")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, invalid(field, "must be a number")
	}
	return &f, nil
}

var dateTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", DateTimeLayout, DateLayout}

// parseDateTime acepta RFC3339 o el formato datetime-local (sin zona => UTC).
func parseDateTime(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid(field, "required")
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid(field, "must be YYYY-MM-DDTHH:MM or RFC3339")
}

// parseDate para fechas opcionales YYYY-MM-DD.
func parseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, invalid(field, "must be YYYY-MM-DD")
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package records

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// -------------------------
// Treatments
// -------------------------

type treatmentRequest struct {
	AnimalID     string          `json:"animal_id"`
	Type         string          `json:"type"`
	Name         string          `json:"name"`
	Date         string          `json:"date"` // YYYY-MM-DDTHH:MM o RFC3339
	Dosage       string          `json:"dosage"`
	Veterinarian string          `json:"veterinarian"`
	Cost         json.RawMessage `json:"cost" swaggertype:"number"`
	Notes        string          `json:"notes"`
}

type treatmentResponse struct {
	ID           string    `json:"id"`
	AnimalID     string    `json:"animal_id"`
	AnimalName   string    `json:"animal_name"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Date         time.Time `json:"date"`
	Dosage       string    `json:"dosage,omitempty"`
	Veterinarian string    `json:"veterinarian,omitempty"`
	Cost         *float64  `json:"cost,omitempty"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

func toTreatmentResponse(t Treatment, names map[string]string) treatmentResponse {
	return treatmentResponse{
		ID:           t.ID,
		AnimalID:     t.AnimalID,
		AnimalName:   nameOrUnknown(names, t.AnimalID),
		Type:         t.Type,
		Name:         t.Name,
		Date:         t.Date,
		Dosage:       t.Dosage,
		Veterinarian: t.Veterinarian,
		Cost:         t.Cost,
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
	}
}

// listTreatments godoc
// @Summary Listar tratamientos
// @Description Tratamientos del más reciente al más antiguo. Los filtros se combinan.
// @Tags treatments
// @Produce json
// @Param type query string false "Tipo de tratamiento (vaccine, medication...)"
// @Param animal_id query string false "ID del animal"
// @Param month query string false "Prefijo de fecha, normalmente YYYY-MM"
// @Success 200 {array} treatmentResponse
// @Router /treatments [get]
func (h *handlers) listTreatments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := TreatmentFilter{
		Type:     strings.TrimSpace(q.Get("type")),
		AnimalID: strings.TrimSpace(q.Get("animal_id")),
		Month:    strings.TrimSpace(q.Get("month")),
	}

	names := h.animalNames()
	out := make([]treatmentResponse, 0)
	for t := range h.store.ListTreatments(filter) {
		out = append(out, toTreatmentResponse(t, names))
	}
	writeJSON(w, http.StatusOK, out)
}

// createTreatment godoc
// @Summary Registrar tratamiento
// @Description El animal referenciado debe existir.
// @Tags treatments
// @Accept json
// @Produce json
// @Param payload body treatmentRequest true "Datos del tratamiento"
// @Success 201 {object} mutationResponse{data=treatmentResponse}
// @Failure 400 {string} string "animal inexistente / campos requeridos"
// @Router /treatments [post]
func (h *handlers) createTreatment(w http.ResponseWriter, r *http.Request) {
	var req treatmentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	date, err := parseDateTime("date", req.Date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cost, err := parseNumber("cost", req.Cost)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err := h.store.CreateTreatment(r.Context(), TreatmentInput{
		AnimalID:     req.AnimalID,
		Type:         req.Type,
		Name:         req.Name,
		Date:         date,
		Dosage:       req.Dosage,
		Veterinarian: req.Veterinarian,
		Cost:         cost,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mutationResponse{
		Message: "Treatment record added successfully!",
		Data:    toTreatmentResponse(t, h.animalNames()),
	})
}

func (h *handlers) deleteTreatment(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.DeleteTreatment(r.Context(), chi.URLParam(r, "treatmentID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedMessage("Treatment record", removed))
}

// -------------------------
// Feeding
// -------------------------

type feedingRequest struct {
	AnimalID string          `json:"animal_id"`
	FeedType string          `json:"feed_type"`
	Amount   json.RawMessage `json:"amount" swaggertype:"number"` // kg
	Time     string          `json:"time"`
	Notes    string          `json:"notes"`
}

type feedingResponse struct {
	ID         string    `json:"id"`
	AnimalID   string    `json:"animal_id"`
	AnimalName string    `json:"animal_name"`
	FeedType   string    `json:"feed_type"`
	Amount     float64   `json:"amount"`
	Time       time.Time `json:"time"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

func toFeedingResponse(f Feeding, names map[string]string) feedingResponse {
	return feedingResponse{
		ID:         f.ID,
		AnimalID:   f.AnimalID,
		AnimalName: nameOrUnknown(names, f.AnimalID),
		FeedType:   f.FeedType,
		Amount:     f.Amount,
		Time:       f.Time,
		Notes:      f.Notes,
		CreatedAt:  f.CreatedAt,
	}
}

// listFeeding ordena por time desc como lo muestra la UI; el store entrega
// orden de inserción.
func (h *handlers) listFeeding(w http.ResponseWriter, r *http.Request) {
	names := h.animalNames()
	out := make([]feedingResponse, 0)
	for f := range h.store.ListFeeding() {
		out = append(out, toFeedingResponse(f, names))
	}
	slices.SortStableFunc(out, func(a, b feedingResponse) int { return b.Time.Compare(a.Time) })
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) createFeeding(w http.ResponseWriter, r *http.Request) {
	var req feedingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	at, err := parseDateTime("time", req.Time)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	amount, err := parseNumber("amount", req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if amount == nil {
		h.writeError(w, r, invalid("amount", "required"))
		return
	}

	f, err := h.store.CreateFeeding(r.Context(), FeedingInput{
		AnimalID: req.AnimalID,
		FeedType: req.FeedType,
		Amount:   *amount,
		Time:     at,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mutationResponse{
		Message: "Feeding record added successfully!",
		Data:    toFeedingResponse(f, h.animalNames()),
	})
}

func (h *handlers) deleteFeeding(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.DeleteFeeding(r.Context(), chi.URLParam(r, "feedingID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedMessage("Feeding record", removed))
}

// -------------------------
// Breeding
// -------------------------

type breedingRequest struct {
	FemaleID          string `json:"female_id"`
	MaleID            string `json:"male_id"`
	Date              string `json:"date"`
	Method            string `json:"method"`
	ExpectedBirthDate string `json:"expected_birth_date"` // YYYY-MM-DD opcional
	Notes             string `json:"notes"`
}

type breedingResponse struct {
	ID                string    `json:"id"`
	FemaleID          string    `json:"female_id"`
	FemaleName        string    `json:"female_name"`
	MaleID            string    `json:"male_id"`
	MaleName          string    `json:"male_name"`
	Date              time.Time `json:"date"`
	Method            string    `json:"method"`
	ExpectedBirthDate *string   `json:"expected_birth_date,omitempty"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}

func toBreedingResponse(b Breeding, names map[string]string) breedingResponse {
	return breedingResponse{
		ID:                b.ID,
		FemaleID:          b.FemaleID,
		FemaleName:        nameOrUnknown(names, b.FemaleID),
		MaleID:            b.MaleID,
		MaleName:          nameOrUnknown(names, b.MaleID),
		Date:              b.Date,
		Method:            b.Method,
		ExpectedBirthDate: formatDate(b.ExpectedBirthDate),
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
	}
}

func (h *handlers) listBreeding(w http.ResponseWriter, r *http.Request) {
	names := h.animalNames()
	out := make([]breedingResponse, 0)
	for b := range h.store.ListBreeding() {
		out = append(out, toBreedingResponse(b, names))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) createBreeding(w http.ResponseWriter, r *http.Request) {
	var req breedingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	date, err := parseDateTime("date", req.Date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	due, err := parseDate("expected_birth_date", req.ExpectedBirthDate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	b, err := h.store.CreateBreeding(r.Context(), BreedingInput{
		FemaleID:          req.FemaleID,
		MaleID:            req.MaleID,
		Date:              date,
		Method:            req.Method,
		ExpectedBirthDate: due,
		Notes:             req.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mutationResponse{
		Message: "Breeding record added successfully!",
		Data:    toBreedingResponse(b, h.animalNames()),
	})
}

func (h *handlers) deleteBreeding(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.DeleteBreeding(r.Context(), chi.URLParam(r, "breedingID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedMessage("Breeding record", removed))
}

func deletedMessage(what string, removed bool) deleteResponse {
	if !removed {
		return deleteResponse{Message: what + " not found, nothing deleted"}
	}
	return deleteResponse{Message: what + " deleted successfully!", Removed: true}
}

package records

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// animalRequest sirve para alta y para edición (PUT reemplaza todo).
type animalRequest struct {
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Breed     string          `json:"breed"`
	BirthDate string          `json:"birth_date"` // YYYY-MM-DD opcional
	Gender    string          `json:"gender"`
	Weight    json.RawMessage `json:"weight" swaggertype:"number"`
	Notes     string          `json:"notes"`
	Status    string          `json:"status"`
}

type animalResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Breed     string    `json:"breed"`
	BirthDate *string   `json:"birth_date,omitempty"`
	Age       string    `json:"age"`
	Gender    string    `json:"gender"`
	Weight    *float64  `json:"weight,omitempty"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (req animalRequest) toInput() (AnimalInput, error) {
	bd, err := parseDate("birth_date", req.BirthDate)
	if err != nil {
		return AnimalInput{}, err
	}
	weight, err := parseNumber("weight", req.Weight)
	if err != nil {
		return AnimalInput{}, err
	}
	return AnimalInput{
		Name:      req.Name,
		Type:      req.Type,
		Breed:     req.Breed,
		BirthDate: bd,
		Gender:    req.Gender,
		Weight:    weight,
		Notes:     req.Notes,
		Status:    req.Status,
	}, nil
}

func (h *handlers) toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Breed:     a.Breed,
		BirthDate: formatDate(a.BirthDate),
		Age:       a.AgeAt(h.now()),
		Gender:    a.Gender,
		Weight:    a.Weight,
		Notes:     a.Notes,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (h *handlers) listAnimals(w http.ResponseWriter, r *http.Request) {
	out := make([]animalResponse, 0)
	for a := range h.store.ListAnimals() {
		out = append(out, h.toAnimalResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// createAnimal godoc
// @Summary Registrar animal
// @Description Alta de un animal. `status` es "healthy" si no se envía. `weight` acepta número o string numérico.
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body animalRequest true "Datos del animal"
// @Success 201 {object} mutationResponse{data=animalResponse}
// @Failure 400 {string} string "invalid json / campos requeridos"
// @Failure 503 {string} string "storage unavailable"
// @Router /animals [post]
func (h *handlers) createAnimal(w http.ResponseWriter, r *http.Request) {
	var req animalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	a, err := h.store.CreateAnimal(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mutationResponse{
		Message: "Animal added successfully!",
		Data:    h.toAnimalResponse(a),
	})
}

func (h *handlers) getAnimal(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.GetAnimal(r.Context(), chi.URLParam(r, "animalID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toAnimalResponse(a))
}

// updateAnimal godoc
// @Summary Editar animal
// @Description Reemplaza todos los campos del animal salvo id y created_at.
// @Tags animals
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body animalRequest true "Datos completos del animal"
// @Success 200 {object} mutationResponse{data=animalResponse}
// @Failure 400 {string} string "invalid json / campos requeridos"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [put]
func (h *handlers) updateAnimal(w http.ResponseWriter, r *http.Request) {
	var req animalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	a, err := h.store.UpdateAnimal(r.Context(), chi.URLParam(r, "animalID"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse{
		Message: "Animal updated successfully!",
		Data:    h.toAnimalResponse(a),
	})
}

// deleteAnimal godoc
// @Summary Eliminar animal
// @Description Elimina el animal junto con sus tratamientos, registros de alimentación y servicios (como hembra o macho). Un id inexistente no es error.
// @Tags animals
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {object} deleteResponse
// @Failure 503 {string} string "storage unavailable"
// @Router /animals/{animalID} [delete]
func (h *handlers) deleteAnimal(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.DeleteAnimal(r.Context(), chi.URLParam(r, "animalID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if !res.AnimalRemoved {
		writeJSON(w, http.StatusOK, deleteResponse{Message: "Animal not found, nothing deleted"})
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{
		Message: "Animal and related records deleted successfully!",
		Removed: true,
		Cascade: &cascadeResponse{
			Treatments: res.Treatments,
			Feeding:    res.Feeding,
			Breeding:   res.Breeding,
		},
	})
}

// animalNames sirve para mostrar el nombre junto a cada registro.
func (h *handlers) animalNames() map[string]string {
	names := map[string]string{}
	for a := range h.store.ListAnimals() {
		names[a.ID] = a.Name
	}
	return names
}

func nameOrUnknown(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return "Unknown Animal"
}

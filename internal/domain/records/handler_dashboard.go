package records

import (
	"encoding/json"
	"net/http"
)

type dashboardResponse struct {
	TotalAnimals            int                 `json:"total_animals"`
	TotalTreatments         int                 `json:"total_treatments"`
	TotalFeeding            int                 `json:"total_feeding"`
	TotalBreeding           int                 `json:"total_breeding"`
	TreatmentsThisMonth     int                 `json:"treatments_this_month"`
	TreatmentCostTotal      float64             `json:"treatment_cost_total"`
	FeedingToday            int                 `json:"feeding_today"`
	FeedAmountToday         float64             `json:"feed_amount_today"`
	AnimalsNeedingAttention int                 `json:"animals_needing_attention"`
	AnimalsByStatus         map[string]int      `json:"animals_by_status"`
	AnimalsByType           map[string]int      `json:"animals_by_type"`
	RecentTreatments        []treatmentResponse `json:"recent_treatments"`
}

// dashboard godoc
// @Summary Dashboard
// @Description Totales por colección, tratamientos del mes, costo acumulado y alimentación del día.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dashboardResponse
// @Router /dashboard [get]
func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	sum := h.store.Summary(h.now())
	names := h.animalNames()

	recent := make([]treatmentResponse, 0, len(sum.RecentTreatments))
	for _, t := range sum.RecentTreatments {
		recent = append(recent, toTreatmentResponse(t, names))
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalAnimals:            sum.TotalAnimals,
		TotalTreatments:         sum.TotalTreatments,
		TotalFeeding:            sum.TotalFeeding,
		TotalBreeding:           sum.TotalBreeding,
		TreatmentsThisMonth:     sum.TreatmentsThisMonth,
		TreatmentCostTotal:      sum.TreatmentCostTotal,
		FeedingToday:            sum.FeedingToday,
		FeedAmountToday:         sum.FeedAmountToday,
		AnimalsNeedingAttention: sum.AnimalsNeedingAttention,
		AnimalsByStatus:         sum.AnimalsByStatus,
		AnimalsByType:           sum.AnimalsByType,
		RecentTreatments:        recent,
	})
}

// export devuelve el layout persistido completo (backup).
func (h *handlers) export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="livestock-export.json"`)
	writeJSON(w, http.StatusOK, h.store.Export())
}

// importSnapshot godoc
// @Summary Restaurar backup
// @Description Reemplaza todos los registros por el contenido de un export. Rechaza ids duplicados y referencias a animales inexistentes.
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body Snapshot true "Export previo"
// @Success 200 {object} mutationResponse
// @Failure 400 {string} string "invalid json / snapshot inconsistente"
// @Router /import [post]
func (h *handlers) importSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		h.writeError(w, r, invalid("body", "invalid json"))
		return
	}
	if err := h.store.Import(r.Context(), snap); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Message: "Data imported successfully!"})
}

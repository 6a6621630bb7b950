package handlers

import (
	"net/http"

	"kompas/internal/models"
)

type catalogResponse struct {
	Emotions               []models.Emotion `json:"emotions"`
	PhysicalActivities     []string         `json:"physical_activities"`
	IntellectualActivities []string         `json:"intellectual_activities"`
	Values                 []models.Value   `json:"values"`
	ActionTypes            []string         `json:"action_types"`
}

// Catalog serves the fixed choice lists the client renders in its forms.
func Catalog(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, catalogResponse{
		Emotions:               models.Emotions,
		PhysicalActivities:     models.PhysicalActivities,
		IntellectualActivities: models.IntellectualActivities,
		Values:                 models.Values,
		ActionTypes:            models.ActionTypes,
	})
}

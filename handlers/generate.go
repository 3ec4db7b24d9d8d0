package handlers

import (
	"net/http"
	"time"

	"github.com/Hoc27/cerropunta-app/generator"
)

const listingCacheTTL = 5 * time.Minute

type generateResponse struct {
	Status     string           `json:"status"`
	Message    string           `json:"message,omitempty"`
	Generation generator.Status `json:"generation"`
}

// HandleGenerate kicks off a catalog generation. The response is immediate:
// 202 when the run was accepted, 409 with the in-flight snapshot when one
// is already running. The work itself proceeds in the background.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	snapshot, accepted := h.Coordinator.Trigger()
	if !accepted {
		writeJSON(w, http.StatusConflict, generateResponse{
			Status:     "in_progress",
			Message:    "A catalog generation is already in progress",
			Generation: snapshot,
		})
		return
	}

	writeJSON(w, http.StatusAccepted, generateResponse{
		Status:     "started",
		Generation: snapshot,
	})
}

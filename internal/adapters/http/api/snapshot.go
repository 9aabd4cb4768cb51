package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/bhoomi/internal/domain/model"
)

// SnapshotHandler serves the rendered risk picture and the data behind it.
type SnapshotHandler struct {
	deps Dependencies
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps Dependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

type observationsResponse struct {
	Source       SourceMode          `json:"source"`
	Count        int                 `json:"count"`
	Observations []model.Observation `json:"observations"`
}

// HandleGetSnapshot handles GET /api/snapshot.
func (h *SnapshotHandler) HandleGetSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap, err := h.deps.LastSnapshot()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandlePostTick handles POST /api/tick. A failed tick leaves the previous
// snapshot in place.
func (h *SnapshotHandler) HandlePostTick(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.Tick(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleGetObservations handles GET /api/observations, oldest first.
func (h *SnapshotHandler) HandleGetObservations(w http.ResponseWriter, r *http.Request) {
	obs, err := h.deps.Observations(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if obs == nil {
		obs = []model.Observation{}
	}
	writeJSON(w, http.StatusOK, observationsResponse{
		Source:       h.deps.Source(),
		Count:        len(obs),
		Observations: obs,
	})
}

// HandleClassify handles GET /api/classify?value=v.
func (h *SnapshotHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("value"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing value", ErrBadRequest))
		return
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: value %q is not a number", ErrBadRequest, raw))
		return
	}

	c, err := h.deps.Classify(r.Context(), value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

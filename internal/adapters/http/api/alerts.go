package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/bhoomi/internal/domain/types"
)

// maxAlertBody bounds the manual alert request body.
const maxAlertBody = 4 << 10

// AlertsHandler handles manual alert triggers.
type AlertsHandler struct {
	deps Dependencies
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(deps Dependencies) *AlertsHandler {
	return &AlertsHandler{deps: deps}
}

// HandlePostAlert handles POST /api/alerts. An empty body triggers an alert
// with a generated id and the default message; a repeated id is acknowledged
// as a duplicate with 200.
func (h *AlertsHandler) HandlePostAlert(w http.ResponseWriter, r *http.Request) {
	var req AlertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAlertBody)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	receipt, err := h.deps.SubmitAlert(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusAccepted
	if receipt.Status == types.AlertDuplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, receipt)
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/okian/bhoomi/internal/domain/types"
)

// uploadField is the multipart field carrying the observation file.
const uploadField = "file"

// SourceHandler switches between simulated, preloaded and uploaded data.
type SourceHandler struct {
	deps           Dependencies
	maxUploadBytes int64
}

// NewSourceHandler creates a new source handler.
func NewSourceHandler(deps Dependencies, maxUploadBytes int64) *SourceHandler {
	return &SourceHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

type sourceRequest struct {
	Mode string `json:"mode"`
}

type sourceResponse struct {
	Source SourceMode `json:"source"`
}

// HandleSetSource handles POST /api/source.
func (h *SourceHandler) HandleSetSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	mode, err := types.ParseSourceMode(req.Mode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.deps.SetSource(r.Context(), mode); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sourceResponse{Source: h.deps.Source()})
}

// HandleUpload handles POST /api/upload with a multipart .csv or .xlsx file.
func (h *SourceHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large",
			fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, h.maxUploadBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large",
				fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: field %q: %w", ErrBadRequest, uploadField, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	name := filepath.Base(header.Filename)
	kept, err := h.deps.Upload(r.Context(), name, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadResult{File: name, Kept: kept, Source: h.deps.Source()})
}

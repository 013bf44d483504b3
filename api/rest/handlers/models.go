package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"trainloop/core/models"
	"trainloop/core/registry"

	"github.com/gorilla/mux"
)

// 100 MB upload ceiling, matching what the registry is meant for
const maxModelUploadBytes = 100 << 20

// ModelHandler handles model registry HTTP requests
type ModelHandler struct {
	registry *registry.Registry
}

// NewModelHandler creates a new model handler
func NewModelHandler(reg *registry.Registry) *ModelHandler {
	return &ModelHandler{registry: reg}
}

// UploadModel handles POST /v1/models (multipart: file + metadata fields)
func (h *ModelHandler) UploadModel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxModelUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Model file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	artifact, err := io.ReadAll(io.LimitReader(file, maxModelUploadBytes+1))
	if err != nil {
		http.Error(w, "Failed to read model file", http.StatusBadRequest)
		return
	}
	if len(artifact) > maxModelUploadBytes {
		http.Error(w, fmt.Sprintf("Model exceeds %d MB limit", maxModelUploadBytes>>20), http.StatusRequestEntityTooLarge)
		return
	}

	meta := models.ModelMetadata{
		Name:        r.FormValue("name"),
		Version:     r.FormValue("version"),
		Framework:   r.FormValue("framework"),
		TaskType:    r.FormValue("task_type"),
		Description: r.FormValue("description"),
		Author:      r.FormValue("author"),
	}

	saved, err := h.registry.SaveModel(r.Context(), meta, artifact)
	if err != nil {
		http.Error(w, "Failed to register model: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

// ListModels handles GET /v1/models
func (h *ModelHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.ModelFilter{
		Name:      query.Get("search"),
		Framework: query.Get("framework"),
		TaskType:  query.Get("task_type"),
		Limit:     10,
	}
	if limitParam := query.Get("limit"); limitParam != "" {
		fmt.Sscanf(limitParam, "%d", &filter.Limit)
	}
	if offsetParam := query.Get("offset"); offsetParam != "" {
		fmt.Sscanf(offsetParam, "%d", &filter.Offset)
	}

	list, err := h.registry.ListModels(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to list models: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items":  list,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GetModel handles GET /v1/models/{name}/{version}
func (h *ModelHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	meta, err := h.registry.GetModel(r.Context(), vars["name"], vars["version"])
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			http.Error(w, "Model not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch model: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(meta)
}

// DownloadModel handles GET /v1/models/{name}/{version}/download. Bytes are
// integrity-checked against the recorded checksum before being served.
func (h *ModelHandler) DownloadModel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	data, meta, err := h.registry.LoadModel(r.Context(), vars["name"], vars["version"])
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			http.Error(w, "Model not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load model: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s_v%s.bin", meta.Name, meta.Version))
	w.Write(data)
}

// DeleteModel handles DELETE /v1/models/{name}/{version}
func (h *ModelHandler) DeleteModel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.registry.DeleteModel(r.Context(), vars["name"], vars["version"]); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			http.Error(w, "Model not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete model: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"name":    vars["name"],
		"version": vars["version"],
		"deleted": true,
	})
}

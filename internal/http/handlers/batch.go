package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"imagecreator/internal/service"
)

type batchRequest struct {
	Prompts []string `json:"prompts"`
	Style   string   `json:"style"`
	Size    string   `json:"size"`
	Model   string   `json:"model"`
	Async   bool     `json:"async"`
}

// BatchGenerate runs a multi-prompt batch. With async true the call returns
// a job id immediately; otherwise it waits for the whole batch.
func (a *App) BatchGenerate(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !a.decode(w, r, &req) {
		return
	}
	svcReq := service.BatchRequest{
		Prompts: req.Prompts,
		Style:   req.Style,
		Size:    req.Size,
		Model:   req.Model,
	}

	if req.Async {
		id, err := a.Service.BatchSubmit(r.Context(), svcReq)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.json(w, http.StatusAccepted, map[string]string{"job_id": id})
		return
	}

	assets, failures, err := a.Service.BatchGenerate(r.Context(), svcReq)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"assets": assets, "errors": failures})
}

// BatchStatus reports the progress of an async batch job.
func (a *App) BatchStatus(w http.ResponseWriter, r *http.Request) {
	job, err := a.Service.BatchJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"job": job})
}

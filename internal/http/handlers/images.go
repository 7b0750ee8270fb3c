package handlers

import (
	"net/http"

	"imagecreator/internal/service"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
	Size   string `json:"size"`
	Count  int    `json:"count"`
	Model  string `json:"model"`
}

// Generate creates one or more images from a text prompt.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !a.decode(w, r, &req) {
		return
	}
	assets, failures, err := a.Service.Generate(r.Context(), service.GenerateRequest{
		Prompt: req.Prompt,
		Style:  req.Style,
		Size:   req.Size,
		Count:  req.Count,
		Model:  req.Model,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"assets": assets, "errors": failures})
}

type compareRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
	Size   string `json:"size"`
}

// Compare generates the same prompt once per model.
func (a *App) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !a.decode(w, r, &req) {
		return
	}
	results, err := a.Service.Compare(r.Context(), req.Prompt, req.Style, req.Size)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"results": results})
}

type presetRequest struct {
	Prompt string `json:"prompt"`
	Preset string `json:"preset"`
	Size   string `json:"size"`
}

// GenerateWithPreset creates an image with a named style preset applied.
func (a *App) GenerateWithPreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if !a.decode(w, r, &req) {
		return
	}
	asset, err := a.Service.GenerateWithPreset(r.Context(), req.Prompt, req.Preset, req.Size)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

// Styles lists the known style presets.
func (a *App) Styles(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"styles": service.Styles()})
}

// Models lists the configured models in fallback order.
func (a *App) Models(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"models": a.Service.Models()})
}

// ProductPhoto stages an uploaded product image.
func (a *App) ProductPhoto(w http.ResponseWriter, r *http.Request) {
	upload, _, err := readUpload(r, "image")
	if err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	asset, err := a.Service.ProductPhoto(r.Context(), upload, r.FormValue("background"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

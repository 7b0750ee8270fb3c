package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"imagecreator/internal/service"
)

const maxUploadBytes = 32 << 20

// readUpload pulls one file out of a multipart form.
func readUpload(r *http.Request, field string) ([]byte, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("parse form: %w", err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("missing %s file: %w", field, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s file: %w", field, err)
	}
	return data, header, nil
}

type refineRequest struct {
	Instruction string `json:"instruction"`
}

// Refine regenerates an asset with an instruction folded in.
func (a *App) Refine(w http.ResponseWriter, r *http.Request) {
	var req refineRequest
	if !a.decode(w, r, &req) {
		return
	}
	asset, err := a.Service.Refine(r.Context(), chi.URLParam(r, "id"), req.Instruction)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

// Inpaint edits the masked region of an asset. The request is multipart:
// a mask file plus an instruction field.
func (a *App) Inpaint(w http.ResponseWriter, r *http.Request) {
	mask, _, err := readUpload(r, "mask")
	if err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	asset, err := a.Service.Inpaint(r.Context(), chi.URLParam(r, "id"), mask, r.FormValue("instruction"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

type upscaleRequest struct {
	Factor int `json:"factor"`
}

func (a *App) Upscale(w http.ResponseWriter, r *http.Request) {
	var req upscaleRequest
	if !a.decode(w, r, &req) {
		return
	}
	asset, err := a.Service.Upscale(r.Context(), chi.URLParam(r, "id"), req.Factor)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

type adjustRequest struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Sharpness  float64 `json:"sharpness"`
	Blur       float64 `json:"blur"`
}

func (a *App) Adjust(w http.ResponseWriter, r *http.Request) {
	req := adjustRequest{Brightness: 1, Contrast: 1, Saturation: 1, Sharpness: 1}
	if !a.decode(w, r, &req) {
		return
	}
	asset, err := a.Service.Adjust(r.Context(), chi.URLParam(r, "id"), service.AdjustRequest{
		Brightness: req.Brightness,
		Contrast:   req.Contrast,
		Saturation: req.Saturation,
		Sharpness:  req.Sharpness,
		Blur:       req.Blur,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

type watermarkRequest struct {
	Text     string  `json:"text"`
	Position string  `json:"position"`
	Opacity  float64 `json:"opacity"`
	FontSize int     `json:"font_size"`
}

func (a *App) Watermark(w http.ResponseWriter, r *http.Request) {
	req := watermarkRequest{Position: "bottom-right", Opacity: 0.3, FontSize: 48}
	if !a.decode(w, r, &req) {
		return
	}
	asset, err := a.Service.Watermark(r.Context(), chi.URLParam(r, "id"), service.WatermarkRequest{
		Text:     req.Text,
		Position: req.Position,
		Opacity:  req.Opacity,
		FontSize: req.FontSize,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

type outpaintRequest struct {
	Directions []string `json:"directions"`
	AmountPct  float64  `json:"amount_pct"`
}

func (a *App) Outpaint(w http.ResponseWriter, r *http.Request) {
	req := outpaintRequest{AmountPct: 50}
	if !a.decode(w, r, &req) {
		return
	}
	asset, err := a.Service.Outpaint(r.Context(), chi.URLParam(r, "id"), req.Directions, req.AmountPct)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

func (a *App) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	asset, err := a.Service.RemoveBackground(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

type styleTransferRequest struct {
	Style    string  `json:"style"`
	Strength float64 `json:"strength"`
}

func (a *App) StyleTransfer(w http.ResponseWriter, r *http.Request) {
	req := styleTransferRequest{Strength: 0.7}
	if !a.decode(w, r, &req) {
		return
	}
	asset, err := a.Service.StyleTransfer(r.Context(), chi.URLParam(r, "id"), req.Style, req.Strength)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

type replaceRequest struct {
	Target        string `json:"target"`
	Replacement   string `json:"replacement"`
	PreserveStyle bool   `json:"preserve_style"`
}

func (a *App) ReplaceObject(w http.ResponseWriter, r *http.Request) {
	req := replaceRequest{PreserveStyle: true}
	if !a.decode(w, r, &req) {
		return
	}
	asset, err := a.Service.ReplaceObject(r.Context(), chi.URLParam(r, "id"), req.Target, req.Replacement, req.PreserveStyle)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

func (a *App) DepthMap(w http.ResponseWriter, r *http.Request) {
	asset, err := a.Service.DepthMap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

type animateRequest struct {
	Effect   string  `json:"effect"`
	Duration float64 `json:"duration"`
	FPS      int     `json:"fps"`
}

func (a *App) Animate(w http.ResponseWriter, r *http.Request) {
	req := animateRequest{Duration: 2.0, FPS: 15}
	if !a.decode(w, r, &req) {
		return
	}
	asset, err := a.Service.Animate(r.Context(), chi.URLParam(r, "id"), service.AnimateRequest{
		Effect:   req.Effect,
		Duration: req.Duration,
		FPS:      req.FPS,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"asset": asset})
}

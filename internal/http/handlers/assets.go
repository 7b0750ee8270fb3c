package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"imagecreator/internal/domain"
)

// ListAssets returns the whole library. ?favorites=true narrows to
// favorited assets.
func (a *App) ListAssets(w http.ResponseWriter, r *http.Request) {
	var assets []domain.ImageAsset
	var err error
	if r.URL.Query().Get("favorites") == "true" {
		assets, err = a.Service.Favorites(r.Context())
	} else {
		assets, err = a.Service.List(r.Context())
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"assets": assets})
}

func (a *App) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := a.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"asset": asset})
}

// DownloadAsset streams the image file. ?format=jpg transcodes on the way
// out; the default is the stored PNG.
func (a *App) DownloadAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, ctype, err := a.Service.AssetFileAs(r.Context(), id, r.URL.Query().Get("format"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ext := "png"
	if ctype == "image/jpeg" {
		ext = "jpg"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", id+"."+ext))
	_, _ = w.Write(data)
}

// DownloadAnimation streams the rendered GIF attached to an asset.
func (a *App) DownloadAnimation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := a.Service.AnimationFile(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", id+".gif"))
	_, _ = w.Write(data)
}

func (a *App) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	asset, err := a.Service.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"asset": asset})
}

func (a *App) Undo(w http.ResponseWriter, r *http.Request) {
	asset, err := a.Service.Undo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"asset": asset})
}

func (a *App) Redo(w http.ResponseWriter, r *http.Request) {
	asset, err := a.Service.Redo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"asset": asset})
}

func (a *App) History(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Service.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"history": entries})
}

func (a *App) Children(w http.ResponseWriter, r *http.Request) {
	assets, err := a.Service.Children(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"assets": assets})
}

type archiveRequest struct {
	IDs []string `json:"ids"`
}

// Archive bundles the requested assets into a zip download.
func (a *App) Archive(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if !a.decode(w, r, &req) {
		return
	}
	data, err := a.Service.Archive(r.Context(), req.IDs)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="assets.zip"`)
	_, _ = w.Write(data)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createCollectionRequest struct {
	Name string `json:"name"`
}

type collectionImageRequest struct {
	ImageID string `json:"image_id"`
}

// CreateCollection starts an empty named collection.
func (a *App) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.Service.CreateCollection(r.Context(), req.Name)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"collection": c})
}

// ListCollections returns every collection with its member count.
func (a *App) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := a.Service.Collections(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"collections": collections})
}

// GetCollection returns one collection expanded with its member records.
func (a *App) GetCollection(w http.ResponseWriter, r *http.Request) {
	detail, err := a.Service.Collection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"collection": detail})
}

// AddCollectionImage appends an asset to a collection.
func (a *App) AddCollectionImage(w http.ResponseWriter, r *http.Request) {
	var req collectionImageRequest
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.Service.AddToCollection(r.Context(), chi.URLParam(r, "id"), req.ImageID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"collection": c})
}

// RemoveCollectionImage drops an asset from a collection.
func (a *App) RemoveCollectionImage(w http.ResponseWriter, r *http.Request) {
	c, err := a.Service.RemoveFromCollection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "imageID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"collection": c})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"imagecreator/internal/domain"
	"imagecreator/internal/fallback"
	"imagecreator/internal/infra"
	"imagecreator/internal/service"
)

// App bundles the handler dependencies.
type App struct {
	Service *service.Service
	Logger  *infra.Logger
}

func NewApp(svc *service.Service, logger *infra.Logger) *App {
	return &App{Service: svc, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrCollectionNotFound),
		errors.Is(err, domain.ErrSourceFileMissing):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrNothingToUndo),
		errors.Is(err, domain.ErrNothingToRedo):
		code = http.StatusConflict
	default:
		var exhausted *fallback.ExhaustedError
		if errors.As(err, &exhausted) {
			code = http.StatusBadGateway
		}
	}
	if code >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	a.json(w, code, map[string]string{"error": err.Error()})
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "invalid json body: " + err.Error()})
		return false
	}
	return true
}

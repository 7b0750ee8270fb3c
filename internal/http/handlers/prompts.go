package handlers

import "net/http"

// PromptHistory lists recently used prompts, newest first.
func (a *App) PromptHistory(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"prompts": a.Service.PromptHistory(r.Context())})
}

// PromptSuggest returns past prompts matching the q query parameter.
func (a *App) PromptSuggest(w http.ResponseWriter, r *http.Request) {
	matches := a.Service.PromptSuggestions(r.Context(), r.URL.Query().Get("q"))
	a.json(w, http.StatusOK, map[string]any{"prompts": matches})
}

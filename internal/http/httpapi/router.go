package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"imagecreator/internal/http/handlers"
	"imagecreator/internal/infra"
	"imagecreator/internal/middleware"
)

// NewRouter wires every endpoint with the standard middleware stack.
func NewRouter(app *handlers.App, logger *infra.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(allowedOrigins),
		middleware.Logger(*logger),
		middleware.RateLimit(120, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/models", app.Models)
	r.Get("/v1/styles", app.Styles)

	r.Route("/v1/images", func(r chi.Router) {
		r.Post("/", app.Generate)
		r.Post("/compare", app.Compare)
		r.Post("/preset", app.GenerateWithPreset)
		r.Post("/product-photo", app.ProductPhoto)
		r.Post("/batch", app.BatchGenerate)
		r.Get("/batch/{id}", app.BatchStatus)
	})

	r.Route("/v1/assets", func(r chi.Router) {
		r.Get("/", app.ListAssets)
		r.Post("/archive", app.Archive)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.GetAsset)
			r.Get("/file", app.DownloadAsset)
			r.Get("/animation", app.DownloadAnimation)
			r.Post("/favorite", app.ToggleFavorite)
			r.Get("/undo", app.Undo)
			r.Get("/redo", app.Redo)
			r.Get("/history", app.History)
			r.Get("/children", app.Children)

			r.Post("/refine", app.Refine)
			r.Post("/inpaint", app.Inpaint)
			r.Post("/upscale", app.Upscale)
			r.Post("/adjust", app.Adjust)
			r.Post("/watermark", app.Watermark)
			r.Post("/outpaint", app.Outpaint)
			r.Post("/remove-background", app.RemoveBackground)
			r.Post("/style-transfer", app.StyleTransfer)
			r.Post("/replace-object", app.ReplaceObject)
			r.Post("/depth-map", app.DepthMap)
			r.Post("/animate", app.Animate)
		})
	})

	r.Route("/v1/collections", func(r chi.Router) {
		r.Post("/", app.CreateCollection)
		r.Get("/", app.ListCollections)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.GetCollection)
			r.Post("/images", app.AddCollectionImage)
			r.Delete("/images/{imageID}", app.RemoveCollectionImage)
		})
	})

	r.Get("/v1/prompts/history", app.PromptHistory)
	r.Get("/v1/prompts/suggest", app.PromptSuggest)

	return r
}

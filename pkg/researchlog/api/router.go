package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/researchlog/pkg/researchlog"
)

// RouterConfig tunes the API router.
type RouterConfig struct {
	MaxUploadBytes int64
	Logger         *slog.Logger
	Middlewares    []Middleware
}

// NewRouter returns the routes served under /api:
//
//	GET    /articles
//	POST   /articles
//	GET    /articles/{id}
//	DELETE /articles/{id}
//	POST   /assets
//	GET    /assets/{filename}
func NewRouter(service researchlog.Service, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(RecoveryMiddleware(cfg.Logger))
	for _, m := range cfg.Middlewares {
		r.Use(m)
	}

	r.Mount("/articles", NewArticleHandler(service).Routes())
	r.Mount("/assets", NewAssetHandler(service, cfg.MaxUploadBytes).Routes())

	return r
}

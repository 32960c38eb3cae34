package router

import (
	_ "embed"
	"net/http"

	"github.com/FACorreiaa/go-travel-recommender/internal/api/recommendation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

//go:embed openapi.json
var openapiSpec []byte

// Config contains the handlers needed for the router setup.
type Config struct {
	RecommendationHandler *recommendation.Handler
}

// SetupRouter wires the API routes. Server-wide middleware (request ID,
// structured logger, recoverer) is applied by the caller before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(openapiSpec)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations", cfg.RecommendationHandler.GenerateRecommendations)
	})

	return r
}

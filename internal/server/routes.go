package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quality_evaluator/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		// unauthorized zone
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handler(s.postV1AuthRegister))
			r.Post("/login", handler(s.postV1AuthLogin))
		})

		// authorized zone
		r.Group(func(r chi.Router) {
			r.Use(s.auth.Authenticate)

			r.Route("/evaluations", func(r chi.Router) {
				r.Post("/", handler(s.postV1Evaluations))
				r.Get("/", handler(s.getV1Evaluations))
				r.Get("/filter", handler(s.getV1EvaluationsFilter))
				r.Get("/export/csv", handler(s.getV1EvaluationsExportCSV))
				r.Get("/stats", handler(s.getV1EvaluationsStats))
				r.Get("/dashboard", handler(s.getV1EvaluationsDashboard))
				r.Get("/{id}", handler(s.getV1Evaluation))
				r.Put("/{id}", handler(s.putV1Evaluation))
				r.Delete("/{id}", handler(s.deleteV1Evaluation))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.auth.RequireAdmin)

				r.Get("/users", handler(s.getV1AdminUsers))
				r.Delete("/users/{id}", handler(s.deleteV1AdminUser))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}

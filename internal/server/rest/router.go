package rest

import (
	"net/http"

	"github.com/dmitrijs2005/civicreport/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, l logging.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(l.With("module", "http")))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/upload-image", h.UploadImage)

		r.Get("/issues/list", h.ListIssues)
		r.Get("/issues/{id}", h.GetIssue)

		r.Group(func(pr chi.Router) {
			pr.Use(RequireUser(h.tokens))
			pr.Post("/issues", h.ReportIssue)
			pr.Get("/issues/mine", h.MyIssues)
		})
	})

	return r
}

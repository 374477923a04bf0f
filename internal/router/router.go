package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"helpdesk/internal/config"
	"helpdesk/internal/handlers"
	"helpdesk/internal/jira"
	"helpdesk/internal/middleware"
	"helpdesk/internal/repository"
	"helpdesk/internal/service"
)

func New(log zerolog.Logger, gw *jira.Client, users repository.UserRepository, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.WithAuth(cfg.SessionSecret))

	// Health
	r.Get("/healthz", handlers.Health())

	// Services + handlers
	authSvc := service.NewAuthService(users, cfg.SessionSecret)
	ah := handlers.NewAuthHTTP(authSvc, users)

	ticketSvc := service.NewTicketService(gw, cfg.NameFieldID, log)
	th := handlers.NewTicketHTTP(ticketSvc)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", ah.Login())
		r.Post("/logout", ah.Logout())
		r.Get("/me", ah.Me())
	})

	r.Route("/api/tickets", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", th.List())
		r.Post("/", th.Create())
		r.Route("/{key}", func(r chi.Router) {
			r.Get("/", th.Get())
			r.Get("/preview", th.Preview())
			r.Post("/comments", th.AddComment())
		})
	})

	r.Route("/api/attachments", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/{id}", th.DownloadAttachment())
	})

	return r
}

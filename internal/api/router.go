package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/clinova/clinic-ops/internal/directory"
	"github.com/clinova/clinic-ops/internal/scheduler"
	"github.com/clinova/clinic-ops/internal/session"
)

type RouterConfig struct {
	Credentials  session.CredentialStore
	Sessions     SessionStores
	Directory    directory.Store
	Scheduler    *scheduler.Scheduler
	Appointments scheduler.Repository
	SessionTTL   time.Duration
	LoginRPS     float64
	LoginBurst   int
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	h := NewHandlers(cfg.Credentials, cfg.Sessions, cfg.Directory, cfg.Scheduler, cfg.Appointments, cfg.SessionTTL)

	limiter := newLoginLimiter(cfg.LoginRPS, cfg.LoginBurst)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/auth/login", h.login)
	})
	r.Post("/auth/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)

		r.Get("/auth/session", h.currentSession)

		r.Get("/appointments", h.listAppointments)
		r.Post("/appointments/draft", h.draftAppointment)
		r.Put("/appointments", h.saveAppointment)
		r.Delete("/appointments/{id}", h.deleteAppointment)

		r.Get("/patients", h.listPatients)
		r.Get("/patients/{id}", h.getPatient)
		r.Get("/doctors", h.listDoctors)
	})

	return r
}

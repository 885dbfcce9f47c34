package api

import (
	"net/http"
	"time"

	"practice_tracker/internal/api/handler"
	"practice_tracker/internal/api/middleware"
	"practice_tracker/internal/app/service"
	"practice_tracker/internal/common/security"
	"practice_tracker/internal/platform/config"
	"practice_tracker/internal/platform/logging"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type Services struct {
	Problems  *service.ProblemService
	Attempts  *service.AttemptService
	Dashboard *service.DashboardService
}

func NewRouter(cfg *config.Config, idp security.IdentityProvider, svc Services, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	problemHandler := handler.NewProblemHandler(svc.Problems, log)
	attemptHandler := handler.NewAttemptHandler(svc.Attempts, log)
	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard, svc.Problems, log)

	routes := func(authed chi.Router) {
		authed.Use(middleware.Authenticator(idp, log))
		authed.Route("/problems", func(pr chi.Router) {
			problemHandler.RegisterRoutes(pr)
			pr.Route("/{problemID}/attempts", attemptHandler.RegisterRoutes)
		})
		dashboardHandler.RegisterRoutes(authed)
	}

	// Served both bare and under /api.
	r.Group(routes)
	r.Route("/api", routes)

	return r
}

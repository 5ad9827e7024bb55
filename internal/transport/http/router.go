package http

import (
	"net/http"

	"github.com/captcha-relay/internal/application/verification"
	"github.com/captcha-relay/internal/config"
	"github.com/captcha-relay/internal/transport/http/handler"
	appmiddleware "github.com/captcha-relay/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Verifier verification.CaptchaVerifier
	Store    verification.VerifiedStore
	Notifier verification.Notifier
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(appmiddleware.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Every request passes the limiter before any route-specific logic,
	// unmatched routes included.
	limiter := appmiddleware.NewSlidingWindowLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	r.Use(limiter.Limit)

	svc := verification.NewService(deps.Verifier, deps.Store, deps.Notifier)

	verifyH := handler.NewVerificationHandler(svc)
	healthH := handler.NewHealthHandler()

	r.Post("/verify", verifyH.Submit)
	r.Get("/check", verifyH.Check)
	r.Get("/health-check/{action}", healthH.Ping)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.NotFound)

	return r
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phone-otp-api/internal/application/verification"
	"github.com/phone-otp-api/internal/config"
	"github.com/phone-otp-api/internal/transport/http/handler"
	appmiddleware "github.com/phone-otp-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — both OTP endpoints are abuse targets.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	var tokens verification.TokenIssuer
	if deps.JWTProvider != nil {
		tokens = deps.JWTProvider
	}
	otpSvc := verification.NewService(deps.OTPStore, deps.SMSSender, tokens, cfg.DefaultCountryPrefix, deps.ExposeOTP)

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc)
	sessionH := handler.NewSessionHandler()

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/otp/send", otpH.Send)
		r.With(sensitiveRL.Limit).Post("/otp/verify", otpH.Verify)

		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Get("/session", sessionH.GetCurrent)
		})
	})

	return r
}

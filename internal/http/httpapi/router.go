package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/carebridge/server/internal/auth"
	"github.com/carebridge/server/internal/domain"
	"github.com/carebridge/server/internal/http/handlers"
	"github.com/carebridge/server/internal/middleware"
)

// Options carries the router's cross-cutting settings.
type Options struct {
	AllowedOrigins  []string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
	Tokens          *auth.TokenManager
	Logger          zerolog.Logger
}

// NewRouter wires the middleware stack and the API routes.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.Locale(opts.CountryLookup),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", app.Register)
		r.Post("/auth/login", app.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(opts.Tokens))
			r.Post("/donations", app.DonationsCreate)
			r.Post("/donations/card", app.DonateByCard)
			r.Post("/donations/wallet", app.DonateByWallet)
		})
		r.Get("/donations", app.DonationsList)
		r.Get("/donations/{id}", app.DonationGet)

		r.Get("/campaigns", app.CampaignsList)
		r.Get("/campaigns/{id}", app.CampaignGet)
		r.Get("/campaigns/{id}/donations", app.CampaignDonations)
		r.Get("/campaigns/{id}/updates", app.CampaignUpdatesList)

		r.Get("/stats", app.StatsSummary)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(opts.Tokens))
			r.Post("/campaigns", app.CampaignsCreate)
			r.Post("/campaigns/{id}/updates", app.CampaignUpdatesAppend)
			r.Post("/campaigns/{id}/medical-records", app.MedicalRecordsCreate)
			r.Get("/users/me", app.Me)
			r.Post("/users/me/payment-methods", app.PaymentMethodsSave)
			r.Get("/users/me/payment-methods", app.PaymentMethodsList)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(opts.Tokens), middleware.RequireRole(domain.UserRoleAdmin))
			r.Patch("/campaigns/{id}/status", app.CampaignStatusUpdate)
			r.Get("/campaigns/{id}/medical-records", app.MedicalRecordsList)
		})
	})

	return r
}

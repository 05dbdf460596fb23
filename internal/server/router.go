package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/skyfinder/skyfinder/internal/amadeus"
	"github.com/skyfinder/skyfinder/internal/auth"
	"github.com/skyfinder/skyfinder/internal/handler"
	"github.com/skyfinder/skyfinder/internal/metrics"
	"github.com/skyfinder/skyfinder/internal/middleware"
	"github.com/skyfinder/skyfinder/internal/service"
)

// RouterConfig holds everything the router mounts.
// A nil Accounts or Recent service leaves those routes unmounted.
type RouterConfig struct {
	Logger             *slog.Logger
	IsDevelopment      bool
	MaxBodySize        int64
	InternalKeyHash    string
	SearchAuthRequired bool
	Resolver           auth.IdentityResolver

	Tokens   amadeus.TokenSource
	Search   *service.SearchService
	Accounts *service.AccountService
	Recent   *service.RecentService
	Health   *handler.HealthHandler
	Metrics  metrics.Snapshotter
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
	}

	h := handler.New()
	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Healthz)
		r.Get("/readyz", cfg.Health.Readyz)
	}
	r.Get("/metrics", handler.NewMetricsHandler(cfg.Metrics).Metrics)

	required := middleware.Gate(middleware.GateConfig{Logger: logger, Resolver: cfg.Resolver})
	searchGate := middleware.Gate(middleware.GateConfig{
		Logger:   logger,
		Resolver: cfg.Resolver,
		Optional: !cfg.SearchAuthRequired,
	})

	r.With(middleware.InternalKey(cfg.InternalKeyHash, logger)).
		Post("/amadeus-auth", handler.NewTokenHandler(cfg.Tokens, logger).Token)

	search := handler.NewSearchHandler(cfg.Search, logger)
	r.Post("/search-airports", search.Airports)
	r.With(searchGate).Post("/search-flights", search.Flights)
	r.With(searchGate).Post("/search-hotels", search.Hotels)

	if cfg.Accounts != nil {
		accounts := handler.NewAccountHandler(cfg.Accounts, logger)
		r.Post("/newsletter", accounts.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(required)

			r.Route("/price-alerts", func(r chi.Router) {
				r.Get("/", accounts.ListPriceAlerts)
				r.Post("/", accounts.CreatePriceAlert)
				r.Patch("/{id}", accounts.UpdatePriceAlert)
				r.Delete("/{id}", accounts.DeletePriceAlert)
			})
			r.Route("/saved-searches", func(r chi.Router) {
				r.Get("/", accounts.ListSavedSearches)
				r.Post("/", accounts.SaveSearch)
				r.Delete("/{id}", accounts.DeleteSavedSearch)
			})
			r.Get("/bookings", accounts.ListBookings)
			r.Post("/bookings/lookup", accounts.LookupBooking)
		})
	}

	if cfg.Recent != nil {
		recent := handler.NewRecentHandler(cfg.Recent, logger)
		r.Route("/recent-searches", func(r chi.Router) {
			r.Use(required)
			r.Get("/", recent.List)
			r.Post("/", recent.Add)
			r.Delete("/", recent.Clear)
		})
	}

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

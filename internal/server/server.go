// Package server assembles the HTTP router: Connect services, the analytics
// endpoints, health and metrics, and the static frontend.
package server

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/billcal/internal/analytics"
	"github.com/mmynk/billcal/internal/auth"
	"github.com/mmynk/billcal/internal/config"
	"github.com/mmynk/billcal/internal/locale"
	"github.com/mmynk/billcal/internal/middleware"
	"github.com/mmynk/billcal/internal/service"
	"github.com/mmynk/billcal/internal/storage"
	"github.com/mmynk/billcal/pkg/api/apiconnect"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config    config.ServerConfig
	Store     storage.Store
	JWT       *auth.JWTManager
	Auth      auth.Authenticator
	Cipher    service.Cipher
	Analytics service.PageSource
	Overview  analytics.Query
	Logger    *slog.Logger
}

// NewRouter builds the complete HTTP handler.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms", "Accept-Language"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         86400,
	}))
	r.Use(locale.Middleware)

	// Auth runs outside logging so the logged call carries the user ID.
	public := connect.WithInterceptors(middleware.OptionalAuth(d.JWT), middleware.LoggingInterceptor())
	private := connect.WithInterceptors(middleware.RequireAuth(d.JWT), middleware.LoggingInterceptor())

	mount := func(path string, h http.Handler) {
		r.Handle(path+"*", h)
	}
	mount(apiconnect.NewAuthServiceHandler(service.NewAuthService(d.Auth, d.Store, d.JWT, d.Logger), public))
	mount(apiconnect.NewProfileServiceHandler(service.NewProfileService(d.Store), private))
	mount(apiconnect.NewBillServiceHandler(service.NewBillService(d.Store, d.Cipher), private))
	mount(apiconnect.NewBillInstanceServiceHandler(service.NewBillInstanceService(d.Store), private))
	mount(apiconnect.NewCalendarServiceHandler(service.NewCalendarService(d.Store), private))
	mount(apiconnect.NewDashboardServiceHandler(service.NewDashboardService(d.Store), private))

	analyticsHandler := service.NewAnalyticsHandler(d.Analytics, d.Overview)
	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(d.Config.RateLimitRequests, d.Config.RateLimitWindow))
		r.Get("/matomo", analyticsHandler.Matomo)
		r.Get("/recommendations", analyticsHandler.Recommendations)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if d.Config.StaticDir != "" {
		static, err := NewStaticHandler(d.Config.StaticDir)
		if err != nil {
			d.Logger.Error("Static files disabled", "path", d.Config.StaticDir, "error", err)
		} else {
			d.Logger.Info("Serving static files", "path", static.Dir())
			r.Handle("/*", static)
		}
	}

	return r
}

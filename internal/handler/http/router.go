package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/handler/http/middleware"
	"github.com/evermoment/evermoment-backend-go/internal/handler/http/response"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	// UploadsDir is served at /uploads when files are stored locally.
	UploadsDir string
}

func NewRouter(
	logger *slog.Logger,
	cfg RouterConfig,
	JWTService jwt.Service,
	invitationHandler InvitationHandler,
	paymentHandler PaymentHandler,
	uploadHandler UploadHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	if cfg.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/invites", func(r chi.Router) {
			r.Post("/", invitationHandler.Create)
			r.Get("/", invitationHandler.GetPublic)
			r.Get("/{id}", invitationHandler.GetPublic)
		})

		r.Post("/rsvp/{id}", invitationHandler.RecordRSVP)
		r.Post("/checkout", paymentHandler.Checkout)
		r.Post("/webhooks/xendit", paymentHandler.XenditWebhook)
		r.Post("/upload", uploadHandler.UploadPhoto)

		// Requires a host token
		r.Route("/host/invitation", func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.HostRequired(JWTService))

			r.Get("/", invitationHandler.GetHost)
			r.Get("/rsvps", invitationHandler.ListGuests)
		})
	})
	return r
}

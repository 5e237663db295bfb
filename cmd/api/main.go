package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/config"
	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
	appHTTP "github.com/evermoment/evermoment-backend-go/internal/handler/http"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/cron"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/database"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/email"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/jwt"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/qrcode"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/storage"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/xendit"
	"github.com/evermoment/evermoment-backend-go/internal/repository/memory"
	"github.com/evermoment/evermoment-backend-go/internal/repository/postgresql"
	"github.com/evermoment/evermoment-backend-go/internal/service/file"
	invitationService "github.com/evermoment/evermoment-backend-go/internal/service/invitation"
	notificationService "github.com/evermoment/evermoment-backend-go/internal/service/notification"
	paymentService "github.com/evermoment/evermoment-backend-go/internal/service/payment"
	"github.com/go-chi/httplog/v3"
	"github.com/shopspring/decimal"
)

type stores struct {
	tx             invitation.Transactor
	invitationRepo invitation.InvitationRepository
	rsvpRepo       invitation.RSVPRepository
	paymentRepo    payment.Repository
	close          func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal("Error opening store: ", err)
	}
	defer st.close()

	var fileStorage storage.FileStorage
	uploadsDir := ""
	switch cfg.Storage.Type {
	case "local":
		local, err := storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
		fileStorage = local
		uploadsDir = local.BasePath()
	case "gcs":
		gcs, err := storage.NewGCSStorage(ctx, cfg.Storage.GCSBucket, cfg.Storage.GCSCredentialsFile)
		if err != nil {
			log.Fatal("Failed to initialize GCS storage: ", err)
		}
		defer gcs.Close()
		fileStorage = gcs
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	var emailService email.EmailService
	switch cfg.Email.Provider {
	case "sendgrid":
		emailService, err = email.NewSendGridEmailService(cfg.Email.SendGridAPIKey, cfg.SMTP.From, cfg.SMTP.FromName)
	default:
		emailService, err = email.NewSMTPEmailService(cfg.SMTP)
	}
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	xenditClient := xendit.NewClient(cfg.Xendit)
	if xenditClient.IsSandbox() {
		slog.Warn("Xendit is running in sandbox mode")
	}

	notifService := notificationService.NewNotificationService(emailService, notificationService.Config{
		WorkerCount: cfg.Notification.WorkerCount,
		QueueSize:   cfg.Notification.QueueSize,
		SendTimeout: cfg.Notification.SendTimeout,
	})

	fileService := file.NewFileService(fileStorage)

	invitationSvc := invitationService.NewInvitationService(
		st.tx,
		st.invitationRepo,
		st.rsvpRepo,
		JWTService,
		fileService,
		invitationService.Config{PublicBaseURL: cfg.App.PublicBaseURL},
	)
	paymentSvc := paymentService.NewPaymentService(
		st.tx,
		st.invitationRepo,
		st.paymentRepo,
		xenditClient,
		xendit.NewWebhookVerifier(cfg.Xendit.WebhookToken),
		qrcode.NewGenerator(0),
		notifService,
		paymentService.Config{
			PublicBaseURL: cfg.App.PublicBaseURL,
			Prices: map[invitation.PlanType]decimal.Decimal{
				invitation.PlanTypeBasic:   cfg.Pricing.Basic,
				invitation.PlanTypePremium: cfg.Pricing.Premium,
			},
			Currency:        cfg.Xendit.Currency,
			SuccessURL:      cfg.Checkout.SuccessURL,
			CancelURL:       cfg.Checkout.CancelURL,
			SessionDuration: cfg.Xendit.InvoiceDuration,
		},
	)

	scheduler := cron.NewScheduler()
	cron.NewRetentionJobs(invitationSvc, cfg.Retention.PurgeInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)

	router := appHTTP.NewRouter(
		logger,
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequestTimeout: cfg.App.RequestTimeout,
			UploadsDir:     uploadsDir,
		},
		JWTService,
		appHTTP.NewInvitationHandler(invitationSvc),
		appHTTP.NewPaymentHandler(paymentSvc),
		appHTTP.NewUploadHandler(fileService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "store", cfg.Database.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
	notifService.Stop()
}

func newLogger(cfg config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "evermoment-backend"),
		slog.String("env", cfg.Env),
	)
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch strings.ToLower(cfg.Database.Type) {
	case "memory":
		slog.Warn("Using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return stores{
			tx:             store,
			invitationRepo: memory.NewInvitationRepository(store),
			rsvpRepo:       memory.NewRSVPRepository(store),
			paymentRepo:    memory.NewPaymentRepository(store),
			close:          func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return stores{}, fmt.Errorf("connect to database: %w", err)
		}
		if cfg.Database.Migrate {
			if err := db.Migrate(ctx); err != nil {
				db.Close()
				return stores{}, fmt.Errorf("migrate database: %w", err)
			}
		}
		return stores{
			tx:             postgresql.NewTransactor(db),
			invitationRepo: postgresql.NewInvitationRepository(db),
			rsvpRepo:       postgresql.NewRSVPRepository(db),
			paymentRepo:    postgresql.NewPaymentRepository(db),
			close:          db.Close,
		}, nil
	}
}

// Package juntimo собирает приложение: подключения к хранилищам, платёжный
// шлюз, бизнес-сервисы, HTTP-сервер и его маршруты.
package juntimo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/juntimo/juntimo-backend/internal/config"
	"github.com/juntimo/juntimo-backend/internal/lib/jwt"
	"github.com/juntimo/juntimo-backend/internal/lib/sl"
	"github.com/juntimo/juntimo-backend/internal/migrations"
	"github.com/juntimo/juntimo-backend/internal/paypal"
	"github.com/juntimo/juntimo-backend/internal/rabbitmq"
	authservice "github.com/juntimo/juntimo-backend/internal/services/auth"
	bienservice "github.com/juntimo/juntimo-backend/internal/services/bien"
	"github.com/juntimo/juntimo-backend/internal/services/enrollment"
	"github.com/juntimo/juntimo-backend/internal/services/groupe"
	projetservice "github.com/juntimo/juntimo-backend/internal/services/projet"
	"github.com/juntimo/juntimo-backend/internal/sessionstore"
	"github.com/juntimo/juntimo-backend/internal/storage/repository"
)

// App — собранное приложение с HTTP-сервером и внешними подключениями.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	sessions *sessionstore.Store
}

// New инициализирует хранилища, сервисы и HTTP-сервер приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	sessions, err := sessionstore.InitServer(ctx, cfg.RedisConnection, cfg.Session.CookieTTL)
	if err != nil {
		return nil, err
	}

	gateway := paypal.NewClient(cfg.PayPal.ClientID, cfg.PayPal.ClientSecret, cfg.PayPal.Mode)

	// RabbitMQ не обязателен: без него события регистраций не публикуются.
	var publisher *rabbitmq.Publisher
	if cfg.RabbitMQConnection != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 2*time.Second)
		if err != nil {
			logger.Warn("rabbitmq is unavailable, enrollment events are disabled", sl.Err(err))
		} else {
			ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetEnrollmentQueues())
			if err != nil {
				logger.Warn("failed to set up rabbitmq channel, enrollment events are disabled", sl.Err(err))
			} else {
				publisher = rabbitmq.NewPublisher(ch)
			}
		}
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	ledger := groupe.NewLedger(db, logger)
	authService := authservice.New(db, jwtMaker, logger)
	bienService := bienservice.New(db, logger)
	projetService := projetservice.New(db, db, ledger, logger)

	var events enrollment.EventPublisher
	if publisher != nil {
		events = publisher
	}
	enrollmentService := enrollment.New(db, db, ledger, gateway, sessions, jwtMaker,
		events, logger, cfg.PayPal.BaseURL, cfg.Session.PendingExpiry)

	if err := authService.EnsureDefaultAdmin(ctx, cfg.DefaultAdmin.Email, cfg.DefaultAdmin.Password); err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, enrollmentService, bienService, projetService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		sessions: sessions,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		a.sessions.Db.Close()
		return err
	}
}

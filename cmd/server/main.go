package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/Skotchmaster/crm_dashboard/internal/catalog"
	"github.com/Skotchmaster/crm_dashboard/internal/config"
	"github.com/Skotchmaster/crm_dashboard/internal/customers"
	"github.com/Skotchmaster/crm_dashboard/internal/es"
	"github.com/Skotchmaster/crm_dashboard/internal/handlers"
	"github.com/Skotchmaster/crm_dashboard/internal/logging"
	authmw "github.com/Skotchmaster/crm_dashboard/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/crm_dashboard/internal/middleware/logging"
	metricsmw "github.com/Skotchmaster/crm_dashboard/internal/middleware/metrics"
	"github.com/Skotchmaster/crm_dashboard/internal/mykafka"
	"github.com/Skotchmaster/crm_dashboard/internal/notify"
	"github.com/Skotchmaster/crm_dashboard/internal/productapi"
	"github.com/Skotchmaster/crm_dashboard/internal/search"
	"github.com/Skotchmaster/crm_dashboard/internal/session"
	httpserver "github.com/Skotchmaster/crm_dashboard/internal/transport/http"
)

type publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("config_error", "error", err)
		os.Exit(1)
	}

	ctx := logging.IntoContext(context.Background(), logger)

	prod := newPublisher(logger, cfg.KafkaBrokers)

	cat := catalog.New(productapi.NewClient(cfg.ProductAPIURL, cfg.ProductAPITimeout), prod)

	sess, db, verifier, err := newSession(ctx, cfg)
	if err != nil {
		logger.Error("session_init_error", "auth_mode", cfg.AuthMode, "error", err)
		os.Exit(1)
	}
	sess.Publisher = prod
	if res := sess.Initialize(ctx); !res.IsOk() {
		logger.Warn("session_restore_error", "reason", res.Message())
	}

	searchHandler := &handlers.SearchHandler{Catalog: cat}
	if cfg.ESURL != "" {
		config.MustNonEmpty(cfg.ESIndex, "ES_INDEX")
		client, err := es.NewClient(ctx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			logger.Warn("es_unavailable", "reason", "search falls back to the held page", "error", err)
		} else {
			index := search.NewIndex(client, cfg.ESIndex)
			cat.Indexer = index
			searchHandler.Index = index
		}
	}

	notices := notify.NewQueue(notify.DefaultCapacity)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := metricsmw.New(reg)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
		}),
		loggingmw.RequestLogger(logger),
		metrics.Middleware(),
	)

	deps := httpserver.Deps{
		AuthHandler:         &handlers.AuthHandler{Session: sess, Notices: notices},
		ProductHandler:      &handlers.ProductHandler{Catalog: cat, Notices: notices},
		SearchHandler:       searchHandler,
		CustomerHandler:     &handlers.CustomerHandler{Book: customers.NewBook(prod), Notices: notices},
		DashboardHandler:    &handlers.DashboardHandler{Catalog: cat, Session: sess, Notices: notices},
		SettingsHandler:     handlers.NewSettingsHandler(sess, notices),
		NotificationHandler: &handlers.NotificationHandler{Notices: notices},
		Guard:               &authmw.Guard{Session: sess},
		Metrics:             metrics,
		CSRF:                cfg.CSRFEnabled,
	}
	if verifier != nil {
		deps.Guard.Verifier = verifier
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_server_start", "addr", srv.Addr, "auth_mode", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	go func() {
		<-quit
		logger.Warn("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	sess.Close()

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Error("db_close_error", "error", err)
			}
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown complete")
}

// newPublisher returns a kafka producer, or a no-op when no brokers are
// configured.
func newPublisher(logger *slog.Logger, brokers []string) publisher {
	if len(brokers) == 0 {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
		return mykafka.Nop{}
	}
	if err := mykafka.EnsureTopics(brokers[0], mykafka.Topics()...); err != nil {
		logger.Warn("kafka_topics_error", "error", err)
	}
	prod, err := mykafka.NewProducer(brokers)
	if err != nil {
		logger.Warn("kafka_producer_error", "reason", "events are dropped", "error", err)
		return mykafka.Nop{}
	}
	return prod
}

// newSession builds the session store for the configured auth mode. The
// database and token verifier are only set in local mode.
func newSession(ctx context.Context, cfg config.Config) (*session.Store, *gorm.DB, authmw.TokenVerifier, error) {
	switch cfg.AuthMode {
	case config.AuthModeRemote:
		s := session.NewStore(session.NewRemoteProvider(cfg.AuthURL, cfg.AuthAPIKey), session.VariantDelegating)
		s.EmailRedirectTo = cfg.AuthEmailRedirectURL
		return s, nil, nil, nil
	case config.AuthModeLocal:
		config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
		db, err := config.OpenDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		p := session.NewLocalProvider(db, cfg.JWTSecret)
		return session.NewStore(p, session.VariantDelegating), db, p, nil
	default:
		return session.NewStore(session.GuestProvider{}, session.VariantGuest), nil, nil, nil
	}
}

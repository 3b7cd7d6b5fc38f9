package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/growthos/growthos/internal/activation"
	"github.com/growthos/growthos/internal/ai"
	"github.com/growthos/growthos/internal/alerts"
	"github.com/growthos/growthos/internal/app"
	"github.com/growthos/growthos/internal/assets"
	"github.com/growthos/growthos/internal/audit"
	"github.com/growthos/growthos/internal/auth"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/channels"
	"github.com/growthos/growthos/internal/connectors"
	"github.com/growthos/growthos/internal/creators"
	"github.com/growthos/growthos/internal/experiments"
	"github.com/growthos/growthos/internal/funnels"
	"github.com/growthos/growthos/internal/mail"
	"github.com/growthos/growthos/internal/observability"
	"github.com/growthos/growthos/internal/platform/db"
	"github.com/growthos/growthos/internal/portal"
	"github.com/growthos/growthos/internal/reports"
	"github.com/growthos/growthos/internal/strategy"
	"github.com/growthos/growthos/internal/tenancy"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessions := auth.NewSessionStore(redisClient, cfg.SessionTTL)
	authService := auth.NewService(auth.NewPgRepository(dbpool), sessions)
	authHandler := auth.NewHandler(logger, authService)

	auditService := audit.NewService(audit.NewPgRepository(dbpool), logger)

	tenancyService := tenancy.NewService(tenancy.NewPgRepository(dbpool), auditService)
	gate := authz.NewGate(tenancyService, logger)
	tenancyHandler := tenancy.NewHandler(logger, tenancyService, gate)
	auditHandler := audit.NewHandler(logger, auditService, gate)

	var mailer mail.Mailer = mail.NewDisabled(logger)
	if cfg.MailEnabled {
		smtp, err := mail.NewSMTP(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			logger.Error("smtp client", slog.Any("error", err))
			os.Exit(1)
		}
		mailer = smtp
	}
	dispatcher := mail.NewDispatcher(mailer, authService, tenancyService, logger, cfg.MailBaseURL)

	var primary ai.Narrator
	if cfg.AnthropicAPIKey != "" {
		primary = ai.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	narrator := ai.NewResilient(primary, logger)

	strategyService := strategy.NewService(strategy.NewPgRepository(dbpool))
	strategyHandler := strategy.NewHandler(logger, strategyService, gate)

	funnelService := funnels.NewService(funnels.NewPgRepository(dbpool))
	funnelHandler := funnels.NewHandler(logger, funnelService, gate)

	activationService := activation.NewService(activation.NewPgRepository(dbpool), auditService)
	activationHandler := activation.NewHandler(logger, activationService, gate)

	experimentService := experiments.NewService(experiments.NewPgRepository(dbpool), auditService, dispatcher)
	experimentHandler := experiments.NewHandler(logger, experimentService, gate)

	assetService := assets.NewService(assets.NewPgRepository(dbpool))
	assetHandler := assets.NewHandler(logger, assetService, gate)

	creatorService := creators.NewService(creators.NewPgRepository(dbpool))
	creatorHandler := creators.NewHandler(logger, creatorService, gate)

	channelService := channels.NewService(channels.NewPgRepository(dbpool), connectors.Default(), logger)
	channelHandler := channels.NewHandler(logger, channelService, gate)

	contexts := app.NewContextBuilder(tenancyService, strategyService, experimentService, assetService, channelService, logger)

	reportService := reports.NewService(reports.NewPgRepository(dbpool), auditService, dispatcher, narrator, contexts, logger)
	reportHandler := reports.NewHandler(logger, reportService, gate)

	alertService := alerts.NewService(alerts.NewPgRepository(dbpool), channelService)
	alertHandler := alerts.NewHandler(logger, alertService, gate)

	aiHandler := ai.NewHandler(logger, narrator, gate, contexts)

	portalService := portal.NewService(tenancyService, strategyService, experimentService, reportService, channelService, assetService, logger)
	portalHandler := portal.NewHandler(logger, portalService, gate)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:      logger,
		Config:      cfg,
		AuthService: authService,

		AuthHandler:       authHandler,
		TenancyHandler:    tenancyHandler,
		StrategyHandler:   strategyHandler,
		FunnelHandler:     funnelHandler,
		ActivationHandler: activationHandler,
		ExperimentHandler: experimentHandler,
		AssetHandler:      assetHandler,
		CreatorHandler:    creatorHandler,
		ChannelHandler:    channelHandler,
		ReportHandler:     reportHandler,
		AlertHandler:      alertHandler,
		AIHandler:         aiHandler,
		PortalHandler:     portalHandler,
		AuditHandler:      auditHandler,

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

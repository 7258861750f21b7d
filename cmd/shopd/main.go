package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"shopd/internal/accounts"
	"shopd/internal/catalog"
	"shopd/internal/config"
	"shopd/internal/db"
	"shopd/internal/events"
	"shopd/internal/httpapi"
	"shopd/internal/media"
	"shopd/internal/notify"
	"shopd/internal/orders"
	"shopd/internal/otel"
	"shopd/internal/payments"
	"shopd/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	cleanup, err := otel.Init(ctx, version.Name, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("init otel")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cleanup(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown otel")
		}
	}()

	database, err := db.Connect(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := db.Migrate(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	bus, err := events.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect nats")
	}
	defer bus.Close()

	templates, err := notify.NewTemplates(cfg.ProjectName)
	if err != nil {
		log.Fatal().Err(err).Msg("parse email templates")
	}
	mailer := notify.NewResendMailer(cfg.ResendAPIKey, cfg.ProjectName, cfg.ResendFromEmail)

	var assets media.Store
	if cfg.S3Endpoint != "" {
		s3Store, err := media.NewS3Store(ctx, media.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("init media store")
		}
		assets = s3Store
	}

	accountsSvc := accounts.NewService(accounts.NewGormStore(database), mailer, templates, bus, cfg)
	catalogSvc := catalog.NewService(catalog.NewGormStore(database), assets)
	ordersSvc := orders.NewService(orders.NewGormStore(database), mailer, templates, bus)
	paymentsSvc := payments.NewService(
		payments.NewGormStore(database),
		payments.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		bus,
		cfg.PaymentCurrency,
	)

	api := httpapi.New(accountsSvc, catalogSvc, ordersSvc, paymentsSvc)
	handler := api.Routes(httpapi.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("version", version.Version).Msg("starting shopd")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
}

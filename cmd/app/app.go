package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ormeet/ormeet-api/internal/api"
	"github.com/ormeet/ormeet-api/internal/config"
	"github.com/ormeet/ormeet-api/internal/db"
	"github.com/ormeet/ormeet-api/internal/logger"
	"github.com/ormeet/ormeet-api/internal/mailer"
	"github.com/ormeet/ormeet-api/internal/notify"
	"github.com/ormeet/ormeet-api/internal/payment"
	"github.com/ormeet/ormeet-api/internal/reminder"
	"github.com/ormeet/ormeet-api/internal/repository"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
	"github.com/ormeet/ormeet-api/internal/storage"
)

const reminderLockKey = "ormeet:reminders:lock"

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	redisClient, err := openRedis(ctx, conf)
	if err != nil {
		return fmt.Errorf("failed to initialize redis -> %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	dispatcher, err := notify.NewDispatcher(mailer.New(conf.SMTP), conf.SMTP.Workers, conf.SMTP.Queue)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier -> %w", err)
	}

	verifier := payment.NewRegistry(conf.Payment.UnverifiedProviders...)
	if conf.Stripe.SecretKey != "" {
		verifier.Register(payment.ProviderStripe, payment.NewStripeVerifier(conf.Stripe.SecretKey))
	}

	store, err := storage.NewLocal(conf.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage -> %w", err)
	}

	s := api.NewServer(conf, api.Deps{
		Postgres: postgresDB,
		Redis:    redisClient,
		Notifier: dispatcher,
		Verifier: verifier,
		Storage:  store,
	})

	if conf.Reminders.Enabled {
		sweeper := newSweeper(conf, postgresDB, redisClient, dispatcher)
		go sweeper.Run(ctx)
	}

	srv := &http.Server{
		Addr:    ":" + conf.API.Port,
		Handler: s.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.API.ShutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("failed to shut down the server", zap.Error(err))
	}
	if err = dispatcher.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("failed to drain the notification queue", zap.Error(err))
	}

	return nil
}

// openRedis returns a nil client when redis is not configured.
func openRedis(ctx context.Context, conf *config.AppConfig) (*redis.Client, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = conf.Redis.URL
	}
	if url == "" {
		zap.L().Info("redis not configured, rate limiting disabled and reminder lock is local")
		return nil, nil
	}

	return db.OpenRedis(ctx, url)
}

func newSweeper(conf *config.AppConfig, postgresDB *gorm.DB, redisClient *redis.Client, sender reminder.Sender) *reminder.Sweeper {
	var locker reminder.Locker = &reminder.LocalLocker{}
	if redisClient != nil {
		locker = reminder.NewRedisLocker(redisClient, reminderLockKey, conf.Reminders.LockTTL)
	}

	return reminder.NewSweeper(
		conf.Reminders,
		conf.API.FrontendURL,
		repository.NewEventRepository(dao.NewEventDAO(postgresDB)),
		repository.NewVenueRepository(dao.NewVenueDAO(postgresDB)),
		repository.NewReminderRepository(dao.NewReminderDAO(postgresDB)),
		sender,
		locker,
	)
}

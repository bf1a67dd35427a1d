package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sushihentaime/blogbook/internal/blogservice"
	"github.com/sushihentaime/blogbook/internal/common"
	"github.com/sushihentaime/blogbook/internal/mailservice"
	"github.com/sushihentaime/blogbook/internal/ratelimit"
	"github.com/sushihentaime/blogbook/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	userService *userservice.UserService
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
	broker      *common.MessageBroker
	limiter     *ratelimit.Limiter
}

func main() {
	cfg, err := loadConfig(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg)

	app, cleanup, err := newApplication(cfg, logger)
	if err != nil {
		logger.Error("failed to start", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	err = app.serve()
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newLogger writes to stdout and, when LOG_FILE is set, to a rotated file.
func newLogger(cfg *Config) *slog.Logger {
	var w io.Writer = os.Stdout
	if cfg.LogFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}

	return slog.New(slog.NewTextHandler(w, nil))
}

// newApplication wires the services described by cfg. The returned cleanup
// releases the database, broker and mail consumer.
func newApplication(cfg *Config, logger *slog.Logger) (*application, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var repo blogservice.Repository
	switch cfg.Store {
	case "memory":
		repo = blogservice.NewMemoryRepository()
	case "postgres":
		db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to the database: %w", err)
		}
		closers = append(closers, func() { _ = common.CloseDB(db) })

		if err := common.MigrateUp(db); err != nil {
			cleanup()
			return nil, nil, err
		}
		repo = blogservice.NewPostgresRepository(db)
	default:
		return nil, nil, fmt.Errorf("unknown STORE %q", cfg.Store)
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		blogService: blogservice.NewBlogService(repo),
	}

	if err := app.blogService.ObserveStoredIDs(context.Background()); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to read stored blog ids: %w", err)
	}

	var producer common.MessageProducer = common.NopProducer{}
	if cfg.MQHost != "" {
		broker, err := common.NewMessageBroker(common.BrokerURI(cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort))
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to connect to the message broker: %w", err)
		}
		closers = append(closers, func() { _ = broker.Close() })

		if err := broker.Declare(common.UserCreated); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to declare the user exchange: %w", err)
		}
		app.broker = broker
		producer = broker

		if cfg.MailHost != "" {
			app.mailService = mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger)
			if err := app.mailService.SendWelcomeEmail(); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("failed to start the mail consumer: %w", err)
			}
			closers = append(closers, app.mailService.Close)
		}
	}

	app.userService = userservice.NewUserService(userservice.NewMemoryDirectory(), producer, userservice.NewSessionRegistry(cfg.SessionTTL))
	if err := app.userService.Seed(context.Background(), userservice.SeedUsers()); err != nil {
		cleanup()
		return nil, nil, err
	}

	if cfg.RateLimitRPS > 0 {
		app.limiter = ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	return app, cleanup, nil
}

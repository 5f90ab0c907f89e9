package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/hosteldesk/hosteldesk-backend/api/routes"
	"github.com/hosteldesk/hosteldesk-backend/internal/auth"
	"github.com/hosteldesk/hosteldesk-backend/internal/complaints"
	"github.com/hosteldesk/hosteldesk-backend/internal/hostels"
	"github.com/hosteldesk/hosteldesk-backend/internal/mailer"
	"github.com/hosteldesk/hosteldesk-backend/internal/media"
	"github.com/hosteldesk/hosteldesk-backend/internal/notifications"
	"github.com/hosteldesk/hosteldesk-backend/internal/reports"
	"github.com/hosteldesk/hosteldesk-backend/internal/users"
	"github.com/hosteldesk/hosteldesk-backend/pkg/config"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db"
	"github.com/hosteldesk/hosteldesk-backend/pkg/logger"
	"github.com/hosteldesk/hosteldesk-backend/pkg/migrate"
	"github.com/hosteldesk/hosteldesk-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sender := mailer.NewNoopSender()
	if cfg.SMTP.Enabled() {
		sender, err = mailer.NewSMTPSender(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create smtp sender", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "smtp not configured, email delivery disabled")
	}

	notificationsRepo := notifications.NewRepository(dbClient.DB())
	notifier, err := notifications.NewNotifier(notificationsRepo, sender, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifier", err)
		os.Exit(1)
	}
	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	usersService, err := users.NewService(usersRepo, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	hostelsRepo := hostels.NewRepository(dbClient.DB())
	hostelsService, err := hostels.NewService(hostelsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create hostels service", err)
		os.Exit(1)
	}

	complaintsService, err := complaints.NewService(
		complaints.NewRepository(dbClient.DB()),
		usersRepo,
		hostelsRepo,
		notifier,
		cfg.SLA.DefaultHours,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create complaints service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		DB:           dbClient,
		Notifier:     notifier,
		JWTConfig:    cfg.JWT,
		PasswordCfg:  cfg.Password,
		Registration: cfg.Registration,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	var mediaStore media.Store
	if cfg.Media.Endpoint != "" {
		mediaStore, err = media.NewObjectStore(context.Background(), cfg.Media)
		if err != nil {
			logg.Error(context.Background(), "failed to create media store", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "media endpoint not configured, photo uploads disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Auth:          authService,
			Complaints:    complaintsService,
			Users:         usersService,
			Hostels:       hostelsService,
			Notifications: notificationsService,
			Reports:       reportsService,
			Media:         mediaStore,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"restoran/internal/app"
	"restoran/internal/config"
	"restoran/internal/database"
	"restoran/internal/notify"
	"restoran/internal/otp"
	"restoran/internal/payment"
	"restoran/internal/repositories"
	"restoran/internal/services"
	"restoran/internal/storage"
	"restoran/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg).Sugar()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := setup(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("failed to start", "error", err)
	}
	defer srv.close()

	if srv.broker != nil {
		if err := srv.broker.Consume(rabbitmq.KitchenLogger(logger)); err != nil {
			logger.Warnw("failed to start kitchen event consumer", "error", err)
		}
	}

	go func() {
		logger.Infow("starting server", "port", cfg.AppPort, "env", cfg.Env)
		if err := srv.http.Listen(cfg.AppPort); err != nil {
			logger.Fatalw("server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-ctx.Done()
	logger.Info("shutting down server")
	if err := srv.http.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Errorw("error during fiber shutdown", "error", err)
	}
	logger.Info("server gracefully stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.IsDevelopment() {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}

// server is the wired application plus the resources to release on exit.
type server struct {
	http   *fiber.App
	broker *rabbitmq.Client
	close  func()
}

// setup connects every dependency and builds the HTTP app. Background janitors stop when
// ctx is cancelled.
func setup(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (srv *server, err error) {
	// database
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	var broker *rabbitmq.Client
	release := func() {
		if err := broker.Close(); err != nil {
			logger.Warnw("failed to close RabbitMQ", "error", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	defer func() {
		if err != nil {
			logger.Warnw("setup failed, releasing connections", "error", err)
			release()
		}
	}()

	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	logger.Infow("database ready", "driver", cfg.Database.Driver)

	// repos
	userRepo := repositories.NewGORMUserRepository(db)
	menuRepo := repositories.NewGORMMenuRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// rabbitmq broker, optional
	var publisher services.EventPublisher
	if cfg.RabbitMQ.Enabled {
		broker, err = rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		}, logger)
		if err != nil {
			logger.Warnw("RabbitMQ unavailable, kitchen events disabled", "error", err)
		} else {
			publisher = broker
		}
	}

	// image storage, optional
	var images services.ImageStore
	if cfg.S3.Bucket != "" {
		uploader, err := storage.NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			logger.Warnw("S3 unavailable, image uploads disabled", "error", err)
		} else {
			images = uploader
		}
	} else {
		logger.Warn("AWS_S3_BUCKET not set, image uploads disabled")
	}

	// payment gateway, optional
	var gateway services.PaymentGateway
	if cfg.Midtrans.ServerKey != "" {
		gateway = payment.NewMidtrans(cfg.Midtrans)
	} else {
		logger.Warn("MIDTRANS_SERVER_KEY not set, online payments disabled")
	}

	// services
	limiter := services.NewLoginLimiter(cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow, nil)
	authService := services.NewAuthService(userRepo, limiter, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)
	menuService := services.NewMenuService(menuRepo, images, publisher, logger)
	orderService := services.NewOrderService(orderRepo, menuRepo, publisher,
		services.OrderOptions{RecomputeTotal: cfg.RecomputeOrderTotal}, logger)
	paymentService := services.NewPaymentService(orderService, gateway, logger)

	// seed data
	if cfg.Admin.Password != "" {
		if err := authService.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			return nil, err
		}
	} else {
		logger.Warn("ADMIN_PASSWORD not set, no admin account seeded")
	}
	if cfg.MenuSeedFile != "" {
		if _, err := database.SeedMenu(ctx, menuRepo, cfg.MenuSeedFile, logger); err != nil {
			return nil, err
		}
	}

	// otp
	emailOTP := otp.NewService("email",
		otp.NewStore(cfg.OTP.EmailCodeLength, cfg.OTP.TTL), emailSender(cfg, logger), logger)
	mobileOTP := otp.NewService("sms",
		otp.NewStore(cfg.OTP.MobileCodeLength, cfg.OTP.TTL), smsSender(cfg, logger), logger)
	janitor := func(channel string, store *otp.Store) {
		store.RunJanitor(ctx, cfg.OTP.SweepInterval, func(removed int) {
			logger.Debugw("expired codes swept", "channel", channel, "removed", removed)
		})
	}
	go janitor("email", emailOTP.Store())
	go janitor("sms", mobileOTP.Store())
	go sweepLimiter(ctx, limiter, cfg.Auth.LoginWindow)

	httpApp := app.New(app.Deps{
		Auth:            authService,
		Menu:            menuService,
		Orders:          orderService,
		Payments:        paymentService,
		EmailOTP:        emailOTP,
		MobileOTP:       mobileOTP,
		Logger:          logger,
		BrokerConnected: broker != nil,
		RequestLog:      cfg.IsDevelopment(),
	})

	return &server{
		http:   httpApp,
		broker: broker,
		close:  release,
	}, nil
}

func emailSender(cfg *config.Config, logger *zap.SugaredLogger) otp.Sender {
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set, email codes are only logged")
		return notify.NewLogSender("email", logger)
	}
	return notify.NewEmailSender(cfg.SMTP, cfg.OTP.TTL)
}

func smsSender(cfg *config.Config, logger *zap.SugaredLogger) otp.Sender {
	if cfg.SMS.Endpoint == "" {
		logger.Warn("SMS_ENDPOINT not set, mobile codes are only logged")
		return notify.NewLogSender("sms", logger)
	}
	return notify.NewSMSSender(cfg.SMS, cfg.OTP.TTL)
}

// sweepLimiter drops stale login failure records once per window.
func sweepLimiter(ctx context.Context, limiter *services.LoginLimiter, window time.Duration) {
	if window <= 0 {
		return
	}
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}

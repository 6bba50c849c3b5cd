package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Eursukkul/salon-booking-service/config"
	"github.com/Eursukkul/salon-booking-service/internal/availability"
	"github.com/Eursukkul/salon-booking-service/internal/consumer"
	"github.com/Eursukkul/salon-booking-service/internal/handler"
	"github.com/Eursukkul/salon-booking-service/internal/metrics"
	"github.com/Eursukkul/salon-booking-service/internal/middleware"
	"github.com/Eursukkul/salon-booking-service/internal/notify"
	"github.com/Eursukkul/salon-booking-service/internal/repository"
	"github.com/Eursukkul/salon-booking-service/internal/service"
	"github.com/Eursukkul/salon-booking-service/internal/validation"
	"github.com/Eursukkul/salon-booking-service/internal/wizard"
	"github.com/Eursukkul/salon-booking-service/pkg/database"
	"github.com/Eursukkul/salon-booking-service/pkg/logging"
	"github.com/Eursukkul/salon-booking-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel, cfg.AppEnv)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()
	db := database.NewPostgresDB(cfg.DSN(), logger)
	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	// Availability cache: optional, the service reads straight from Postgres without it
	var cache availability.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, availability cache disabled", zap.Error(err))
		} else {
			cache = availability.NewRedisCache(rdb, cfg.AvailabilityCacheTTL)
		}
	}

	// Email: SendGrid when a key is configured, otherwise log only
	var sender notify.EmailSender = notify.NewStubEmailSender(logger)
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	}, logger); sg != nil {
		sender = sg
	}

	// RabbitMQ: booking.confirmed events feed the confirmation email consumer
	var publisher service.Publisher
	mqPublisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, logger)
	if err != nil {
		logger.Warn("rabbitmq publisher unavailable, confirmation emails disabled", zap.Error(err))
	} else {
		defer mqPublisher.Close()
		publisher = mqPublisher

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, logger)
		if err != nil {
			logger.Fatal("failed to connect rabbitmq consumer", zap.Error(err))
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			logger.Fatal("failed to start consuming", zap.Error(err))
		}
		consumer.NewNotificationConsumer(sender, bookingMetrics, logger).Start(msgs)
	}

	// Repositories
	salonRepo := repository.NewSalonRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Services
	availSvc := availability.NewService(bookingRepo, cache, availability.Options{
		Location:   loc,
		WindowDays: cfg.MaxBookingWindowDays,
		Logger:     logger,
	})
	submissionSvc := service.NewSubmissionService(service.SubmissionDeps{
		Bookings:     bookingRepo,
		Availability: availSvc,
		Validator:    validation.New(validation.WithLocation(loc)),
		Confirmation: service.NewConfirmationGenerator(cfg.ConfirmationSource, bookingRepo),
		Publisher:    publisher,
		Metrics:      bookingMetrics,
		Logger:       logger,
	})
	sessions := wizard.NewStore(cfg.SessionTTL, logger)
	go sessions.Run(ctx, time.Minute)

	bookingSvc := service.NewBookingService(service.BookingServiceDeps{
		Salons:       salonRepo,
		Bookings:     bookingRepo,
		Availability: availSvc,
		Submission:   submissionSvc,
		Sessions:     sessions,
		ResetDelay:   cfg.CompleteResetDelay,
		Metrics:      bookingMetrics,
		Logger:       logger,
	})

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = middleware.NewErrorHandler(logger)
	httpLog := logger.Named("http")
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			httpLog.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "salon-booking-service"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler.NewBookingHandler(bookingSvc).RegisterRoutes(e)

	go func() {
		logger.Info("salon booking service starting", zap.String("port", cfg.ServerPort))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("salon booking service stopped")
}

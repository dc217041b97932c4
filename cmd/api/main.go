package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chalepay/voucher-api/config"
	"github.com/chalepay/voucher-api/pkg/affiliate"
	"github.com/chalepay/voucher-api/pkg/api/handlers"
	"github.com/chalepay/voucher-api/pkg/email"
	"github.com/chalepay/voucher-api/pkg/jobs"
	"github.com/chalepay/voucher-api/pkg/metrics"
	custommiddleware "github.com/chalepay/voucher-api/pkg/middleware"
	"github.com/chalepay/voucher-api/pkg/payments"
	"github.com/chalepay/voucher-api/pkg/paystack"
	"github.com/chalepay/voucher-api/pkg/sms"
	"github.com/chalepay/voucher-api/pkg/store"
	"github.com/chalepay/voucher-api/pkg/voucher"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.APIEnvironment)

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Open the voucher workbook, creating an empty one on first run
	workbook, err := openStore(cfg.StorePath)
	if err != nil {
		log.Fatalf("❌ Failed to open voucher store: %v", err)
	}
	defer workbook.Close()
	log.Printf("✅ Voucher store loaded: %s", cfg.StorePath)

	// Services
	vouchers := voucher.NewService(workbook)
	affiliates := affiliate.NewService(workbook, cfg.AffiliateCommissionGHS)

	// Idempotency guard: workbook log, fronted by Redis when configured
	var guard payments.Guard = payments.NewSheetGuard(workbook)
	if cfg.RedisURL != "" {
		redisClient, err := payments.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, duplicate checks use the workbook only: %v", err)
		} else {
			defer redisClient.Close()
			guard = payments.NewRedisGuard(redisClient, guard)
			log.Printf("✅ Redis idempotency guard enabled")
		}
	}

	// SMS provider: Arkesel when an API key is configured, console otherwise
	var provider sms.Provider = sms.ConsoleProvider{}
	if cfg.ArkeselAPIKey != "" {
		provider = sms.NewArkeselProvider(cfg.ArkeselAPIKey, cfg.SMSSenderID, "")
		log.Printf("✅ Arkesel SMS provider enabled (sender: %s)", cfg.SMSSenderID)
	} else {
		log.Printf("ℹ️  No Arkesel API key, SMS messages go to the console")
	}
	smsService := sms.NewService(provider)

	emailService := email.NewService(cfg.EmailFrom, cfg.EmailFromName, cfg.SendGridAPIKey)

	gateway := paystack.NewClient(cfg.PaystackSecretKey, cfg.PaystackBaseURL)

	// Handlers
	paymentHandler := handlers.NewPaymentHandler(
		gateway,
		vouchers,
		guard,
		smsService,
		emailService,
		affiliates,
		cfg.WebhookSecret,
		cfg.VoucherPriceGHS,
	)
	healthHandler := handlers.NewHealthHandler(vouchers)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Rate limiters
	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	createPaymentRateLimiter := custommiddleware.NewRateLimiter(10, 3)
	webhookRateLimiter := custommiddleware.NewRateLimiter(100, 20)

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d", c.Request().Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	e.Use(metrics.Middleware())
	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(nil)))
	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(globalRateLimiter.RateLimitMiddleware())

	// Routes
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/create-payment", paymentHandler.CreatePayment, createPaymentRateLimiter.RateLimitMiddleware())
	e.POST("/webhook", paymentHandler.Webhook, webhookRateLimiter.RateLimitMiddleware())

	// Cron jobs: hourly stock sweep, daily summary
	cronManager := jobs.NewCronManager(vouchers, emailService, cfg.OpsAlertEmail, cfg.LowStockThreshold)
	if err := cronManager.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron jobs: %v", err)
	}

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 ChalePay voucher API starting on %s", address)
	log.Printf("🛡️  Rate limiting: %d req/min (burst: %d)", cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	log.Printf("💳 Voucher price: GHS %.2f, affiliate commission: GHS %.2f", cfg.VoucherPriceGHS, cfg.AffiliateCommissionGHS)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	cronManager.Stop()
	log.Println("✅ Cron jobs stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}

// openStore opens the workbook at path, creating directories and an empty
// workbook on first run so the service can come up before vouchers are
// loaded.
func openStore(path string) (*store.Workbook, error) {
	if _, err := os.Stat(path); err == nil {
		return store.Open(path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	log.Printf("⚠️  No workbook at %s, creating an empty one", path)
	return store.Create(path)
}

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hstore/ms-go-employer-subscriptions/app/controller"
	"github.com/hstore/ms-go-employer-subscriptions/app/repository"
	"github.com/hstore/ms-go-employer-subscriptions/app/service"
	"github.com/hstore/ms-go-employer-subscriptions/app/vnpay"
	"github.com/hstore/ms-go-employer-subscriptions/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server for the employer subscriptions service.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	subscriptionController, paymentController := buildControllers(db, cfg)

	e := setupHTTPServer(subscriptionController, paymentController)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func buildControllers(db *sql.DB, cfg *config.Config) (*controller.SubscriptionController, *controller.PaymentController) {
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	packageRepo := repository.NewSubscriptionPackageRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	subscriptionRepo := repository.NewEmployerSubscriptionRepository(db)
	usageRepo := repository.NewJobPostingUsageRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	txRunner := repository.NewTxRunner(db)

	quotaStores := func(tx repository.DBTX) service.QuotaTxStores {
		return service.QuotaTxStores{
			Usage:         usageRepo.WithTx(tx),
			Subscriptions: subscriptionRepo.WithTx(tx),
		}
	}
	paymentStores := func(tx repository.DBTX) service.PaymentTxStores {
		return service.PaymentTxStores{
			Transactions:  transactionRepo.WithTx(tx),
			Subscriptions: subscriptionRepo.WithTx(tx),
		}
	}

	gateway := vnpay.NewClient(vnpay.Config{
		TmnCode:      cfg.VNPay.TmnCode,
		HashSecret:   cfg.VNPay.HashSecret,
		PayURL:       cfg.VNPay.PayURL,
		ReturnURL:    cfg.VNPay.ReturnURL,
		ExpireWindow: cfg.VNPay.ExpireWindow,
	})

	packageService := service.NewPackageService(packageRepo)
	promotionService := service.NewPromotionService(promotionRepo, packageRepo)
	subscriptionService := service.NewEmployerSubscriptionService(userRepo, companyRepo, packageRepo, subscriptionRepo, promotionService)
	quotaService := service.NewQuotaService(userRepo, companyRepo, packageRepo, txRunner, quotaStores, cfg.Quota)
	paymentService := service.NewPaymentService(userRepo, companyRepo, packageRepo, transactionRepo, gateway, txRunner, paymentStores)

	subscriptionController := controller.NewSubscriptionController(packageService, promotionService, subscriptionService, quotaService)
	paymentController := controller.NewPaymentController(paymentService)

	return subscriptionController, paymentController
}

func setupHTTPServer(
	subscriptionController *controller.SubscriptionController,
	paymentController *controller.PaymentController,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string {
			return fmt.Sprintf("rest-%s", uuid.New().String())
		},
	}))

	e.GET("/health", subscriptionController.Health)

	packages := e.Group("/packages")
	packages.GET("", subscriptionController.ListActivePackages)
	packages.POST("", subscriptionController.CreatePackage)
	packages.GET("/:id", subscriptionController.GetPackage)
	packages.PUT("/:id", subscriptionController.UpdatePackage)
	packages.DELETE("/:id", subscriptionController.DeletePackage)
	packages.GET("/:id/price", subscriptionController.GetPackagePrice)

	subscriptions := e.Group("/subscriptions")
	subscriptions.POST("/purchase", subscriptionController.PurchaseSubscription)

	employers := e.Group("/employers")
	employers.GET("/:userId/subscriptions", subscriptionController.ListActiveSubscriptions)
	employers.GET("/:userId/companies/:companyId/status", subscriptionController.GetSubscriptionStatus)

	quota := e.Group("/quota")
	quota.POST("/check", subscriptionController.CheckQuota)

	payments := e.Group("/payments")
	payments.POST("", paymentController.CreatePayment)
	payments.GET("/vnpay-callback", paymentController.VNPayCallback)
	payments.GET("/:orderId", paymentController.GetTransactionStatus)

	return e
}

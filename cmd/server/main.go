package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	httpapi "fleetrental-backend/internal/api/http"
	"fleetrental-backend/internal/config"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/money"
	"fleetrental-backend/internal/repository/postgres"
	"fleetrental-backend/internal/security"
	"fleetrental-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Fleetrental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Pricing configuration", "tax_rate_percent", cfg.Pricing.TaxRatePercent, "stamp_fee_millimes", cfg.Pricing.StampFeeMillimes, "currency", cfg.Pricing.Currency)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.Email.APIKey != "" {
		emailSvc = service.NewSendGridEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	} else {
		logger.Warn("SendGrid API key not set, lifecycle emails are disabled")
	}

	// Initialize Services
	policy := service.PricingPolicy{
		TaxRatePercent: decimal.NewFromFloat(cfg.Pricing.TaxRatePercent),
		StampFee:       money.Amount(cfg.Pricing.StampFeeMillimes),
	}
	paymentSvc := service.NewPaymentService(store.PaymentRepository, store.BookingRepository)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.VehicleRepository,
		store.CustomerRepository,
		paymentSvc,
		emailSvc,
		policy,
	)
	vehicleSvc := service.NewVehicleService(store.VehicleRepository, store.BookingRepository)
	customerSvc := service.NewCustomerService(store.CustomerRepository)
	contractSvc := service.NewContractService(store.ContractRepository, store.BookingRepository)
	authSvc := service.NewAuthService(
		store.UserRepository,
		store.AgencyRepository,
		tokenManager,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize HTTP API
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Tokens:    tokenManager,
		Auth:      authSvc,
		Bookings:  bookingSvc,
		Vehicles:  vehicleSvc,
		Customers: customerSvc,
		Contracts: contractSvc,
		Payments:  paymentSvc,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("HTTP server failed", "error", err)
		log.Fatalf("HTTP server failed: %v", err)
	}
}

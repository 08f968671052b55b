package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcatalog "github.com/udyog/backend/internal/application/catalog"
	appidentity "github.com/udyog/backend/internal/application/identity"
	appledger "github.com/udyog/backend/internal/application/ledger"
	apppartner "github.com/udyog/backend/internal/application/partner"
	appproduction "github.com/udyog/backend/internal/application/production"
	appquotation "github.com/udyog/backend/internal/application/quotation"
	apptrade "github.com/udyog/backend/internal/application/trade"
	"github.com/udyog/backend/internal/infrastructure/auth"
	"github.com/udyog/backend/internal/infrastructure/config"
	"github.com/udyog/backend/internal/infrastructure/logger"
	"github.com/udyog/backend/internal/infrastructure/persistence"
	"github.com/udyog/backend/internal/interfaces/http/handler"
	"github.com/udyog/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer log.Sync() //nolint:errcheck

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if !cfg.App.IsProduction() {
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := newBlacklist(cfg, log)
	tokens := auth.NewTokenProvider(jwtService, blacklist)

	txScope := persistence.NewGormTransactionScope(db.DB)
	ledgers := appledger.NewFactory(log)

	authService := appidentity.NewAuthService(txScope, tokens, log)
	productService := appcatalog.NewProductService(txScope, log)
	categoryService := appcatalog.NewCategoryService(txScope, log)
	customerService := apppartner.NewCustomerService(txScope, log)
	paymentService := apppartner.NewPaymentService(txScope, ledgers, log)
	machineService := appproduction.NewMachineService(txScope, log)
	batchService := appproduction.NewBatchService(txScope, ledgers, log)
	quotationService := appquotation.NewQuotationService(txScope, log)
	purchaseService := apptrade.NewPurchaseService(txScope, ledgers, log)
	saleService := apptrade.NewSaleService(txScope, ledgers, log)
	historyService := appledger.NewHistoryService(txScope, log)

	engine := router.New(log, jwtService, blacklist, router.Handlers{
		System:    handler.NewSystemHandler(db.Ping, version),
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService, historyService),
		Category:  handler.NewCategoryHandler(categoryService),
		Customer:  handler.NewCustomerHandler(customerService, paymentService, historyService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Machine:   handler.NewMachineHandler(machineService),
		Batch:     handler.NewBatchHandler(batchService),
		Quotation: handler.NewQuotationHandler(quotationService),
		Purchase:  handler.NewPurchaseHandler(purchaseService),
		Sale:      handler.NewSaleHandler(saleService),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return fmt.Errorf("set trusted proxies: %w", err)
		}
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newBlacklist prefers Redis so logout survives restarts and is shared
// across replicas. Without Redis the in-memory list still blocks reuse
// within a single process.
func newBlacklist(cfg *config.Config, log *zap.Logger) auth.TokenBlacklist {
	blacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, using in-memory token blacklist", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist()
	}
	return blacklist
}

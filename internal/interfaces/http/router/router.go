package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/udyog/backend/internal/infrastructure/auth"
	"github.com/udyog/backend/internal/infrastructure/logger"
	"github.com/udyog/backend/internal/interfaces/http/handler"
	"github.com/udyog/backend/internal/interfaces/http/middleware"
)

// Handlers holds every route handler the router mounts.
type Handlers struct {
	System    *handler.SystemHandler
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Customer  *handler.CustomerHandler
	Payment   *handler.PaymentHandler
	Machine   *handler.MachineHandler
	Batch     *handler.BatchHandler
	Quotation *handler.QuotationHandler
	Purchase  *handler.PurchaseHandler
	Sale      *handler.SaleHandler
}

// New builds the gin engine. Everything is mounted under /api/v1; the
// health endpoints and the auth entry points stay public, the rest sits
// behind JWT auth.
func New(log *zap.Logger, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, h Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(
		logger.RequestIDMiddleware(),
		logger.GinMiddleware(log),
		gin.Recovery(),
	)

	api := engine.Group("/api/v1")

	h.System.RegisterRoutes(api)
	h.Auth.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(jwtService, blacklist))

	h.Auth.RegisterRoutes(protected)
	h.Product.RegisterRoutes(protected)
	h.Category.RegisterRoutes(protected)
	h.Customer.RegisterRoutes(protected)
	h.Payment.RegisterRoutes(protected)
	h.Machine.RegisterRoutes(protected)
	h.Batch.RegisterRoutes(protected)
	h.Quotation.RegisterRoutes(protected)
	h.Purchase.RegisterRoutes(protected)
	h.Sale.RegisterRoutes(protected)

	return engine
}

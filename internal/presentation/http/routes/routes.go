package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-api/internal/config"
	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/handler"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/middleware"
	"github.com/sangkips/pharmacy-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Medicine  *handler.MedicineHandler
	Dispense  *handler.DispenseHandler
	Analytics *handler.AnalyticsHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":       "ok",
			"service":      deps.Cfg.App.Name,
			"store_driver": deps.Cfg.StoreDriver,
		}
		if deps.RateLimiter != nil {
			body["rate_limiter"] = deps.RateLimiter.Stats()
		}
		c.JSON(http.StatusOK, body)
	})

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if deps.RateLimiter != nil {
		limit = deps.RateLimiter.Middleware()
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", limit, h.Auth.Login)

		// limited after auth so the bucket is per operator
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Cfg.AuthEnabled), limit)

		registerMedicineRoutes(protected, h)
		registerDispenseRoutes(protected, h, deps)
		protected.GET("/analytics", h.Analytics.GetSummary)
		registerPrinterRoutes(protected, h)
	}

	return router
}

func registerMedicineRoutes(protected *gin.RouterGroup, h *Handlers) {
	medicines := protected.Group("/medicines")
	{
		medicines.GET("", h.Medicine.List)
		medicines.POST("", h.Medicine.Create)
		medicines.POST("/pricing", h.Medicine.CalculatePricing)
		medicines.POST("/import", h.Medicine.Import)
		medicines.GET("/export", h.Medicine.Export)
		medicines.GET("/:id", h.Medicine.Get)
		medicines.PUT("/:id", h.Medicine.Update)
		medicines.PATCH("/:id/status", h.Medicine.UpdateStatus)
		medicines.DELETE("/:id", h.Medicine.Delete)
	}
}

func registerDispenseRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	dispensing := protected.Group("/dispensing")
	{
		dispensing.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Dispense.Dispense)
		dispensing.GET("/records", h.Dispense.ListRecords)
		dispensing.GET("/bills/:bill", h.Dispense.GetBill)
		dispensing.GET("/bills/:bill/receipt", h.Dispense.GetReceipt)
		dispensing.GET("/bills/:bill/receipt.pdf", h.Dispense.GetReceiptPDF)
		dispensing.POST("/bills/:bill/print", h.Dispense.PrintBill)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}

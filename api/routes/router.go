package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atelierhq/atelier-backend/api/controllers"
	"github.com/atelierhq/atelier-backend/api/middleware"
	customersvc "github.com/atelierhq/atelier-backend/internal/customers"
	imeisvc "github.com/atelierhq/atelier-backend/internal/imei"
	inventorysvc "github.com/atelierhq/atelier-backend/internal/inventory"
	repairsvc "github.com/atelierhq/atelier-backend/internal/repairs"
	"github.com/atelierhq/atelier-backend/pkg/config"
	"github.com/atelierhq/atelier-backend/pkg/db"
	"github.com/atelierhq/atelier-backend/pkg/logger"
	"github.com/atelierhq/atelier-backend/pkg/metrics"
	pkgredis "github.com/atelierhq/atelier-backend/pkg/redis"
)

// Deps carries everything the router mounts. Redis and metrics are
// optional; nil disables idempotency replay and HTTP metrics.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      db.Pinger
	Redis   *pkgredis.Client
	Metrics *metrics.HTTPMetrics

	Repairs   repairsvc.Service
	Inventory inventorysvc.Service
	Customers customersvc.Service
	Imei      imeisvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger(deps.Redis)))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		r.Post("/pricing/calculate", controllers.PricingCalculate(logg))

		r.Route("/repairs", func(r chi.Router) {
			r.Post("/", controllers.RepairCreate(deps.Repairs, logg))
			r.Get("/", controllers.RepairList(deps.Repairs, logg, false))
			r.Get("/archived", controllers.RepairList(deps.Repairs, logg, true))

			r.Route("/{repairId}", func(r chi.Router) {
				r.Get("/", controllers.RepairDetail(deps.Repairs, logg))
				r.Delete("/", controllers.RepairDelete(deps.Repairs, logg))
				r.Patch("/status", controllers.RepairSetStatus(deps.Repairs, logg))
				r.Post("/advance", controllers.RepairAdvance(deps.Repairs, logg))
				r.Post("/cancel", controllers.RepairCancel(deps.Repairs, logg))
				r.Post("/archive", controllers.RepairArchive(deps.Repairs, logg))
				r.Post("/unarchive", controllers.RepairUnarchive(deps.Repairs, logg))
				r.Patch("/description", controllers.RepairUpdateDescription(deps.Repairs, logg))
				r.Patch("/cost", controllers.RepairUpdateCost(deps.Repairs, logg))
				r.Put("/diagnostic", controllers.RepairAttachDiagnostic(deps.Repairs, logg))
				r.Post("/parts", controllers.RepairAddPart(deps.Repairs, logg))
				r.Delete("/parts/{partId}", controllers.RepairRemovePart(deps.Repairs, logg))
				r.Post("/media", controllers.RepairAddMedia(deps.Repairs, logg))
				r.Delete("/media/{mediaId}", controllers.RepairDeleteMedia(deps.Repairs, logg))
				r.Post("/messages", controllers.RepairSendMessage(deps.Repairs, logg))
			})
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", controllers.InventoryCreate(deps.Inventory, logg))
			r.Get("/", controllers.InventoryList(deps.Inventory, logg))
			r.Get("/low-stock", controllers.InventoryLowStock(deps.Inventory, logg))
			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.InventoryDetail(deps.Inventory, logg))
				r.Put("/", controllers.InventoryUpdate(deps.Inventory, logg))
				r.Delete("/", controllers.InventoryDelete(deps.Inventory, logg))
				r.Post("/adjust", controllers.InventoryAdjust(deps.Inventory, logg))
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CustomerCreate(deps.Customers, logg))
			r.Get("/", controllers.CustomerList(deps.Customers, logg))
			r.Route("/{customerId}", func(r chi.Router) {
				r.Get("/", controllers.CustomerDetail(deps.Customers, logg))
				r.Put("/", controllers.CustomerUpdate(deps.Customers, logg))
				r.Delete("/", controllers.CustomerDelete(deps.Customers, logg))
				r.Post("/devices", controllers.CustomerAddDevice(deps.Customers, logg))
				r.Delete("/devices/{deviceId}", controllers.CustomerDeleteDevice(deps.Customers, logg))
			})
		})

		r.Route("/imei-checks", func(r chi.Router) {
			r.Post("/", controllers.ImeiCheckOpen(deps.Imei, logg))
			r.Get("/", controllers.ImeiCheckList(deps.Imei, logg))
			r.Route("/{checkId}", func(r chi.Router) {
				r.Get("/", controllers.ImeiCheckDetail(deps.Imei, logg))
				r.Post("/result", controllers.ImeiCheckResult(deps.Imei, logg))
			})
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(deps.Repairs, logg))
	})

	return r
}

func redisPinger(client *pkgredis.Client) pkgredis.Pinger {
	if client == nil {
		return nil
	}
	return client
}

package router

import (
	"github.com/oksasatya/adcart-backend/internal/application"
	"github.com/oksasatya/adcart-backend/internal/container"
	"github.com/oksasatya/adcart-backend/internal/infrastructure/mongostore"
	handlers "github.com/oksasatya/adcart-backend/internal/interface/http"
	"github.com/oksasatya/adcart-backend/internal/router/modules"
)

type AppDeps struct {
	Ledger *handlers.LedgerHandler
	Ads    *handlers.AdHandler
}

func buildDeps() AppDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	m := container.GetMetrics()

	users := mongostore.NewUserRepository(container.GetMongo())
	ads := mongostore.NewAdRepository(container.GetMongo())

	ledger := application.NewLedgerService(users, ads, logger)
	orders := application.NewOrderService(users, ads, container.GetNotifier(), logger, m, cfg.OrderMaxAttempts)
	catalog := application.NewCatalogService(ads, users, logger)
	ingest := application.NewIngestionService(users, ads, container.GetObjectStore(), logger, m, cfg.MaxUploadBytes)

	// the request cap leaves room for the scalar fields around the image
	bodyCap := cfg.MaxUploadBytes + 1<<20

	return AppDeps{
		Ledger: handlers.NewLedgerHandler(ledger, orders, logger),
		Ads:    handlers.NewAdHandler(ingest, catalog, logger, bodyCap),
	}
}

// InitModules builds services from the container singletons and registers
// every feature module. Call once at startup, after the container is filled.
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewLedgerModule(deps.Ledger))
	r.Add(modules.NewAdModule(deps.Ads))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetMetrics()))
	}
}

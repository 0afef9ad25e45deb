// Package di assembles the application's dependencies.
package di

import (
	"go.uber.org/zap"

	"skinsight/application/ports"
	"skinsight/application/services"
	"skinsight/infrastructure/catalog"
	"skinsight/infrastructure/config"
	"skinsight/infrastructure/persistence/memory"
	"skinsight/infrastructure/persistence/sqlite"
	"skinsight/pkg/auth"
	"skinsight/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Users    *sqlite.UserStore
	Sessions *memory.SessionStore
	Catalog  *catalog.Dataset
	Tables   *config.TableWatcher
	Tokens   *auth.TokenManager
	Metrics  *observability.Metrics
	Accounts *services.AccountService
	Routines *services.RoutineService
	Insights *services.InsightsService
	Products *services.CatalogService
}

// Shutdown releases the container's resources.
func (c *Container) Shutdown() {
	c.Tables.Stop()
	if err := c.Users.Close(); err != nil {
		c.Logger.Error("failed to close user store", zap.Error(err))
	}
}

// ProvideLogger builds the zap logger for the configured environment.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// ProvideUserStore opens the SQLite-backed user store.
func ProvideUserStore(cfg *config.Config) (*sqlite.UserStore, error) {
	return sqlite.NewUserStore(cfg.DatabasePath)
}

// ProvideSessionStore builds the in-process session store.
func ProvideSessionStore() *memory.SessionStore {
	return memory.NewSessionStore()
}

// ProvideCatalog loads the product dataset.
func ProvideCatalog(cfg *config.Config, logger *zap.Logger) (*catalog.Dataset, error) {
	return catalog.Load(cfg.CatalogPath, logger)
}

// ProvideTableWatcher loads the compatibility tables and watches the
// override file, when configured.
func ProvideTableWatcher(cfg *config.Config, logger *zap.Logger) (*config.TableWatcher, error) {
	return config.NewTableWatcher(cfg.CompatTablesPath, logger)
}

// ProvideTokenManager builds the session token manager. Development falls
// back to a fixed secret; production refuses to start without one
// (config.Validate).
func ProvideTokenManager(cfg *config.Config) (*auth.TokenManager, error) {
	secret := cfg.SessionSecret
	if secret == "" {
		secret = "development-secret-change-in-production"
	}
	return auth.NewTokenManager(secret, cfg.SessionExpiry)
}

// ProvideMetrics builds the Prometheus registry, or nil when disabled.
func ProvideMetrics(cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics()
}

// ProvideAccountService builds the account service.
func ProvideAccountService(users *sqlite.UserStore, sessions *memory.SessionStore, tokens *auth.TokenManager, logger *zap.Logger) *services.AccountService {
	return services.NewAccountService(users, sessions, tokens, logger)
}

// ProvideRoutineService builds the routine service.
func ProvideRoutineService(users *sqlite.UserStore, sessions *memory.SessionStore, logger *zap.Logger) *services.RoutineService {
	return services.NewRoutineService(users, sessions, logger)
}

// ProvideInsightsService builds the insights service.
func ProvideInsightsService(sessions *memory.SessionStore, dataset *catalog.Dataset, tables *config.TableWatcher, logger *zap.Logger) *services.InsightsService {
	return services.NewInsightsService(sessions, dataset, tables, logger)
}

// ProvideCatalogService builds the catalog search service.
func ProvideCatalogService(dataset *catalog.Dataset) *services.CatalogService {
	return services.NewCatalogService(dataset)
}

var _ ports.UserRepository = (*sqlite.UserStore)(nil)
var _ ports.SessionStore = (*memory.SessionStore)(nil)
var _ ports.ProductCatalog = (*catalog.Dataset)(nil)

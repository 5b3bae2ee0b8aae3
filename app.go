package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/choraleia/collectly/pkg/ai"
	"github.com/choraleia/collectly/pkg/config"
	"github.com/choraleia/collectly/pkg/costs"
	"github.com/choraleia/collectly/pkg/db"
	"github.com/choraleia/collectly/pkg/event"
	"github.com/choraleia/collectly/pkg/service"
	"github.com/choraleia/collectly/pkg/utils"
)

// App holds the wired services shared by the HTTP routes.
type App struct {
	cfg     *config.AppConfig
	db      *gorm.DB
	emitter *event.Emitter
	logger  *slog.Logger
	closers []func() error

	interactions   *service.InteractionStore
	communications *service.CommunicationStore
	settings       *service.SettingsService
	costs          *service.CostService
	threads        *service.ThreadService
	generation     *service.GenerationService
}

// NewApp opens storage, builds both AI backends and wires the services.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	logger := utils.GetLogger()

	database, err := db.Open(cfg.DatabaseDriver(), cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}
	app := &App{
		cfg:     cfg,
		db:      database,
		emitter: event.Global(),
		logger:  logger,
	}
	if sqlDB, err := database.DB(); err == nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	cipher, err := utils.NewFieldCipher(cfg.FieldKey())
	if err != nil {
		_ = app.Close()
		return nil, errors.Wrap(err, "init field cipher")
	}
	if cipher == nil {
		logger.Warn("No field encryption key configured, communication content is stored in plain text")
	}

	var cache service.LimitsCache
	if cfg.Redis.Addr != "" {
		client := service.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		app.closers = append(app.closers, client.Close)
		cache = service.NewRedisLimitsCache(client, cfg.RedisTTL())
		logger.Info("Cost limits cache enabled", "addr", cfg.Redis.Addr)
	}

	router := ai.NewRouter(
		newBackend(ctx, logger, ai.TierPremium, cfg.PremiumBackend()),
		newBackend(ctx, logger, ai.TierLowCost, cfg.LowCostBackend()),
		ai.WithCallTimeout(cfg.AITimeout()),
	)

	app.interactions = service.NewInteractionStore(database)
	app.communications = service.NewCommunicationStore(database, cipher)
	app.settings = service.NewSettingsService(database, cfg.CostLimits(), cache, app.emitter)
	app.costs = service.NewCostService(app.interactions, app.settings, costs.NewAggregator())
	app.threads = service.NewThreadService(app.communications)
	app.generation = service.NewGenerationService(router, app.interactions, app.communications, app.costs,
		service.WithEmitter(app.emitter),
		service.WithBudgetEnforcement(cfg.Costs.EnforceBudget),
	)
	return app, nil
}

// newBackend returns nil when the tier cannot be built so the router
// serves every request from the other tier.
func newBackend(ctx context.Context, logger *slog.Logger, tier ai.Tier, bc config.BackendConfig) ai.Backend {
	backend, err := ai.NewBackend(ctx, tier, bc)
	if err != nil {
		logger.Warn("AI backend unavailable", "tier", tier, "provider", bc.Provider, "model", bc.Model, "error", err)
		return nil
	}
	logger.Info("AI backend ready", "tier", tier, "provider", bc.Provider, "model", bc.Model,
		"apiKey", utils.MaskSensitiveString(bc.APIKey()))
	return backend
}

// Ping checks the database connection.
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the database and cache connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close app: %v", errs)
	}
	return nil
}

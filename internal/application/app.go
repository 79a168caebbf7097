package application

import (
	"go.uber.org/zap"

	"github.com/agenthub/agenthub/internal/domain/repository"
	"github.com/agenthub/agenthub/internal/infrastructure/config"
	"github.com/agenthub/agenthub/internal/infrastructure/persistence"
)

// App wires configuration, logging, and the catalog together for the
// interface layer.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Catalog repository.Catalog
}

// New opens the catalog described by cfg.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	catalog, err := persistence.NewCatalog(cfg.Data.Dir, cfg.Data.ProvidersFile, cfg.Data.AgentsFile, log)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:  cfg,
		Logger:  log,
		Catalog: catalog,
	}, nil
}

// Close flushes buffered log entries.
func (a *App) Close() {
	_ = a.Logger.Sync()
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ersonp/dex-core/internal/application/handlers"
	"github.com/ersonp/dex-core/internal/domain/ports"
	"github.com/ersonp/dex-core/internal/domain/services"
	"github.com/ersonp/dex-core/internal/infrastructure/assets/fs"
	"github.com/ersonp/dex-core/internal/infrastructure/config"
	"github.com/ersonp/dex-core/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/dex-core/internal/infrastructure/vectordb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	BasePath       string
	Source         string
	LoadHandler    *handlers.LoadHandler
	QueryHandler   *handlers.QueryHandler
	HistoryHandler *handlers.HistoryHandler
	SimilarHandler *handlers.SimilarHandler
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	source := globalSource
	if source == "" {
		source = config.Resolve(cwd, cfg.Data.Source)
	}

	// Interface values stay nil when a backend is not configured.
	var snapshotDB ports.SnapshotDB
	if cfg.SQLite.Path != "" {
		repo, err := openSnapshotDB(ctx, config.Resolve(cwd, cfg.SQLite.Path))
		if err != nil {
			return err
		}
		defer repo.Close()
		snapshotDB = repo
	}

	var index ports.StatIndex
	if cfg.Qdrant.Host != "" {
		repo, err := qdrant.NewRepository(cfg.Qdrant)
		if err != nil {
			return fmt.Errorf("creating qdrant repository: %w", err)
		}
		defer repo.Close()
		index = repo
	}

	store := services.NewRecordStore(logger)
	queryService := services.NewQueryService(store)
	resolver := services.NewImageResolver(fs.New(config.Resolve(cwd, cfg.Assets.Dir)), cfg.Assets.Placeholder, logger)
	similarity := services.NewSimilarityService(index, logger)

	return fn(&Deps{
		Config:         cfg,
		BasePath:       cwd,
		Source:         source,
		LoadHandler:    handlers.NewLoadHandler(store, snapshotDB, similarity, logger),
		QueryHandler:   handlers.NewQueryHandler(queryService, resolver),
		HistoryHandler: handlers.NewHistoryHandler(snapshotDB),
		SimilarHandler: handlers.NewSimilarHandler(queryService, similarity),
	})
}

// withLoadedDeps is withDeps with the source already loaded into the store.
func withLoadedDeps(ctx context.Context, fn func(*Deps) error) error {
	return withDeps(ctx, func(d *Deps) error {
		if _, err := d.LoadHandler.Handle(ctx, d.Source, handlers.LoadOptions{}); err != nil {
			return err
		}
		return fn(d)
	})
}

func openSnapshotDB(ctx context.Context, path string) (*sqlite.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: path})
	if err != nil {
		return nil, fmt.Errorf("creating sqlite repository: %w", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("ensuring sqlite schema: %w", err)
	}
	return repo, nil
}

// parseView reads the --view flag.
func parseView() (services.View, error) {
	return services.ParseView(globalView)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/dex-core/internal/application/handlers"
	"github.com/ersonp/dex-core/internal/domain/ports"
	"github.com/ersonp/dex-core/internal/infrastructure/config"
	"github.com/ersonp/dex-core/internal/infrastructure/vectordb/qdrant"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new dex project",
		Long:  "Creates a .dex directory with default configuration and, when a Qdrant host is configured, sets up the stat collection.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	// The config file does not exist yet; environment and defaults decide
	// whether an index is reachable.
	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var index ports.StatIndex
	if cfg.Qdrant.Host != "" {
		repo, err := qdrant.NewRepository(cfg.Qdrant)
		if err != nil {
			return fmt.Errorf("connecting to qdrant: %w", err)
		}
		defer repo.Close()
		index = repo
	}

	result, err := handlers.NewInitHandler(index).Handle(ctx, cwd)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	if result.CollectionName != "" {
		fmt.Printf("Created Qdrant collection: %s\n", result.CollectionName)
	}
	fmt.Println("Dex initialized successfully!")

	return nil
}

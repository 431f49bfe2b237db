// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/dex-core/internal/domain/ports"
	"github.com/ersonp/dex-core/internal/domain/services"
	"github.com/ersonp/dex-core/internal/infrastructure/config"
)

// InitHandler handles project initialization.
type InitHandler struct {
	index ports.StatIndex
}

// NewInitHandler creates a new init handler. index may be nil.
func NewInitHandler(index ports.StatIndex) *InitHandler {
	return &InitHandler{
		index: index,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath     string
	CollectionName string
}

// Handle writes the default config and prepares the stat index.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("dex already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	result := &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
	}

	if h.index != nil {
		if err := h.index.EnsureCollection(ctx, services.StatVectorSize); err != nil {
			return nil, fmt.Errorf("creating collection: %w", err)
		}
		result.CollectionName = cfg.Qdrant.Collection
	}

	return result, nil
}

package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/naming"
	"github.com/ersonp/dex-core/internal/domain/ports"
)

// DefaultPlaceholder is the asset key returned when no artwork exists.
const DefaultPlaceholder = "placeholder.png"

// ImageResolver maps a creature id and form to an existing artwork key.
type ImageResolver struct {
	assets      ports.AssetStore
	placeholder string
	logger      *zap.Logger
}

// NewImageResolver creates a resolver probing the given asset store.
func NewImageResolver(assets ports.AssetStore, placeholder string, logger *zap.Logger) *ImageResolver {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageResolver{
		assets:      assets,
		placeholder: placeholder,
		logger:      logger,
	}
}

// Placeholder returns the fallback asset key.
func (r *ImageResolver) Placeholder() string {
	return r.placeholder
}

// Resolve returns the form-specific artwork if present, then the plain
// artwork, then the placeholder. Missing assets and failed probes are not
// errors; they fall through to the next tier.
func (r *ImageResolver) Resolve(ctx context.Context, id int, form string) string {
	if form != "" && form != entities.BaseForm {
		slug := naming.CanonicalizeForm(form)
		if slug != entities.BaseForm {
			if key := naming.ImageKey(id, slug); r.exists(ctx, key) {
				return key
			}
		}
	}

	if key := entities.PlainImageKey(id); r.exists(ctx, key) {
		return key
	}

	return r.placeholder
}

// ResolveRecord resolves the artwork for a record.
func (r *ImageResolver) ResolveRecord(ctx context.Context, rec entities.Record) string {
	return r.Resolve(ctx, rec.ID, rec.Form)
}

func (r *ImageResolver) exists(ctx context.Context, key string) bool {
	ok, err := r.assets.Exists(ctx, key)
	if err != nil {
		r.logger.Debug("asset probe failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

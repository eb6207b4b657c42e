package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/Qodestackr/Verity-sub004/internal/catalog"
	"github.com/Qodestackr/Verity-sub004/internal/typecache"
	"github.com/Qodestackr/Verity-sub004/internal/util"

	"go.uber.org/zap"
)

// ProductTypeResolver maps a category name to a catalog product-type id,
// creating the type on first use. The cache is a latency optimization only:
// a miss always recomputes against the catalog, and only catalog-confirmed
// ids are ever written back.
type ProductTypeResolver struct {
	catalog CatalogAPI
	cache   typecache.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewProductTypeResolver creates a product-type resolver.
func NewProductTypeResolver(api CatalogAPI, cache typecache.Cache, ttl time.Duration) *ProductTypeResolver {
	return &ProductTypeResolver{
		catalog: api,
		cache:   cache,
		ttl:     ttl,
		logger:  util.GetLogger(),
	}
}

// Resolve returns the product-type id for a category, from cache, lookup,
// or creation in that order. On a duplicate-slug conflict with a concurrent
// creator it re-queries once and converges on the winner's id; the catalog's
// server-side slug uniqueness is the only lock in play.
func (r *ProductTypeResolver) Resolve(ctx context.Context, category string, attrs AttributeIDs) (string, error) {
	ctx, span := util.StartSpan(ctx, "ProductTypeResolver.Resolve")
	defer span.End()

	slug := Slugify(category)
	key := typecache.Key(slug)

	if id, ok := r.cache.TryGet(ctx, key); ok {
		return id, nil
	}

	id, found, err := r.catalog.ProductTypeBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("failed to look up product type %q: %w", slug, err)
	}
	if found {
		r.cache.TryPut(ctx, key, id, r.ttl)
		return id, nil
	}

	created, createErr := r.catalog.ProductTypeCreate(ctx, catalog.ProductTypeCreateInput{
		Name:               category,
		Slug:               slug,
		ProductAttrIDs:     []string{attrs.AlcoholContent, attrs.Origin},
		VariantAttrIDs:     []string{attrs.Volume},
		IsShippingRequired: true,
	})
	if createErr != nil {
		if catalog.IsAlreadyExists(createErr) {
			util.ProductTypeConflictsTotal.Inc()
			r.logger.Info("Product type create raced, re-fetching winner",
				zap.String("slug", slug))

			id, found, err := r.catalog.ProductTypeBySlug(ctx, slug)
			if err == nil && found {
				r.cache.TryPut(ctx, key, id, r.ttl)
				return id, nil
			}
		}
		return "", fmt.Errorf("failed to create product type %q: %w", slug, createErr)
	}

	util.ProductTypesCreatedTotal.Inc()
	r.logger.Info("Product type created",
		zap.String("slug", slug),
		zap.String("product_type_id", created))

	r.cache.TryPut(ctx, key, created, r.ttl)
	return created, nil
}

package provision

import (
	"context"
	"time"

	"github.com/Qodestackr/Verity-sub004/config"
	"github.com/Qodestackr/Verity-sub004/internal/typecache"
	"github.com/Qodestackr/Verity-sub004/internal/util"

	"go.uber.org/zap"
)

// Pipeline provisions a normalized catalog entry from one flat submission:
// shared schema objects (attributes, product type) are resolved or created
// first, then the product, its single variant, the channel listing, and the
// channel price, strictly in that order. Each step's output id feeds the
// next step; any failure aborts the run with no compensation, leaving
// already-created schema objects in place for reuse.
type Pipeline struct {
	catalog    CatalogAPI
	attributes *AttributeResolver
	types      *ProductTypeResolver
	cfg        config.ProvisioningConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewPipeline creates a provisioning pipeline with injected collaborator ids.
func NewPipeline(api CatalogAPI, cache typecache.Cache, cfg config.ProvisioningConfig) *Pipeline {
	return &Pipeline{
		catalog:    api,
		attributes: NewAttributeResolver(api),
		types:      NewProductTypeResolver(api, cache, cfg.TypeCacheTTL),
		cfg:        cfg,
		logger:     util.GetLogger(),
		now:        time.Now,
	}
}

// Provision runs the full pipeline for one submission. It is the single
// failure boundary: every step error is converted into a failure Result
// carrying the step name and whatever partial ids were already created.
func (p *Pipeline) Provision(ctx context.Context, sub *Submission) Result {
	ctx, span := util.StartSpan(ctx, "Pipeline.Provision")
	defer span.End()

	p.logger.Info("Provisioning product",
		zap.String("name", sub.Name),
		zap.String("category", sub.Category))

	attrStart := time.Now()
	attrs, err := p.attributes.EnsureAttributes(ctx)
	observeStep(StepAttributes, attrStart)
	if err != nil {
		return p.fail(StepAttributes, err, "", "")
	}

	typeStart := time.Now()
	productTypeID, err := p.types.Resolve(ctx, sub.Category, attrs)
	observeStep(StepProductType, typeStart)
	if err != nil {
		return p.fail(StepProductType, err, "", "")
	}

	productID, err := p.createProduct(ctx, sub, productTypeID, attrs)
	if err != nil {
		return p.fail(StepProduct, err, "", "")
	}

	sku := sub.SKU
	if sku == "" {
		sku = DeriveSKU(sub.Name, p.now())
	}

	variantID, err := p.createVariant(ctx, sub, productID, sku, attrs)
	if err != nil {
		return p.fail(StepVariant, err, productID, "")
	}

	if err := p.publish(ctx, productID); err != nil {
		return p.fail(StepPublish, err, productID, variantID)
	}

	if err := p.setPrice(ctx, variantID, sub.Price); err != nil {
		return p.fail(StepPrice, err, productID, variantID)
	}

	util.ProductsProvisionedTotal.Inc()
	p.logger.Info("Product provisioned",
		zap.String("product_id", productID),
		zap.String("variant_id", variantID),
		zap.String("sku", sku))

	return Result{
		Success:   true,
		ProductID: productID,
		VariantID: variantID,
	}
}

func (p *Pipeline) fail(step string, err error, productID, variantID string) Result {
	util.ProvisioningFailedTotal.WithLabelValues(step).Inc()
	p.logger.Error("Provisioning failed",
		zap.String("step", step),
		zap.String("product_id", productID),
		zap.Error(err))

	return Result{
		Success:    false,
		ProductID:  productID,
		VariantID:  variantID,
		FailedStep: step,
		Error:      err.Error(),
	}
}

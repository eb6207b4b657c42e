package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/Qodestackr/Verity-sub004/internal/catalog"
	"github.com/Qodestackr/Verity-sub004/internal/util"
)

func observeStep(step string, start time.Time) {
	util.ProvisioningStepLatency.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

// createProduct creates the base catalog product with its slug derived from
// the name and the product-level attribute values stamped on.
func (p *Pipeline) createProduct(ctx context.Context, sub *Submission, productTypeID string, attrs AttributeIDs) (string, error) {
	ctx, span := util.StartSpan(ctx, "Pipeline.createProduct")
	defer span.End()
	defer observeStep(StepProduct, time.Now())

	values := []catalog.AttributeValue{
		{ID: attrs.AlcoholContent, Value: sub.AlcoholPercentage},
	}
	if sub.Origin != "" {
		values = append(values, catalog.AttributeValue{ID: attrs.Origin, Value: sub.Origin})
	}

	id, err := p.catalog.ProductCreate(ctx, catalog.ProductCreateInput{
		Name:          sub.Name,
		Slug:          Slugify(sub.Name),
		ProductTypeID: productTypeID,
		CategoryID:    p.cfg.DefaultCategoryID,
		Description:   sub.Description,
		Attributes:    values,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

// createVariant creates the product's single variant with the volume
// attribute, the SKU, and an initial stock quantity at the configured
// warehouse. Multi-variant products are out of scope; one per product.
func (p *Pipeline) createVariant(ctx context.Context, sub *Submission, productID, sku string, attrs AttributeIDs) (string, error) {
	ctx, span := util.StartSpan(ctx, "Pipeline.createVariant")
	defer span.End()
	defer observeStep(StepVariant, time.Now())

	id, err := p.catalog.VariantCreate(ctx, catalog.VariantCreateInput{
		ProductID: productID,
		Name:      sub.Volume,
		SKU:       sku,
		Attributes: []catalog.AttributeValue{
			{ID: attrs.Volume, Value: sub.Volume},
		},
		Stock: catalog.StockInput{
			WarehouseID: p.cfg.WarehouseID,
			Quantity:    sub.Stock,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create variant: %w", err)
	}
	return id, nil
}

// publish lists the product in the sales channel. Pricing a variant requires
// the product to already be channel-listed, so the orchestrator runs this
// strictly before setPrice.
func (p *Pipeline) publish(ctx context.Context, productID string) error {
	ctx, span := util.StartSpan(ctx, "Pipeline.publish")
	defer span.End()
	defer observeStep(StepPublish, time.Now())

	if err := p.catalog.Publish(ctx, productID, p.cfg.ChannelID); err != nil {
		return fmt.Errorf("failed to publish product: %w", err)
	}
	return nil
}

// setPrice attaches the channel price to the variant.
func (p *Pipeline) setPrice(ctx context.Context, variantID string, price int64) error {
	ctx, span := util.StartSpan(ctx, "Pipeline.setPrice")
	defer span.End()
	defer observeStep(StepPrice, time.Now())

	if err := p.catalog.SetVariantPrice(ctx, variantID, p.cfg.ChannelID, price); err != nil {
		return fmt.Errorf("failed to set variant price: %w", err)
	}
	return nil
}

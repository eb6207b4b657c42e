package provision

import (
	"context"

	"github.com/Qodestackr/Verity-sub004/internal/catalog"
)

// CatalogAPI is the slice of the catalog client the pipeline depends on.
type CatalogAPI interface {
	AttributeBySlug(ctx context.Context, slug string) (string, bool, error)
	AttributeBulkCreate(ctx context.Context, defs []catalog.AttributeDefinition) ([]catalog.CreatedAttribute, error)
	ProductTypeBySlug(ctx context.Context, slug string) (string, bool, error)
	ProductTypeCreate(ctx context.Context, in catalog.ProductTypeCreateInput) (string, error)
	ProductCreate(ctx context.Context, in catalog.ProductCreateInput) (string, error)
	VariantCreate(ctx context.Context, in catalog.VariantCreateInput) (string, error)
	Publish(ctx context.Context, productID, channelID string) error
	SetVariantPrice(ctx context.Context, variantID, channelID string, price int64) error
}

// Submission is the flat form-shaped record a caller submits. Category
// drives product-type grouping; the catalog category every product lands
// in is the separately configured default (they are intentionally not the
// same thing, see DESIGN.md).
type Submission struct {
	Name              string `json:"name" binding:"required"`
	Brand             string `json:"brand"`
	Type              string `json:"type"`
	Category          string `json:"category" binding:"required"`
	Volume            string `json:"volume" binding:"required"`
	Price             int64  `json:"price" binding:"required,min=1"`
	SKU               string `json:"sku"`
	AlcoholPercentage string `json:"alcohol_percentage" binding:"required"`
	Origin            string `json:"origin"`
	Stock             int    `json:"stock" binding:"min=0"`
	Description       string `json:"description"`
	IdempotencyKey    string `json:"idempotency_key,omitempty"`
}

// Result is the outcome of one pipeline run. Partial ids from a failed run
// are carried so the journal can record what was left behind in the catalog.
type Result struct {
	Success    bool   `json:"success"`
	ProductID  string `json:"product_id,omitempty"`
	VariantID  string `json:"variant_id,omitempty"`
	FailedStep string `json:"failed_step,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Pipeline step names, used for metrics, journal rows, and failure results.
const (
	StepAttributes  = "attributes"
	StepProductType = "product_type"
	StepProduct     = "product"
	StepVariant     = "variant"
	StepPublish     = "publish"
	StepPrice       = "price"
)

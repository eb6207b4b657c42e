package provision

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Qodestackr/Verity-sub004/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = config.ProvisioningConfig{
	WarehouseID:       "wh-nairobi",
	DefaultCategoryID: "cat-default",
	ChannelID:         "chan-ke",
	TypeCacheTTL:      time.Hour,
}

func tuskerSubmission() *Submission {
	return &Submission{
		Name:              "Tusker Lager",
		Brand:             "Tusker",
		Type:              "Lager",
		Category:          "Beer",
		Volume:            "330ML",
		Price:             3120,
		SKU:               "TUS-LAG-330",
		AlcoholPercentage: "4.2%",
		Origin:            "Kenya",
		Stock:             1240,
	}
}

func newTestPipeline(fake *fakeCatalog, cache *memCache) *Pipeline {
	p := NewPipeline(fake, cache, testCfg)
	p.now = func() time.Time { return time.UnixMilli(1712345678901) }
	return p
}

func TestProvisionEndToEndFreshCatalog(t *testing.T) {
	fake := newFakeCatalog()
	pipeline := newTestPipeline(fake, newMemCache())

	result := pipeline.Provision(context.Background(), tuskerSubmission())

	require.True(t, result.Success, "pipeline failed: %s", result.Error)
	assert.NotEmpty(t, result.ProductID)
	assert.NotEmpty(t, result.VariantID)

	assert.Equal(t, 1, fake.attrBulkCreates)
	assert.Equal(t, 1, fake.typeCreates)
	assert.Equal(t, 1, fake.productCreates)
	assert.Equal(t, 1, fake.variantCreates)
	assert.Equal(t, 1, fake.publishes)
	assert.Equal(t, 1, fake.priceSets)

	product := fake.products[0]
	assert.Equal(t, "tusker-lager", product.Slug)
	assert.Equal(t, "cat-default", product.CategoryID, "products land in the fixed default category")

	variant := fake.variants[0]
	assert.Equal(t, "TUS-LAG-330", variant.SKU, "explicit SKU passes through unmodified")
	assert.Equal(t, 1240, variant.Stock.Quantity)
	assert.Equal(t, "wh-nairobi", variant.Stock.WarehouseID)

	assert.Equal(t, []int64{3120}, fake.prices)
}

func TestProvisionSecondSubmissionSharesSchema(t *testing.T) {
	fake := newFakeCatalog()
	cache := newMemCache()
	pipeline := newTestPipeline(fake, cache)

	ctx := context.Background()

	first := pipeline.Provision(ctx, tuskerSubmission())
	require.True(t, first.Success)

	second := pipeline.Provision(ctx, tuskerSubmission())
	require.True(t, second.Success)

	// Shared schema is reused; products themselves are not deduplicated.
	assert.Equal(t, 1, fake.attrBulkCreates)
	assert.Equal(t, 1, fake.typeCreates)
	assert.Equal(t, 2, fake.productCreates)
	assert.Equal(t, 2, fake.variantCreates)
	assert.Equal(t, 2, fake.publishes)
	assert.Equal(t, 2, fake.priceSets)
}

func TestProvisionDerivesSKUWhenOmitted(t *testing.T) {
	fake := newFakeCatalog()
	pipeline := newTestPipeline(fake, newMemCache())

	sub := tuskerSubmission()
	sub.SKU = ""

	result := pipeline.Provision(context.Background(), sub)
	require.True(t, result.Success)

	assert.Regexp(t, regexp.MustCompile(`^tusker-lager-\d{6}$`), fake.variants[0].SKU)
}

func TestProvisionPublishFailureShortCircuitsPrice(t *testing.T) {
	fake := newFakeCatalog()
	fake.publishErr = errors.New("channel listing rejected")
	pipeline := newTestPipeline(fake, newMemCache())

	result := pipeline.Provision(context.Background(), tuskerSubmission())

	require.False(t, result.Success)
	assert.Equal(t, StepPublish, result.FailedStep)
	assert.Contains(t, result.Error, "channel listing rejected")
	assert.Zero(t, fake.priceSets, "price must never be set after a failed publish")

	// Partial ids are reported so the journal can record what was left behind.
	assert.NotEmpty(t, result.ProductID)
	assert.NotEmpty(t, result.VariantID)
}

func TestProvisionOriginOmittedWhenEmpty(t *testing.T) {
	fake := newFakeCatalog()
	pipeline := newTestPipeline(fake, newMemCache())

	sub := tuskerSubmission()
	sub.Origin = ""

	result := pipeline.Provision(context.Background(), sub)
	require.True(t, result.Success)

	require.Len(t, fake.products, 1)
	assert.Len(t, fake.products[0].Attributes, 1, "only the alcohol value is stamped without an origin")
}

package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAttributesFreshCatalog(t *testing.T) {
	fake := newFakeCatalog()
	resolver := NewAttributeResolver(fake)

	ids, err := resolver.EnsureAttributes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fake.attrBulkCreates, "all three misses must go into one bulk call")
	assert.NotEmpty(t, ids.Volume)
	assert.NotEmpty(t, ids.AlcoholContent)
	assert.NotEmpty(t, ids.Origin)
}

func TestEnsureAttributesAllExisting(t *testing.T) {
	fake := newFakeCatalog()
	fake.attributes[SlugVolume] = "attr-vol"
	fake.attributes[SlugAlcoholContent] = "attr-abv"
	fake.attributes[SlugOrigin] = "attr-origin"

	resolver := NewAttributeResolver(fake)

	ids, err := resolver.EnsureAttributes(context.Background())
	require.NoError(t, err)

	assert.Zero(t, fake.attrBulkCreates, "no create call when all attributes exist")
	assert.Equal(t, "attr-vol", ids.Volume)
	assert.Equal(t, "attr-abv", ids.AlcoholContent)
	assert.Equal(t, "attr-origin", ids.Origin)
}

func TestEnsureAttributesPartialRegistry(t *testing.T) {
	fake := newFakeCatalog()
	fake.attributes[SlugVolume] = "attr-vol"

	resolver := NewAttributeResolver(fake)

	ids, err := resolver.EnsureAttributes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fake.attrBulkCreates)
	assert.Equal(t, "attr-vol", ids.Volume)
	assert.NotEmpty(t, ids.AlcoholContent)
	assert.NotEmpty(t, ids.Origin)
}

func TestEnsureAttributesBulkCreateFails(t *testing.T) {
	fake := newFakeCatalog()
	fake.bulkCreateErr = errBulkRejected

	resolver := NewAttributeResolver(fake)

	_, err := resolver.EnsureAttributes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBulkRejected)
}

func TestEnsureAttributesUnresolvedRole(t *testing.T) {
	fake := newFakeCatalog()
	fake.dropBulkResults = true

	resolver := NewAttributeResolver(fake)

	_, err := resolver.EnsureAttributes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAttributeIDs)
}

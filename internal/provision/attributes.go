package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Qodestackr/Verity-sub004/internal/catalog"
	"github.com/Qodestackr/Verity-sub004/internal/util"

	"go.uber.org/zap"
)

// Well-known attribute slugs. Created once per catalog and reused by every
// tenant from then on; the first submission in a fresh deployment pays for
// registry setup.
const (
	SlugVolume         = "bottle-volume"
	SlugAlcoholContent = "alcohol-content"
	SlugOrigin         = "origin"
)

// ErrMissingAttributeIDs signals that a role stayed unresolved after both
// the lookup and creation phases. That is a logic or schema-permission bug,
// not a transient failure.
var ErrMissingAttributeIDs = errors.New("missing attribute ids after registry resolution")

var wellKnownAttributes = []catalog.AttributeDefinition{
	{
		Name:   "Bottle Volume",
		Slug:   SlugVolume,
		Values: []string{"250ML", "330ML", "350ML", "500ML", "750ML", "1L"},
	},
	{
		Name:   "Alcohol Content",
		Slug:   SlugAlcoholContent,
		Values: []string{"0%", "4.2%", "5%", "6%", "7.5%", "12.5%", "13.5%", "35%", "40%", "43%"},
	},
	{
		Name:   "Origin",
		Slug:   SlugOrigin,
		Values: []string{"Kenya", "Tanzania", "Uganda", "South Africa", "Scotland", "Ireland", "France", "Mexico", "USA"},
	},
}

// AttributeIDs holds the resolved id for each well-known role.
type AttributeIDs struct {
	Volume         string
	AlcoholContent string
	Origin         string
}

// AttributeResolver ensures the three well-known schema attributes exist in
// the catalog, creating any missing ones in a single bulk call.
type AttributeResolver struct {
	catalog CatalogAPI
	logger  *zap.Logger
}

// NewAttributeResolver creates an attribute resolver.
func NewAttributeResolver(api CatalogAPI) *AttributeResolver {
	return &AttributeResolver{
		catalog: api,
		logger:  util.GetLogger(),
	}
}

// EnsureAttributes looks up each well-known attribute by slug and bulk
// creates the misses. If any role is still unresolved afterwards it fails
// with ErrMissingAttributeIDs; there is no partial acceptance.
func (r *AttributeResolver) EnsureAttributes(ctx context.Context) (AttributeIDs, error) {
	ctx, span := util.StartSpan(ctx, "AttributeResolver.EnsureAttributes")
	defer span.End()

	resolved := make(map[string]string, len(wellKnownAttributes))
	var pending []catalog.AttributeDefinition

	for _, def := range wellKnownAttributes {
		id, found, err := r.catalog.AttributeBySlug(ctx, def.Slug)
		if err != nil {
			return AttributeIDs{}, fmt.Errorf("failed to look up attribute %q: %w", def.Slug, err)
		}
		if found {
			resolved[def.Slug] = id
			continue
		}
		pending = append(pending, def)
	}

	if len(pending) > 0 {
		r.logger.Info("Creating missing catalog attributes",
			zap.Int("count", len(pending)))

		created, err := r.catalog.AttributeBulkCreate(ctx, pending)
		if err != nil {
			return AttributeIDs{}, fmt.Errorf("failed to bulk create attributes: %w", err)
		}

		for _, attr := range created {
			resolved[attr.Slug] = attr.ID
		}
		util.AttributesCreatedTotal.Add(float64(len(created)))
	}

	ids := AttributeIDs{
		Volume:         resolved[SlugVolume],
		AlcoholContent: resolved[SlugAlcoholContent],
		Origin:         resolved[SlugOrigin],
	}

	var missing []string
	if ids.Volume == "" {
		missing = append(missing, SlugVolume)
	}
	if ids.AlcoholContent == "" {
		missing = append(missing, SlugAlcoholContent)
	}
	if ids.Origin == "" {
		missing = append(missing, SlugOrigin)
	}
	if len(missing) > 0 {
		return AttributeIDs{}, fmt.Errorf("%w: %s", ErrMissingAttributeIDs, strings.Join(missing, ", "))
	}

	return ids, nil
}

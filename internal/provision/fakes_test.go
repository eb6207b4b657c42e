package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Qodestackr/Verity-sub004/internal/catalog"
	"github.com/Qodestackr/Verity-sub004/internal/models"
)

// fakeCatalog is an in-memory stand-in for the catalog service, counting
// every call so tests can assert on exactly how often each remote operation
// was issued.
type fakeCatalog struct {
	attributes map[string]string
	types      map[string]string
	nextID     int

	attrLookups     int
	attrBulkCreates int
	typeLookups     int
	typeCreates     int
	productCreates  int
	variantCreates  int
	publishes       int
	priceSets       int

	products []catalog.ProductCreateInput
	variants []catalog.VariantCreateInput
	prices   []int64

	bulkCreateErr   error
	dropBulkResults bool
	conflictOnType  bool
	conflictWinner  string
	publishErr      error
	priceErr        error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		attributes: make(map[string]string),
		types:      make(map[string]string),
	}
}

func (f *fakeCatalog) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeCatalog) AttributeBySlug(ctx context.Context, slug string) (string, bool, error) {
	f.attrLookups++
	id, ok := f.attributes[slug]
	return id, ok, nil
}

func (f *fakeCatalog) AttributeBulkCreate(ctx context.Context, defs []catalog.AttributeDefinition) ([]catalog.CreatedAttribute, error) {
	f.attrBulkCreates++
	if f.bulkCreateErr != nil {
		return nil, f.bulkCreateErr
	}

	created := make([]catalog.CreatedAttribute, 0, len(defs))
	for i, def := range defs {
		if f.dropBulkResults && i == len(defs)-1 {
			continue
		}
		id := f.id("attr")
		f.attributes[def.Slug] = id
		created = append(created, catalog.CreatedAttribute{ID: id, Slug: def.Slug})
	}
	return created, nil
}

func (f *fakeCatalog) ProductTypeBySlug(ctx context.Context, slug string) (string, bool, error) {
	f.typeLookups++
	id, ok := f.types[slug]
	return id, ok, nil
}

func (f *fakeCatalog) ProductTypeCreate(ctx context.Context, in catalog.ProductTypeCreateInput) (string, error) {
	f.typeCreates++

	if f.conflictOnType {
		if f.conflictWinner != "" {
			f.types[in.Slug] = f.conflictWinner
		}
		return "", &catalog.MutationError{
			Operation: "ProductTypeCreate",
			Errors:    []catalog.APIError{{Field: "slug", Message: "Product type with this Slug already exists.", Code: "UNIQUE"}},
		}
	}

	if _, exists := f.types[in.Slug]; exists {
		return "", &catalog.MutationError{
			Operation: "ProductTypeCreate",
			Errors:    []catalog.APIError{{Field: "slug", Message: "Product type with this Slug already exists.", Code: "UNIQUE"}},
		}
	}

	id := f.id("ptype")
	f.types[in.Slug] = id
	return id, nil
}

func (f *fakeCatalog) ProductCreate(ctx context.Context, in catalog.ProductCreateInput) (string, error) {
	f.productCreates++
	f.products = append(f.products, in)
	return f.id("prod"), nil
}

func (f *fakeCatalog) VariantCreate(ctx context.Context, in catalog.VariantCreateInput) (string, error) {
	f.variantCreates++
	f.variants = append(f.variants, in)
	return f.id("var"), nil
}

func (f *fakeCatalog) Publish(ctx context.Context, productID, channelID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.publishes++
	return nil
}

func (f *fakeCatalog) SetVariantPrice(ctx context.Context, variantID, channelID string, price int64) error {
	if f.priceErr != nil {
		return f.priceErr
	}
	f.priceSets++
	f.prices = append(f.prices, price)
	return nil
}

// calls sums every counter, so tests can assert that an operation issued no
// catalog traffic at all.
func (f *fakeCatalog) calls() int {
	return f.attrLookups + f.attrBulkCreates +
		f.typeLookups + f.typeCreates +
		f.productCreates + f.variantCreates +
		f.publishes + f.priceSets
}

var _ CatalogAPI = (*fakeCatalog)(nil)

// fakeStore is an in-memory submission journal.
type fakeStore struct {
	nextID int64
	byID   map[int64]*models.Submission
	byKey  map[string]*models.Submission
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byID:  make(map[int64]*models.Submission),
		byKey: make(map[string]*models.Submission),
	}
}

func (s *fakeStore) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	if _, exists := s.byKey[sub.IdempotencyKey]; exists {
		return fmt.Errorf("duplicate idempotency key: %s", sub.IdempotencyKey)
	}
	s.nextID++
	sub.ID = s.nextID
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	s.byID[sub.ID] = sub
	s.byKey[sub.IdempotencyKey] = sub
	return nil
}

func (s *fakeStore) GetSubmissionByID(ctx context.Context, id int64) (*models.Submission, error) {
	sub, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("submission not found: %d", id)
	}
	return sub, nil
}

func (s *fakeStore) GetSubmissionByIdempotencyKey(ctx context.Context, key string) (*models.Submission, error) {
	sub, ok := s.byKey[key]
	if !ok {
		return nil, nil
	}
	return sub, nil
}

func (s *fakeStore) MarkSubmissionProvisioned(ctx context.Context, id int64, productID, variantID string) error {
	sub, err := s.GetSubmissionByID(ctx, id)
	if err != nil {
		return err
	}
	sub.Status = models.SubmissionStatusProvisioned
	sub.ProductID = productID
	sub.VariantID = variantID
	sub.UpdatedAt = time.Now()
	return nil
}

func (s *fakeStore) MarkSubmissionFailed(ctx context.Context, id int64, failedStep, errMsg, productID, variantID string) error {
	sub, err := s.GetSubmissionByID(ctx, id)
	if err != nil {
		return err
	}
	sub.Status = models.SubmissionStatusFailed
	sub.FailedStep = failedStep
	sub.Error = errMsg
	sub.ProductID = productID
	sub.VariantID = variantID
	sub.UpdatedAt = time.Now()
	return nil
}

func (s *fakeStore) GetRecentSubmissions(ctx context.Context, limit int) ([]models.Submission, error) {
	subs := make([]models.Submission, 0, len(s.byID))
	for _, sub := range s.byID {
		if len(subs) == limit {
			break
		}
		subs = append(subs, *sub)
	}
	return subs, nil
}

var _ SubmissionStore = (*fakeStore)(nil)

// fakeEvents records published domain events.
type fakeEvents struct {
	provisioned []*models.ProductProvisionedEvent
	failed      []*models.ProvisioningFailedEvent
}

func (e *fakeEvents) PublishProductProvisioned(ctx context.Context, event *models.ProductProvisionedEvent) error {
	e.provisioned = append(e.provisioned, event)
	return nil
}

func (e *fakeEvents) PublishProvisioningFailed(ctx context.Context, event *models.ProvisioningFailedEvent) error {
	e.failed = append(e.failed, event)
	return nil
}

var _ EventSink = (*fakeEvents)(nil)

// memCache is an in-process Cache; down simulates an unreachable backend.
type memCache struct {
	entries map[string]string
	gets    int
	puts    int
	down    bool
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]string)}
}

func (c *memCache) TryGet(ctx context.Context, key string) (string, bool) {
	c.gets++
	if c.down {
		return "", false
	}
	v, ok := c.entries[key]
	return v, ok
}

func (c *memCache) TryPut(ctx context.Context, key, value string, ttl time.Duration) {
	c.puts++
	if c.down {
		return
	}
	c.entries[key] = value
}

var errBulkRejected = errors.New("bulk create rejected")

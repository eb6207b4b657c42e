package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/Qodestackr/Verity-sub004/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultFromRecord(t *testing.T) {
	provisioned := &models.Submission{
		Status:    models.SubmissionStatusProvisioned,
		ProductID: "prod-1",
		VariantID: "var-1",
	}

	result := resultFromRecord(provisioned)
	assert.True(t, result.Success)
	assert.Equal(t, "prod-1", result.ProductID)
	assert.Equal(t, "var-1", result.VariantID)

	failed := &models.Submission{
		Status:     models.SubmissionStatusFailed,
		ProductID:  "prod-2",
		FailedStep: StepPublish,
		Error:      "channel listing rejected",
	}

	result = resultFromRecord(failed)
	assert.False(t, result.Success)
	assert.Equal(t, StepPublish, result.FailedStep)
	assert.Equal(t, "prod-2", result.ProductID, "partial ids survive into the duplicate response")
}

func TestSubmitProductIdempotency(t *testing.T) {
	fake := newFakeCatalog()
	events := &fakeEvents{}
	svc := NewService(newFakeStore(), newTestPipeline(fake, newMemCache()), events)

	ctx := context.Background()

	sub := tuskerSubmission()
	sub.IdempotencyKey = "resupply-2026-001"

	firstID, first, err := svc.SubmitProduct(ctx, sub)
	require.NoError(t, err)
	require.True(t, first.Success)
	require.Len(t, events.provisioned, 1)

	callsAfterFirst := fake.calls()

	dup := tuskerSubmission()
	dup.IdempotencyKey = "resupply-2026-001"

	secondID, second, err := svc.SubmitProduct(ctx, dup)
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID)
	assert.Equal(t, first, second, "duplicate returns the recorded outcome")
	assert.Equal(t, callsAfterFirst, fake.calls(), "repeated idempotency key performs zero catalog calls")
	assert.Len(t, events.provisioned, 1, "no second event for a duplicate")
}

func TestSubmitProductReplaysRecordedFailure(t *testing.T) {
	fake := newFakeCatalog()
	fake.publishErr = errors.New("channel listing rejected")
	events := &fakeEvents{}
	svc := NewService(newFakeStore(), newTestPipeline(fake, newMemCache()), events)

	ctx := context.Background()

	sub := tuskerSubmission()
	sub.IdempotencyKey = "resupply-2026-002"

	_, first, err := svc.SubmitProduct(ctx, sub)
	require.NoError(t, err)
	require.False(t, first.Success)
	require.Len(t, events.failed, 1)
	assert.Equal(t, StepPublish, events.failed[0].Step)

	callsAfterFirst := fake.calls()

	dup := tuskerSubmission()
	dup.IdempotencyKey = "resupply-2026-002"

	_, second, err := svc.SubmitProduct(ctx, dup)
	require.NoError(t, err)

	assert.False(t, second.Success)
	assert.Equal(t, first, second, "recorded failure is replayed, not re-run")
	assert.Equal(t, callsAfterFirst, fake.calls())
	assert.Len(t, events.failed, 1)
}

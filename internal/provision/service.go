package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/Qodestackr/Verity-sub004/internal/models"
	"github.com/Qodestackr/Verity-sub004/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmissionStore is the slice of the journal the service depends on.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *models.Submission) error
	GetSubmissionByID(ctx context.Context, id int64) (*models.Submission, error)
	GetSubmissionByIdempotencyKey(ctx context.Context, key string) (*models.Submission, error)
	MarkSubmissionProvisioned(ctx context.Context, id int64, productID, variantID string) error
	MarkSubmissionFailed(ctx context.Context, id int64, failedStep, errMsg, productID, variantID string) error
	GetRecentSubmissions(ctx context.Context, limit int) ([]models.Submission, error)
}

// EventSink receives the domain events a pipeline run emits.
type EventSink interface {
	PublishProductProvisioned(ctx context.Context, event *models.ProductProvisionedEvent) error
	PublishProvisioningFailed(ctx context.Context, event *models.ProvisioningFailedEvent) error
}

// Service fronts the pipeline with the operational concerns a submission
// carries: idempotency against the journal, outcome recording, and domain
// event publication. The pipeline itself stays free of persistence.
type Service struct {
	store          SubmissionStore
	pipeline       *Pipeline
	eventPublisher EventSink
	logger         *zap.Logger
}

// NewService creates a new provisioning service
func NewService(st SubmissionStore, pipeline *Pipeline, eventPublisher EventSink) *Service {
	return &Service{
		store:          st,
		pipeline:       pipeline,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// SubmitProduct runs the pipeline for one submission. A repeated idempotency
// key returns the recorded outcome without touching the catalog again.
func (s *Service) SubmitProduct(ctx context.Context, sub *Submission) (int64, Result, error) {
	ctx, span := util.StartSpan(ctx, "Service.SubmitProduct")
	defer span.End()

	if sub.IdempotencyKey == "" {
		sub.IdempotencyKey = uuid.New().String()
	}

	existing, err := s.store.GetSubmissionByIdempotencyKey(ctx, sub.IdempotencyKey)
	if err != nil {
		return 0, Result{}, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existing != nil {
		util.SubmissionsDuplicateTotal.Inc()
		s.logger.Info("Duplicate submission detected",
			zap.String("idempotency_key", sub.IdempotencyKey),
			zap.Int64("submission_id", existing.ID))
		return existing.ID, resultFromRecord(existing), nil
	}

	record := &models.Submission{
		IdempotencyKey: sub.IdempotencyKey,
		Name:           sub.Name,
		Brand:          sub.Brand,
		Category:       sub.Category,
		Status:         models.SubmissionStatusReceived,
	}
	if err := s.store.CreateSubmission(ctx, record); err != nil {
		return 0, Result{}, fmt.Errorf("failed to record submission: %w", err)
	}

	result := s.pipeline.Provision(ctx, sub)

	if result.Success {
		if err := s.store.MarkSubmissionProvisioned(ctx, record.ID, result.ProductID, result.VariantID); err != nil {
			s.logger.Error("Failed to journal provisioned submission", zap.Error(err))
		}
		s.publishProvisioned(ctx, record.ID, sub, result)
	} else {
		if err := s.store.MarkSubmissionFailed(ctx, record.ID, result.FailedStep, result.Error, result.ProductID, result.VariantID); err != nil {
			s.logger.Error("Failed to journal failed submission", zap.Error(err))
		}
		s.publishFailed(ctx, record.ID, sub, result)
	}

	return record.ID, result, nil
}

// GetSubmission retrieves a recorded submission by ID
func (s *Service) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	return s.store.GetSubmissionByID(ctx, id)
}

// GetRecentSubmissions retrieves the most recent submissions
func (s *Service) GetRecentSubmissions(ctx context.Context, limit int) ([]models.Submission, error) {
	return s.store.GetRecentSubmissions(ctx, limit)
}

func resultFromRecord(rec *models.Submission) Result {
	return Result{
		Success:    rec.Status == models.SubmissionStatusProvisioned,
		ProductID:  rec.ProductID,
		VariantID:  rec.VariantID,
		FailedStep: rec.FailedStep,
		Error:      rec.Error,
	}
}

func (s *Service) publishProvisioned(ctx context.Context, submissionID int64, sub *Submission, result Result) {
	event := &models.ProductProvisionedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProductProvisioned,
			Timestamp: time.Now(),
		},
		SubmissionID: submissionID,
		ProductID:    result.ProductID,
		VariantID:    result.VariantID,
		Name:         sub.Name,
		Category:     sub.Category,
	}

	if err := s.eventPublisher.PublishProductProvisioned(ctx, event); err != nil {
		s.logger.Error("Failed to publish ProductProvisioned event", zap.Error(err))
	}
}

func (s *Service) publishFailed(ctx context.Context, submissionID int64, sub *Submission, result Result) {
	event := &models.ProvisioningFailedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProvisioningFailed,
			Timestamp: time.Now(),
		},
		SubmissionID: submissionID,
		Name:         sub.Name,
		Category:     sub.Category,
		Step:         result.FailedStep,
		Reason:       result.Error,
	}

	if err := s.eventPublisher.PublishProvisioningFailed(ctx, event); err != nil {
		s.logger.Error("Failed to publish ProvisioningFailed event", zap.Error(err))
	}
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Qodestackr/Verity-sub004/internal/models"
)

// CreateSubmission records a newly received submission
func (s *Store) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO submissions (idempotency_key, name, brand, category, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, sub, query,
		sub.IdempotencyKey, sub.Name, sub.Brand, sub.Category, sub.Status)
}

// GetSubmissionByID retrieves a submission by ID
func (s *Store) GetSubmissionByID(ctx context.Context, id int64) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.GetContext(ctx, &sub, "SELECT * FROM submissions WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("submission not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetSubmissionByIdempotencyKey retrieves a submission by idempotency key
func (s *Store) GetSubmissionByIdempotencyKey(ctx context.Context, key string) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.GetContext(ctx, &sub, "SELECT * FROM submissions WHERE idempotency_key = $1", key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// MarkSubmissionProvisioned records a successful pipeline run
func (s *Store) MarkSubmissionProvisioned(ctx context.Context, id int64, productID, variantID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE submissions
		SET status = $1, product_id = $2, variant_id = $3, updated_at = NOW()
		WHERE id = $4`,
		models.SubmissionStatusProvisioned, productID, variantID, id)
	return err
}

// MarkSubmissionFailed records an aborted pipeline run, including whatever
// partial ids the run left behind in the catalog.
func (s *Store) MarkSubmissionFailed(ctx context.Context, id int64, failedStep, errMsg, productID, variantID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE submissions
		SET status = $1, failed_step = $2, error = $3, product_id = $4, variant_id = $5, updated_at = NOW()
		WHERE id = $6`,
		models.SubmissionStatusFailed, failedStep, errMsg, productID, variantID, id)
	return err
}

// GetRecentSubmissions retrieves the most recent submissions for the dashboard
func (s *Store) GetRecentSubmissions(ctx context.Context, limit int) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.SelectContext(ctx, &subs,
		"SELECT * FROM submissions ORDER BY created_at DESC LIMIT $1", limit)
	return subs, err
}

package models

import "time"

// Submission is the journal record for one provisioning run. The catalog
// service owns all durable product state; this row only tracks the run's
// outcome and the ids it produced, including partial ids from failed runs.
type Submission struct {
	ID             int64     `db:"id" json:"id"`
	IdempotencyKey string    `db:"idempotency_key" json:"idempotency_key,omitempty"`
	Name           string    `db:"name" json:"name"`
	Brand          string    `db:"brand" json:"brand"`
	Category       string    `db:"category" json:"category"`
	Status         string    `db:"status" json:"status"`
	ProductID      string    `db:"product_id" json:"product_id,omitempty"`
	VariantID      string    `db:"variant_id" json:"variant_id,omitempty"`
	FailedStep     string    `db:"failed_step" json:"failed_step,omitempty"`
	Error          string    `db:"error" json:"error,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Submission statuses
const (
	SubmissionStatusReceived    = "RECEIVED"
	SubmissionStatusProvisioned = "PROVISIONED"
	SubmissionStatusFailed      = "FAILED"
)

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

package models

import "time"

// Event types
const (
	EventTypeProductSubmitted   = "PRODUCT_SUBMITTED"
	EventTypeProductProvisioned = "PRODUCT_PROVISIONED"
	EventTypeProvisioningFailed = "PROVISIONING_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmittedProduct is the flat form-shaped payload carried by intake events.
type SubmittedProduct struct {
	Name              string `json:"name"`
	Brand             string `json:"brand"`
	Type              string `json:"type"`
	Category          string `json:"category"`
	Volume            string `json:"volume"`
	Price             int64  `json:"price"`
	SKU               string `json:"sku,omitempty"`
	AlcoholPercentage string `json:"alcohol_percentage"`
	Origin            string `json:"origin,omitempty"`
	Stock             int    `json:"stock"`
	Description       string `json:"description,omitempty"`
	IdempotencyKey    string `json:"idempotency_key,omitempty"`
}

// ProductSubmittedEvent enqueues a product for asynchronous provisioning
type ProductSubmittedEvent struct {
	BaseEvent
	Product SubmittedProduct `json:"product"`
}

// ProductProvisionedEvent published after a pipeline run completes
type ProductProvisionedEvent struct {
	BaseEvent
	SubmissionID int64  `json:"submission_id"`
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
}

// ProvisioningFailedEvent published when a pipeline run aborts
type ProvisioningFailedEvent struct {
	BaseEvent
	SubmissionID int64  `json:"submission_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Step         string `json:"step"`
	Reason       string `json:"reason"`
}

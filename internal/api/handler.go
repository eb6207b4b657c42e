package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Qodestackr/Verity-sub004/internal/models"
	"github.com/Qodestackr/Verity-sub004/internal/provision"
	"github.com/Qodestackr/Verity-sub004/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SubmissionPublisher enqueues products for asynchronous provisioning.
type SubmissionPublisher interface {
	PublishProductSubmitted(ctx context.Context, event *models.ProductSubmittedEvent) error
}

// Handler contains HTTP handlers
type Handler struct {
	service   *provision.Service
	publisher SubmissionPublisher
}

// NewHandler creates a new HTTP handler
func NewHandler(service *provision.Service, publisher SubmissionPublisher) *Handler {
	return &Handler{
		service:   service,
		publisher: publisher,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/products", h.addProduct)
		v1.POST("/products/async", h.enqueueProduct)
		v1.GET("/submissions", h.listSubmissions)
		v1.GET("/submissions/:id", h.getSubmission)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// addProduct runs the provisioning pipeline for one submitted product
func (h *Handler) addProduct(c *gin.Context) {
	var sub provision.Submission

	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if sub.IdempotencyKey == "" {
		sub.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	submissionID, result, err := h.service.SubmitProduct(c.Request.Context(), &sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process submission",
			"details": err.Error(),
		})
		return
	}

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{
		"submission_id": submissionID,
		"success":       result.Success,
		"product_id":    result.ProductID,
		"variant_id":    result.VariantID,
		"failed_step":   result.FailedStep,
		"error":         result.Error,
	})
}

// enqueueProduct publishes the submission to the intake topic instead of
// running the pipeline inline; the intake worker picks it up from there.
func (h *Handler) enqueueProduct(c *gin.Context) {
	var sub provision.Submission

	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if sub.IdempotencyKey == "" {
		sub.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}
	if sub.IdempotencyKey == "" {
		sub.IdempotencyKey = uuid.New().String()
	}

	event := &models.ProductSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProductSubmitted,
			Timestamp: time.Now(),
		},
		Product: models.SubmittedProduct{
			Name:              sub.Name,
			Brand:             sub.Brand,
			Type:              sub.Type,
			Category:          sub.Category,
			Volume:            sub.Volume,
			Price:             sub.Price,
			SKU:               sub.SKU,
			AlcoholPercentage: sub.AlcoholPercentage,
			Origin:            sub.Origin,
			Stock:             sub.Stock,
			Description:       sub.Description,
			IdempotencyKey:    sub.IdempotencyKey,
		},
	}

	if err := h.publisher.PublishProductSubmitted(c.Request.Context(), event); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue submission",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"queued":          true,
		"idempotency_key": sub.IdempotencyKey,
	})
}

// listSubmissions returns the most recent submissions for the dashboard
func (h *Handler) listSubmissions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}

	subs, err := h.service.GetRecentSubmissions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list submissions",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": subs,
	})
}

// getSubmission handles get submission by ID
func (h *Handler) getSubmission(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid submission ID",
		})
		return
	}

	sub, err := h.service.GetSubmission(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Submission not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": sub,
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"ordersync/internal/logger"
	"ordersync/internal/reconcile"
	"ordersync/internal/tenant"
	"ordersync/internal/webhook"

	"github.com/gin-gonic/gin"
)

const (
	signatureHeader  = "X-Shopify-Hmac-Sha256"
	shopDomainHeader = "X-Shopify-Shop-Domain"
)

type WebhookHandler struct {
	logger     *logger.Logger
	resolver   *tenant.Resolver
	dispatcher *reconcile.Dispatcher
}

func NewWebhookHandler(logger *logger.Logger, resolver *tenant.Resolver, dispatcher *reconcile.Dispatcher) *WebhookHandler {
	return &WebhookHandler{
		logger:     logger,
		resolver:   resolver,
		dispatcher: dispatcher,
	}
}

// ProductUpdate accepts a product-update webhook. The raw body bytes are used
// as-is for signature verification; nothing in the request is trusted before
// the signature passes. Reconciliation runs detached after the 200 response:
// its result can never change the status the sender sees.
func (h *WebhookHandler) ProductUpdate(c *gin.Context) {
	shopDomain := c.GetHeader(shopDomainHeader)
	t, ok := h.resolver.Resolve(shopDomain)
	if !ok {
		h.logger.Warn("Webhook from unknown shop domain %q rejected", shopDomain)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown shop domain"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		h.logger.Error("Failed to read webhook body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	if !webhook.Verify(body, c.GetHeader(signatureHeader), t.SecretKey) {
		h.logger.Warn("Webhook signature verification failed for %s", shopDomain)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook signature"})
		return
	}

	var payload struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Error("Failed to parse webhook payload from %s: %v", shopDomain, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid payload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook accepted"})

	h.dispatcher.Dispatch(reconcile.Event{
		ProductID: payload.ID,
		Tenant:    t,
	})
}

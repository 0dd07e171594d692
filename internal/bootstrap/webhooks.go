package bootstrap

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"ordersync/internal/logger"
	"ordersync/internal/models"
	"ordersync/internal/services/shopify"
	"ordersync/internal/tenant"
)

const (
	productUpdateTopic = "PRODUCTS_UPDATE"
	webhookPath        = "/webhooks-filtered"
)

// SubscriptionAPI is the slice of the Admin API used to manage webhook
// subscriptions.
type SubscriptionAPI interface {
	WebhookSubscriptions(ctx context.Context) ([]shopify.WebhookSubscription, error)
	CreateWebhookSubscription(ctx context.Context, topic, callbackURL string) (string, error)
	DeleteWebhookSubscription(ctx context.Context, id string) error
}

// EnsureWebhooks makes sure each tenant has a PRODUCTS_UPDATE subscription
// pointing at this deployment's callback URL: stale subscriptions for the
// topic are deleted, a missing one is created. Invoked exactly once from the
// process entrypoint, before serving. Failures are logged per tenant and do
// not abort startup. db may be nil; when set, ensured subscriptions are
// recorded in webhook_registrations.
func EnsureWebhooks(ctx context.Context, logg *logger.Logger, db *gorm.DB, apiFor func(t tenant.Tenant) SubscriptionAPI, tenants []tenant.Tenant, publicBaseURL string) {
	if publicBaseURL == "" {
		logg.Warn("PUBLIC_BASE_URL not set, skipping webhook registration")
		return
	}
	callbackURL := strings.TrimRight(publicBaseURL, "/") + webhookPath

	for _, t := range tenants {
		if err := ensureTenantWebhook(ctx, logg, db, apiFor(t), t, callbackURL); err != nil {
			logg.Error("Webhook registration for %s failed: %v", t.Domain, err)
		}
	}
}

func ensureTenantWebhook(ctx context.Context, logg *logger.Logger, db *gorm.DB, api SubscriptionAPI, t tenant.Tenant, callbackURL string) error {
	subs, err := api.WebhookSubscriptions(ctx)
	if err != nil {
		return err
	}

	exists := false
	for _, sub := range subs {
		if sub.Topic != productUpdateTopic {
			continue
		}
		if sub.CallbackURL == callbackURL {
			exists = true
			continue
		}
		// A subscription for our topic pointing somewhere else is stale,
		// usually left over from a previous deployment URL.
		if err := api.DeleteWebhookSubscription(ctx, sub.ID); err != nil {
			logg.Error("Failed to delete stale subscription %s for %s: %v", sub.ID, t.Domain, err)
			continue
		}
		logg.Info("Deleted stale subscription %s for %s (was %s)", sub.ID, t.Domain, sub.CallbackURL)
	}

	if exists {
		logg.Debug("Subscription for %s already registered", t.Domain)
		return nil
	}

	id, err := api.CreateWebhookSubscription(ctx, productUpdateTopic, callbackURL)
	if err != nil {
		return err
	}
	logg.Info("Registered %s subscription %s for %s", productUpdateTopic, id, t.Domain)

	if db != nil {
		reg := &models.WebhookRegistration{
			ShopDomain:     t.Domain,
			Topic:          productUpdateTopic,
			SubscriptionID: id,
			CallbackURL:    callbackURL,
		}
		if err := db.Create(reg).Error; err != nil {
			logg.Error("Failed to record registration for %s: %v", t.Domain, err)
		}
	}

	return nil
}

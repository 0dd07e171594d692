package reconcile

import (
	"context"
	"time"

	"ordersync/internal/services/shopify"
	"ordersync/internal/tenant"
)

// ShopifyAPI is the slice of the Admin API the reconcilers depend on. The
// concrete implementation is shopify.Client; tests substitute fakes.
type ShopifyAPI interface {
	ProductDetail(ctx context.Context, productGID string) (*shopify.ProductDetail, error)
	VariantParents(ctx context.Context, variantIDs []string) (map[string]string, error)
	ReorderCollection(ctx context.Context, collectionGID string, moves []shopify.Move) (string, error)
	SetRelatedProducts(ctx context.Context, productGID string, relatedProductGIDs []string) error
}

// Event is one verified product-update notification. Ephemeral: it lives only
// for the duration of a single reconciliation pass.
type Event struct {
	ProductID int64
	Tenant    tenant.Tenant
}

// Outcome describes one finished reconciler pass for the journal.
type Outcome struct {
	EventID    string    `json:"event_id"`
	ShopDomain string    `json:"shop_domain"`
	ProductID  string    `json:"product_id"`
	Step       string    `json:"step"`
	Mutations  int       `json:"mutations"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// OutcomeRecorder receives reconciliation outcomes. Implementations must be
// safe for concurrent use; recording is best-effort and must not block the
// reconcilers for long.
type OutcomeRecorder interface {
	Record(outcome Outcome)
}

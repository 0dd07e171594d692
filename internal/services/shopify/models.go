package shopify

import (
	"fmt"
	"strings"
)

const productGIDPrefix = "gid://shopify/Product/"

// UserError is a field-level error returned inside a successful GraphQL response.
type UserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

// Move assigns a collection member its new 1-based position.
type Move struct {
	ID          string `json:"id"`
	NewPosition string `json:"newPosition"`
}

// OrderedProduct is a collection member together with the raw value of its
// custom.product_order metafield ("" when the metafield is absent).
type OrderedProduct struct {
	ID         string
	OrderValue string
}

// CollectionDetail is one custom collection in current (manual) member order.
type CollectionDetail struct {
	ID       string
	Title    string
	Products []OrderedProduct
}

// ProductDetail is the reconciliation view of a product: the curated
// related-products source metafield plus its custom collections.
type ProductDetail struct {
	ID          string
	RelatedRaw  string
	Collections []CollectionDetail
}

// WebhookSubscription is a registered webhook as reported by the platform.
type WebhookSubscription struct {
	ID          string
	Topic       string
	CallbackURL string
}

// ProductGID converts a webhook's numeric product id to its GraphQL global id.
func ProductGID(id int64) string {
	return fmt.Sprintf("%s%d", productGIDPrefix, id)
}

// LegacyID extracts the trailing numeric id from a GraphQL global id. Values
// that are not gids pass through unchanged.
func LegacyID(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}

package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	recommendationNamespace = "shopify--discovery--product_recommendation"
	recommendationKey       = "related_products"
	recommendationType      = "list.product_reference"
)

const metafieldsSetMutation = `
	mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
		metafieldsSet(metafields: $metafields) {
			userErrors {
				field
				message
			}
		}
	}
`

// SetRelatedProducts writes the resolved parent-product list into the
// platform-recognized recommendation metafield, replacing any prior value.
func (c *Client) SetRelatedProducts(ctx context.Context, productGID string, relatedProductGIDs []string) error {
	value, err := json.Marshal(relatedProductGIDs)
	if err != nil {
		return fmt.Errorf("marshal related product references: %w", err)
	}

	out := struct {
		MetafieldsSet struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}{}

	vars := map[string]interface{}{
		"metafields": []map[string]interface{}{
			{
				"ownerId":   productGID,
				"namespace": recommendationNamespace,
				"key":       recommendationKey,
				"type":      recommendationType,
				"value":     string(value),
			},
		},
	}
	if err := c.graphql(ctx, metafieldsSetMutation, vars, &out); err != nil {
		return fmt.Errorf("mutation: %w", err)
	}

	return userErrorsToError("metafieldsSet", out.MetafieldsSet.UserErrors)
}

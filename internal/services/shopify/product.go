package shopify

import (
	"context"
	"fmt"
	"strings"
)

const (
	orderNamespace = "custom"
	orderKey       = "product_order"

	relatedSourceNamespace = "custom"
	relatedSourceKey       = "related_products_from_volo"
)

var productDetailQuery = fmt.Sprintf(`
	query productDetail($id: ID!) {
		product(id: $id) {
			id
			related: metafield(namespace: "%s", key: "%s") {
				value
			}
			collections(first: 10, query: "collection_type:custom") {
				nodes {
					id
					title
					products(first: 250) {
						nodes {
							id
							order: metafield(namespace: "%s", key: "%s") {
								value
							}
						}
					}
				}
			}
		}
	}
`, relatedSourceNamespace, relatedSourceKey, orderNamespace, orderKey)

// ProductDetail fetches the product's curated related-products metafield and
// its custom collections with each member's order metafield, in the
// collection's current manual order.
func (c *Client) ProductDetail(ctx context.Context, productGID string) (*ProductDetail, error) {
	out := struct {
		Product *struct {
			ID      string `json:"id"`
			Related *struct {
				Value string `json:"value"`
			} `json:"related"`
			Collections struct {
				Nodes []struct {
					ID       string `json:"id"`
					Title    string `json:"title"`
					Products struct {
						Nodes []struct {
							ID    string `json:"id"`
							Order *struct {
								Value string `json:"value"`
							} `json:"order"`
						} `json:"nodes"`
					} `json:"products"`
				} `json:"nodes"`
			} `json:"collections"`
		} `json:"product"`
	}{}

	if err := c.graphql(ctx, productDetailQuery, map[string]interface{}{"id": productGID}, &out); err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	if out.Product == nil {
		return nil, fmt.Errorf("product %s not found", productGID)
	}

	detail := &ProductDetail{ID: out.Product.ID}
	if out.Product.Related != nil {
		detail.RelatedRaw = out.Product.Related.Value
	}

	for _, coll := range out.Product.Collections.Nodes {
		members := make([]OrderedProduct, 0, len(coll.Products.Nodes))
		for _, p := range coll.Products.Nodes {
			member := OrderedProduct{ID: p.ID}
			if p.Order != nil {
				member.OrderValue = p.Order.Value
			}
			members = append(members, member)
		}
		detail.Collections = append(detail.Collections, CollectionDetail{
			ID:       coll.ID,
			Title:    coll.Title,
			Products: members,
		})
	}

	return detail, nil
}

const variantParentsQuery = `
	query variantParents($q: String!) {
		productVariants(first: 100, query: $q) {
			nodes {
				id
				product {
					id
				}
			}
		}
	}
`

// VariantParents resolves one batch of up to 100 variant ids to their parent
// product gids. The result is keyed by the variant's numeric id.
func (c *Client) VariantParents(ctx context.Context, variantIDs []string) (map[string]string, error) {
	if len(variantIDs) == 0 {
		return map[string]string{}, nil
	}

	terms := make([]string, len(variantIDs))
	for i, id := range variantIDs {
		terms[i] = "id:" + LegacyID(id)
	}

	out := struct {
		ProductVariants struct {
			Nodes []struct {
				ID      string `json:"id"`
				Product struct {
					ID string `json:"id"`
				} `json:"product"`
			} `json:"nodes"`
		} `json:"productVariants"`
	}{}

	vars := map[string]interface{}{"q": strings.Join(terms, " OR ")}
	if err := c.graphql(ctx, variantParentsQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("query variant parents: %w", err)
	}

	parents := make(map[string]string, len(out.ProductVariants.Nodes))
	for _, node := range out.ProductVariants.Nodes {
		parents[LegacyID(node.ID)] = node.Product.ID
	}

	return parents, nil
}

const collectionReorderMutation = `
	mutation collectionReorder($id: ID!, $moves: [MoveInput!]!) {
		collectionReorderProducts(id: $id, moves: $moves) {
			job {
				id
			}
			userErrors {
				field
				message
			}
		}
	}
`

// ReorderCollection submits the full move list for one collection. The
// platform runs the reorder as an asynchronous job; the returned job id is
// informational only and never polled.
func (c *Client) ReorderCollection(ctx context.Context, collectionGID string, moves []Move) (string, error) {
	out := struct {
		CollectionReorderProducts struct {
			Job *struct {
				ID string `json:"id"`
			} `json:"job"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"collectionReorderProducts"`
	}{}

	vars := map[string]interface{}{
		"id":    collectionGID,
		"moves": moves,
	}
	if err := c.graphql(ctx, collectionReorderMutation, vars, &out); err != nil {
		return "", fmt.Errorf("mutation: %w", err)
	}
	if err := userErrorsToError("collectionReorderProducts", out.CollectionReorderProducts.UserErrors); err != nil {
		return "", err
	}

	jobID := ""
	if out.CollectionReorderProducts.Job != nil {
		jobID = out.CollectionReorderProducts.Job.ID
	}
	return jobID, nil
}

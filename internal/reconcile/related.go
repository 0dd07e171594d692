package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"ordersync/internal/logger"
	"ordersync/internal/services/shopify"
)

const variantBatchSize = 100

// RelatedReconciler resolves the curated related-variants metafield to parent
// products and writes the result into the recommendation metafield.
type RelatedReconciler struct {
	logger *logger.Logger
}

func NewRelatedReconciler(logger *logger.Logger) *RelatedReconciler {
	return &RelatedReconciler{logger: logger}
}

// Run returns the number of metafield writes issued (0 or 1).
func (r *RelatedReconciler) Run(ctx context.Context, api ShopifyAPI, productGID string) (int, error) {
	detail, err := api.ProductDetail(ctx, productGID)
	if err != nil {
		return 0, fmt.Errorf("fetch product: %w", err)
	}

	variantIDs, err := flattenVariantGroups(detail.RelatedRaw)
	if err != nil {
		return 0, fmt.Errorf("parse curated related metafield: %w", err)
	}
	if len(variantIDs) == 0 {
		r.logger.Debug("product %s has no curated related variants, skipping", detail.ID)
		return 0, nil
	}

	parents := make(map[string]string)
	for i := 0; i < len(variantIDs); i += variantBatchSize {
		end := min(i+variantBatchSize, len(variantIDs))
		batch, err := api.VariantParents(ctx, variantIDs[i:end])
		if err != nil {
			return 0, fmt.Errorf("resolve variant parents %d-%d: %w", i, end, err)
		}
		maps.Copy(parents, batch)
	}

	// Parents are appended in curated order. Duplicate parents are kept:
	// the upstream metafield author may repeat a product on purpose.
	related := make([]string, 0, len(variantIDs))
	for _, vid := range variantIDs {
		parent, ok := parents[shopify.LegacyID(vid)]
		if !ok {
			r.logger.Warn("variant %s did not resolve to a product, skipping", vid)
			continue
		}
		related = append(related, parent)
	}

	if err := api.SetRelatedProducts(ctx, detail.ID, related); err != nil {
		return 0, fmt.Errorf("write related products: %w", err)
	}

	r.logger.Info("wrote %d related products for %s", len(related), detail.ID)
	return 1, nil
}

// flattenVariantGroups parses the metafield value, a JSON list of
// comma-joined variant-id groups, into a flat id list. Order is preserved and
// duplicates are allowed.
func flattenVariantGroups(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var groups []string
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil, err
	}

	var ids []string
	for _, group := range groups {
		for _, id := range strings.Split(group, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

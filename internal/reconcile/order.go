package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ordersync/internal/logger"
	"ordersync/internal/services/shopify"
)

// OrderReconciler brings each custom collection's manual order in line with
// the members' custom.product_order metafields.
type OrderReconciler struct {
	logger *logger.Logger
}

func NewOrderReconciler(logger *logger.Logger) *OrderReconciler {
	return &OrderReconciler{logger: logger}
}

// Run reconciles every custom collection the product belongs to and returns
// the number of reorder mutations issued. A failing collection is logged and
// skipped; the remaining collections are still processed.
func (r *OrderReconciler) Run(ctx context.Context, api ShopifyAPI, productGID string) (int, error) {
	detail, err := api.ProductDetail(ctx, productGID)
	if err != nil {
		return 0, fmt.Errorf("fetch product: %w", err)
	}

	mutations := 0
	for _, coll := range detail.Collections {
		moves := desiredMoves(coll.Products)
		if moves == nil {
			r.logger.Debug("collection %s already in metafield order, skipping", coll.ID)
			continue
		}

		// The reorder runs as an asynchronous platform job; it is not polled.
		jobID, err := api.ReorderCollection(ctx, coll.ID, moves)
		if err != nil {
			r.logger.Error("reorder collection %s: %v", coll.ID, err)
			continue
		}

		mutations++
		r.logger.Info("reordered collection %s with %d moves (job %s)", coll.ID, len(moves), jobID)
	}

	return mutations, nil
}

// desiredMoves computes the full 1-based move list that puts members into
// metafield order, or nil when the current order already matches. The sort is
// stable over fetch order so repeated runs with partial ties converge.
func desiredMoves(members []shopify.OrderedProduct) []shopify.Move {
	if len(members) == 0 {
		return nil
	}

	sorted := make([]shopify.OrderedProduct, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return orderValue(sorted[i].OrderValue) < orderValue(sorted[j].OrderValue)
	})

	changed := false
	for i := range sorted {
		if sorted[i].ID != members[i].ID {
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}

	moves := make([]shopify.Move, len(sorted))
	for i, m := range sorted {
		moves[i] = shopify.Move{ID: m.ID, NewPosition: strconv.Itoa(i + 1)}
	}
	return moves
}

// orderValue parses a custom.product_order value; missing or non-numeric
// values sort as 0.
func orderValue(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

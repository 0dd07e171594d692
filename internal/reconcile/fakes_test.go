package reconcile

import (
	"context"
	"sync"

	"ordersync/internal/services/shopify"
)

type reorderCall struct {
	collectionID string
	moves        []shopify.Move
}

// fakeAPI implements ShopifyAPI with scripted responses. Safe for concurrent
// use so dispatcher tests can run both steps against one instance.
type fakeAPI struct {
	mu sync.Mutex

	detail    *shopify.ProductDetail
	detailErr error

	parents     map[string]string
	parentsErr  error
	parentCalls [][]string

	reorders        []reorderCall
	reorderErr      error
	reorderPanic    bool
	reorderAttempts int

	relatedWrites [][]string
	setErr        error
	setPanic      bool
}

func (f *fakeAPI) ProductDetail(ctx context.Context, productGID string) (*shopify.ProductDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeAPI) VariantParents(ctx context.Context, variantIDs []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parentCalls = append(f.parentCalls, append([]string(nil), variantIDs...))
	if f.parentsErr != nil {
		return nil, f.parentsErr
	}
	out := make(map[string]string)
	for _, id := range variantIDs {
		if parent, ok := f.parents[id]; ok {
			out[id] = parent
		}
	}
	return out, nil
}

func (f *fakeAPI) ReorderCollection(ctx context.Context, collectionGID string, moves []shopify.Move) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reorderAttempts++
	if f.reorderPanic {
		panic("reorder exploded")
	}
	if f.reorderErr != nil {
		return "", f.reorderErr
	}
	f.reorders = append(f.reorders, reorderCall{collectionID: collectionGID, moves: moves})
	return "gid://shopify/Job/1", nil
}

func (f *fakeAPI) SetRelatedProducts(ctx context.Context, productGID string, relatedProductGIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setPanic {
		panic("metafield write exploded")
	}
	if f.setErr != nil {
		return f.setErr
	}
	f.relatedWrites = append(f.relatedWrites, append([]string(nil), relatedProductGIDs...))
	return nil
}

func (f *fakeAPI) reorderCalls() []reorderCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]reorderCall(nil), f.reorders...)
}

func (f *fakeAPI) writes() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.relatedWrites...)
}

// fakeRecorder collects outcomes for assertions.
type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *fakeRecorder) Record(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *fakeRecorder) recorded() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes...)
}

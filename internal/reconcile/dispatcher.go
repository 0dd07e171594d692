package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ordersync/internal/logger"
	"ordersync/internal/services/shopify"
	"ordersync/internal/tenant"
)

const (
	stepCollectionOrder = "collection_order"
	stepRelatedProducts = "related_products"
)

// Dispatcher runs both reconcilers for a verified event in the background.
// Dispatch returns immediately; every error and panic is contained inside the
// step's own boundary, so the caller (the webhook handler, which has already
// responded) never sees a reconciliation failure. There is no per-product
// mutual exclusion: overlapping events for the same product may interleave
// and the last write wins.
type Dispatcher struct {
	logger  *logger.Logger
	apiFor  func(t tenant.Tenant) ShopifyAPI
	order   *OrderReconciler
	related *RelatedReconciler
	journal OutcomeRecorder
	wg      sync.WaitGroup
}

// NewDispatcher builds a dispatcher. journal may be nil.
func NewDispatcher(logger *logger.Logger, apiFor func(t tenant.Tenant) ShopifyAPI, journal OutcomeRecorder) *Dispatcher {
	return &Dispatcher{
		logger:  logger,
		apiFor:  apiFor,
		order:   NewOrderReconciler(logger),
		related: NewRelatedReconciler(logger),
		journal: journal,
	}
}

// Dispatch hands the event to detached reconciliation and returns. The
// related-products step only runs for tenants with the feature enabled.
func (d *Dispatcher) Dispatch(ev Event) {
	eventID := uuid.New().String()
	api := d.apiFor(ev.Tenant)
	productGID := shopify.ProductGID(ev.ProductID)

	d.logger.Debug("[%s] dispatching product %d for %s", eventID, ev.ProductID, ev.Tenant.Domain)

	d.wg.Add(1)
	go d.runStep(eventID, ev, stepCollectionOrder, func(ctx context.Context) (int, error) {
		return d.order.Run(ctx, api, productGID)
	})

	if ev.Tenant.RelatedEnabled {
		d.wg.Add(1)
		go d.runStep(eventID, ev, stepRelatedProducts, func(ctx context.Context) (int, error) {
			return d.related.Run(ctx, api, productGID)
		})
	}
}

// Wait blocks until every dispatched pass has finished. Used by tests and
// graceful shutdown; the HTTP path never waits.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) runStep(eventID string, ev Event, step string, fn func(ctx context.Context) (int, error)) {
	defer d.wg.Done()

	productGID := shopify.ProductGID(ev.ProductID)
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("[%s] %s panic for product %d on %s: %v", eventID, step, ev.ProductID, ev.Tenant.Domain, rec)
			d.record(Outcome{
				EventID:    eventID,
				ShopDomain: ev.Tenant.Domain,
				ProductID:  productGID,
				Step:       step,
				Error:      fmt.Sprintf("panic: %v", rec),
				Timestamp:  time.Now().UTC(),
			})
		}
	}()

	mutations, err := fn(context.Background())

	outcome := Outcome{
		EventID:    eventID,
		ShopDomain: ev.Tenant.Domain,
		ProductID:  productGID,
		Step:       step,
		Mutations:  mutations,
		Timestamp:  time.Now().UTC(),
	}
	if err != nil {
		outcome.Error = err.Error()
		d.logger.Error("[%s] %s for product %d on %s: %v", eventID, step, ev.ProductID, ev.Tenant.Domain, err)
	} else {
		d.logger.Debug("[%s] %s finished with %d mutations", eventID, step, mutations)
	}

	d.record(outcome)
}

func (d *Dispatcher) record(o Outcome) {
	if d.journal == nil {
		return
	}
	d.journal.Record(o)
}

package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordersync/internal/logger"
	"ordersync/internal/reconcile"
	"ordersync/internal/services/shopify"
	"ordersync/internal/tenant"
)

type stubAPI struct {
	mu           sync.Mutex
	detailCalls  []string
	reorderCalls int
}

func (s *stubAPI) ProductDetail(ctx context.Context, productGID string) (*shopify.ProductDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailCalls = append(s.detailCalls, productGID)
	return &shopify.ProductDetail{ID: productGID}, nil
}

func (s *stubAPI) VariantParents(ctx context.Context, variantIDs []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (s *stubAPI) ReorderCollection(ctx context.Context, collectionGID string, moves []shopify.Move) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reorderCalls++
	return "", nil
}

func (s *stubAPI) SetRelatedProducts(ctx context.Context, productGID string, relatedProductGIDs []string) error {
	return nil
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubAPI, *reconcile.Dispatcher) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resolver, err := tenant.Parse("shop-a.myshopify.com:secret-a:token-a,shop-b.myshopify.com:secret-b:token-b", "")
	require.NoError(t, err)

	api := &stubAPI{}
	logg := logger.New("error")
	dispatcher := reconcile.NewDispatcher(logg, func(tenant.Tenant) reconcile.ShopifyAPI {
		return api
	}, nil)

	router := gin.New()
	router.POST("/webhooks-filtered", NewWebhookHandler(logg, resolver, dispatcher).ProductUpdate)
	return router, api, dispatcher
}

func postWebhook(router *gin.Engine, body []byte, domain, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks-filtered", bytes.NewReader(body))
	if domain != "" {
		req.Header.Set("X-Shopify-Shop-Domain", domain)
	}
	if signature != "" {
		req.Header.Set("X-Shopify-Hmac-Sha256", signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProductUpdateAccepted(t *testing.T) {
	router, api, dispatcher := newTestRouter(t)

	body := []byte(`{"id":123,"title":"Widget"}`)
	w := postWebhook(router, body, "shop-a.myshopify.com", sign(body, "secret-a"))

	assert.Equal(t, http.StatusOK, w.Code)

	dispatcher.Wait()
	require.Len(t, api.detailCalls, 1)
	assert.Equal(t, "gid://shopify/Product/123", api.detailCalls[0])
}

func TestProductUpdateUnknownDomain(t *testing.T) {
	router, api, _ := newTestRouter(t)

	body := []byte(`{"id":123}`)
	w := postWebhook(router, body, "evil.myshopify.com", sign(body, "secret-a"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, api.detailCalls)
}

func TestProductUpdateMissingDomainHeader(t *testing.T) {
	router, api, _ := newTestRouter(t)

	body := []byte(`{"id":123}`)
	w := postWebhook(router, body, "", sign(body, "secret-a"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, api.detailCalls)
}

func TestProductUpdateBadSignature(t *testing.T) {
	router, api, _ := newTestRouter(t)

	body := []byte(`{"id":123}`)
	w := postWebhook(router, body, "shop-a.myshopify.com", sign([]byte(`{"id":124}`), "secret-a"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, api.detailCalls)
}

func TestProductUpdateCrossTenantSignature(t *testing.T) {
	router, api, _ := newTestRouter(t)

	// Signed with shop-b's secret but sent as shop-a: must fail.
	body := []byte(`{"id":123}`)
	w := postWebhook(router, body, "shop-a.myshopify.com", sign(body, "secret-b"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, api.detailCalls)
}

func TestProductUpdateMalformedBody(t *testing.T) {
	router, api, _ := newTestRouter(t)

	// Correctly signed garbage: auth passes, parsing fails.
	body := []byte(`{"id":`)
	w := postWebhook(router, body, "shop-a.myshopify.com", sign(body, "secret-a"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, api.detailCalls)
}

func TestProductUpdateMissingSignature(t *testing.T) {
	router, api, _ := newTestRouter(t)

	w := postWebhook(router, []byte(`{"id":123}`), "shop-a.myshopify.com", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, api.detailCalls)
}

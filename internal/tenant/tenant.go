package tenant

import (
	"fmt"
	"strings"
)

// Tenant is one storefront identity. Immutable after startup; the secret is the
// per-shop webhook signing key, the token authenticates Admin API calls.
type Tenant struct {
	Domain         string
	SecretKey      string
	AccessToken    string
	RelatedEnabled bool
}

// Resolver maps a shop domain to its credentials by exact match. There is no
// fallback secret: an unknown domain never reaches signature verification.
type Resolver struct {
	tenants map[string]Tenant
}

// Parse builds a Resolver from the TENANTS env format
// "shop1.myshopify.com:secret1:token1,shop2.myshopify.com:secret2:token2".
// relatedShops is a comma-separated list of domains with the related-products
// feature enabled.
func Parse(raw, relatedShops string) (*Resolver, error) {
	related := make(map[string]bool)
	for _, d := range strings.Split(relatedShops, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			related[d] = true
		}
	}

	tenants := make(map[string]Tenant)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid tenant entry %q: want domain:secret:token", entry)
		}

		domain := strings.TrimSpace(parts[0])
		secret := strings.TrimSpace(parts[1])
		token := strings.TrimSpace(parts[2])
		if domain == "" || secret == "" || token == "" {
			return nil, fmt.Errorf("invalid tenant entry %q: empty field", entry)
		}

		tenants[domain] = Tenant{
			Domain:         domain,
			SecretKey:      secret,
			AccessToken:    token,
			RelatedEnabled: related[domain],
		}
	}

	if len(tenants) == 0 {
		return nil, fmt.Errorf("no tenants configured")
	}

	return &Resolver{tenants: tenants}, nil
}

// Resolve returns the tenant for the given shop domain, or ok=false when the
// domain is unknown.
func (r *Resolver) Resolve(shopDomain string) (Tenant, bool) {
	t, ok := r.tenants[shopDomain]
	return t, ok
}

// All returns every configured tenant. Used by the startup webhook bootstrap.
func (r *Resolver) All() []Tenant {
	out := make([]Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		out = append(out, t)
	}
	return out
}

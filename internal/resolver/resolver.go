// Package resolver maps control-plane tenant identifiers to provider
// enterprise identifiers. Resolution is memoized for the process lifetime:
// the OA tenant resource is fetched once per distinct tenant id, and entries
// are never invalidated.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/box-connector/internal/cache"
	"github.com/iliyamo/box-connector/internal/oa"
)

// Second is the synthetic enterprise id recorded for a tenant whose
// administrator already owns a provider account under another enterprise.
// The provider forbids a second enterprise for the same master login, and
// failing the webhook would just make the control plane retry forever, so
// the connector records this sentinel instead and every later operation
// against the tenant short-circuits to a success-reporting no-op.
const Second = "SECOND"

// notProvisioned is the placeholder the control plane stores in tenantId
// before provisioning completed.
const notProvisioned = "TBD"

// ErrTenantIDMissing marks an OA tenant resource without a tenantId
// property. That is a malformed upstream resource and never silently
// defaulted.
var ErrTenantIDMissing = errors.New("tenantId property missing in OA tenant resource")

// Resolver caches tenant-to-enterprise resolutions. One Resolver is shared
// by all handlers; the underlying memo is write-once and safe for concurrent
// requests.
type Resolver struct {
	memo *cache.Memo
}

// New returns a Resolver with an empty cache.
func New() *Resolver {
	return &Resolver{memo: cache.NewMemo()}
}

// ResolveEnterpriseID returns the provider enterprise id for an OA tenant.
// An empty result means the tenant has not been provisioned yet (the control
// plane still holds the TBD placeholder); the Second sentinel passes through
// unchanged. The OA fetch happens at most once per tenant id, on the calling
// request's client.
func (r *Resolver) ResolveEnterpriseID(ctx context.Context, client *oa.Client, tenantID string) (string, error) {
	return r.memo.GetOrCompute(tenantID, func() (string, error) {
		rec, err := client.GetResource(ctx, tenantID)
		if err != nil {
			return "", err
		}
		v, ok := rec["tenantId"]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrTenantIDMissing, tenantID)
		}
		id, _ := v.(string)
		if id == notProvisioned {
			return "", nil
		}
		return id, nil
	})
}

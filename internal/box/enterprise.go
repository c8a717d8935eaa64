package box

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iliyamo/box-connector/internal/model"
)

// CreateEnterprise provisions an enterprise with admin as its administering
// user. The provider requires an admin at creation time, so the admin's
// contact details are folded into the payload. On success the enterprise is
// overwritten with the canonical server record, which is where the generated
// enterprise id (and the admin's provider user id) come from.
func (c *Client) CreateEnterprise(ctx context.Context, ent *model.Enterprise, admin *model.User) error {
	ent.AdministeredBy = &model.AdminContact{
		Name:  admin.Name,
		Phone: admin.Phone,
		Login: admin.Login,
	}
	rec, err := c.do(ctx, http.MethodPost, "enterprises", ent.Wire())
	if err != nil {
		return err
	}
	ent.MergeCanonical(rec)
	return nil
}

// UpdateEnterprise pushes the enterprise's current mapped fields to the
// provider. The enterprise must already exist.
func (c *Client) UpdateEnterprise(ctx context.Context, ent *model.Enterprise) error {
	if ent.EnterpriseID == "" {
		return fmt.Errorf("box: cannot update an enterprise without an id")
	}
	_, err := c.do(ctx, http.MethodPut, "enterprises/"+ent.EnterpriseID, ent.Wire())
	return err
}

// RefreshEnterprise replaces local state with the canonical provider record.
// An enterprise without an id has nothing to refresh; that is a no-op, which
// lets callers refresh unconditionally after resolving a tenant that may not
// be provisioned yet.
func (c *Client) RefreshEnterprise(ctx context.Context, ent *model.Enterprise) error {
	if ent.EnterpriseID == "" {
		return nil
	}
	rec, err := c.do(ctx, http.MethodGet, "enterprises/"+ent.EnterpriseID, nil)
	if err != nil {
		return err
	}
	ent.MergeCanonical(rec)
	return nil
}

// DeactivateEnterprise soft-deletes the enterprise by marking it deactivated
// and pushing the update. The provider keeps the record; nothing is ever
// hard-deleted. Without an id there is nothing to deactivate.
func (c *Client) DeactivateEnterprise(ctx context.Context, ent *model.Enterprise) error {
	ent.ActiveStatus = model.StatusDeactivated
	if ent.EnterpriseID == "" {
		return nil
	}
	_, err := c.do(ctx, http.MethodPut, "enterprises/"+ent.EnterpriseID, ent.Wire())
	return err
}

package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/box-connector/internal/box"
	"github.com/iliyamo/box-connector/internal/config"
	"github.com/iliyamo/box-connector/internal/model"
	"github.com/iliyamo/box-connector/internal/queue"
	"github.com/iliyamo/box-connector/internal/resolver"
	queue_publisher "github.com/iliyamo/box-connector/internal/service"
	"github.com/iliyamo/box-connector/internal/utils"
)

// adminUserQuery lists the admin users of the OA account a request is
// impersonated as.
const adminUserQuery = "/aps/2/resources?implementing(http://parallels.com/aps/types/pa/admin-user/1.0)"

// TenantHandler serves the tenant lifecycle webhooks: provisioning an
// enterprise on the provider, reflecting usage back, updating limits, and
// soft-deleting on deprovisioning.
type TenantHandler struct {
	Cfg      config.Config
	Resolver *resolver.Resolver
}

// NewTenantHandler constructs a TenantHandler sharing the process-wide
// resolver.
func NewTenantHandler(cfg config.Config, r *resolver.Resolver) *TenantHandler {
	return &TenantHandler{Cfg: cfg, Resolver: r}
}

// Create provisions a provider enterprise for a new tenant.
//
// The webhook names the tenant (aps.id) and links to the OA subscription and
// account. Those resources supply the display name and the admin user; the
// enterprise is created with that admin, and the new link between the OA
// user and the tenant is written back into OA afterwards.
//
// One creation failure is deliberately absorbed: when the provider refuses
// the enterprise because the admin login is already a master login under
// another enterprise, the tenant is recorded with the SECOND sentinel and
// the webhook still reports success. Failing it would only make the control
// plane retry forever against the same refusal.
func (h *TenantHandler) Create(c echo.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	apsID, ok := nestedString(body, "aps", "id")
	if !ok {
		return badRequest(c, "Missing aps.id in request")
	}
	subID, ok := nestedString(body, "oaSubscription", "aps", "id")
	if !ok {
		return badRequest(c, "Missing link to subscription in request")
	}
	accID, ok := nestedString(body, "oaAccount", "aps", "id")
	if !ok {
		return badRequest(c, "Missing link to account in request")
	}
	usersLimit := limitFor(body, h.Cfg.UsersResource)
	ttypeLimit := limitFor(body, h.Cfg.TenantTypeResource)

	ctx := c.Request().Context()
	oaCli := oaFrom(c)

	accRec, err := oaCli.GetResource(ctx, accID)
	if err != nil {
		return fail(c, err)
	}
	subRec, err := oaCli.GetResource(ctx, subID)
	if err != nil {
		return fail(c, err)
	}
	company := model.AsString(accRec["companyName"])
	if company == "" {
		company = "Unnamed"
	}
	name := fmt.Sprintf("%s-sub%s", company, model.AsString(subRec["subscriptionId"]))

	planCode, err := h.Cfg.PlanCodeFor(ttypeLimit)
	if err != nil {
		return fail(c, err)
	}

	ent := &model.Enterprise{Name: name, PlanCode: planCode, BillingCycle: model.DefaultBillingCycle}
	if usersLimit != nil {
		ent.UsersLimit = *usersLimit
	}

	admins, err := oaCli.Send(ctx, http.MethodGet, adminUserQuery, nil, apsID)
	if err != nil {
		return fail(c, err)
	}
	adminRecs, err := decodeCollection(admins)
	if err != nil {
		return fail(c, err)
	}
	if len(adminRecs) == 0 {
		return fail(c, fmt.Errorf("no admin users in OA account %s", accID))
	}
	adminRec := adminRecs[0]
	admin, err := model.UserFromOAProfile(adminRec)
	if err != nil {
		return fail(c, err)
	}

	boxCli := boxFrom(c, h.Cfg)
	if err := boxCli.CreateEnterprise(ctx, ent, &admin); err != nil {
		if box.IsDuplicateMasterLogin(err) {
			// The admin already holds a provider account under another
			// enterprise. A second enterprise for the same master login is
			// not supported; record the sentinel and move on so the control
			// plane sees the tenant as provisioned.
			log.Printf("tenant %s: admin %s already registered with the provider, recording SECOND sentinel", apsID, admin.Login)
			ent.EnterpriseID = resolver.Second
		} else {
			return fail(c, err)
		}
	}

	if err := h.linkUserToTenant(ctx, c, ent, adminRec, apsID); err != nil {
		return fail(c, err)
	}

	if ent.EnterpriseID != resolver.Second {
		// Best effort: a broker outage must not fail provisioning.
		_ = queue_publisher.PublishTenantProvisioned(ctx, queue.TenantProvisionedEvent{
			OATenantID:    apsID,
			EnterpriseID:  ent.EnterpriseID,
			Name:          ent.Name,
			PlanCode:      ent.PlanCode,
			UsersLimit:    ent.UsersLimit,
			AdminLogin:    admin.Login,
			ProvisionedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"tenantId": ent.EnterpriseID})
}

// linkUserToTenant writes the application-user link into OA, impersonating
// the tenant. OA's own model must reflect the admin/tenant association even
// when provider-side provisioning degenerated into the SECOND case; the
// fabricated id is linked then, matching what the tenant resolves to later.
func (h *TenantHandler) linkUserToTenant(ctx context.Context, c echo.Context, ent *model.Enterprise, adminRec map[string]any, apsID string) error {
	oaCli := oaFrom(c)

	appRaw, err := oaCli.Send(ctx, http.MethodGet, "/aps/2/application", nil, "")
	if err != nil {
		return err
	}
	appRec, err := decodeRecord(appRaw)
	if err != nil {
		return err
	}
	userType, _ := nestedString(appRec, "user", "type")

	linkedUserID := resolver.Second
	if ent.EnterpriseID != resolver.Second && ent.AdministeredBy != nil {
		linkedUserID = ent.AdministeredBy.UserID
	}
	adminApsID, _ := nestedString(adminRec, "aps", "id")

	link := map[string]any{
		"aps":    map[string]any{"type": userType},
		"userId": linkedUserID,
		"user":   map[string]any{"aps": map[string]any{"id": adminApsID}},
		"tenant": map[string]any{"aps": map[string]any{"id": apsID}},
	}
	_, err = oaCli.Send(ctx, http.MethodPost, "/aps/2/application/user", link, apsID)
	return err
}

// Get reports the tenant's seat usage under the configured resource key. A
// SECOND tenant has no enterprise of its own and reports an empty payload.
func (h *TenantHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	eid, err := h.Resolver.ResolveEnterpriseID(ctx, oaFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if eid == resolver.Second {
		return c.JSON(http.StatusOK, echo.Map{})
	}
	ent := &model.Enterprise{EnterpriseID: eid}
	if err := boxFrom(c, h.Cfg).RefreshEnterprise(ctx, ent); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		h.Cfg.UsersResource: echo.Map{"usage": ent.UsersAmount},
	})
}

// Update pushes a changed seat limit or plan code to the provider. Webhooks
// that change neither are acknowledged without a provider call.
func (h *TenantHandler) Update(c echo.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	usersLimit := limitFor(body, h.Cfg.UsersResource)
	ttypeLimit := limitFor(body, h.Cfg.TenantTypeResource)

	ctx := c.Request().Context()
	eid, err := h.Resolver.ResolveEnterpriseID(ctx, oaFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if eid == resolver.Second {
		return c.JSON(http.StatusOK, echo.Map{})
	}

	planCode, err := h.Cfg.PlanCodeFor(ttypeLimit)
	if err != nil {
		return fail(c, err)
	}
	if usersLimit != nil || planCode != "" {
		ent := &model.Enterprise{EnterpriseID: eid, PlanCode: planCode, BillingCycle: model.DefaultBillingCycle}
		if usersLimit != nil {
			ent.UsersLimit = *usersLimit
		}
		if err := boxFrom(c, h.Cfg).UpdateEnterprise(ctx, ent); err != nil {
			return fail(c, err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{})
}

// Delete soft-deletes the tenant's enterprise. SECOND tenants have nothing
// to delete; the resolver keeps mapping the id so later webhooks still
// short-circuit.
func (h *TenantHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	eid, err := h.Resolver.ResolveEnterpriseID(ctx, oaFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if eid != resolver.Second {
		ent := &model.Enterprise{EnterpriseID: eid}
		if err := boxFrom(c, h.Cfg).DeactivateEnterprise(ctx, ent); err != nil {
			return fail(c, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Enable acknowledges an enable webhook. The provider has no per-enterprise
// enable switch, so this always succeeds without side effects.
func (h *TenantHandler) Enable(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{})
}

// Disable acknowledges a disable webhook; same story as Enable.
func (h *TenantHandler) Disable(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{})
}

// AdminLogin returns the provider login URL for the tenant administrator as
// plain text, with a short-lived signed token appended when one is
// configured.
func (h *TenantHandler) AdminLogin(c echo.Context) error {
	link, err := utils.LoginLink(h.Cfg.LoginURL, h.Cfg.LoginTokenSecret, "tenant:"+c.Param("id"), h.Cfg.LoginTokenTTLMin)
	if err != nil {
		return fail(c, err)
	}
	return c.String(http.StatusOK, link)
}

// UserCreated acknowledges the tenant-scoped user hook. User provisioning
// happens through the dedicated user endpoint; this hook exists only so the
// control plane's webhook sequence completes.
func (h *TenantHandler) UserCreated(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{})
}

// UserRemoved acknowledges the tenant-scoped user removal hook.
func (h *TenantHandler) UserRemoved(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{})
}

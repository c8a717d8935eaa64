package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/box-connector/internal/config"
	"github.com/iliyamo/box-connector/internal/model"
	"github.com/iliyamo/box-connector/internal/oa"
	"github.com/iliyamo/box-connector/internal/resolver"
	"github.com/iliyamo/box-connector/internal/utils"
)

// UserHandler serves the user lifecycle webhooks: creating provider users
// under a tenant's enterprise and removing them again, with the admin
// account explicitly protected from deletion.
type UserHandler struct {
	Cfg      config.Config
	Resolver *resolver.Resolver
}

// NewUserHandler constructs a UserHandler sharing the process-wide resolver.
func NewUserHandler(cfg config.Config, r *resolver.Resolver) *UserHandler {
	return &UserHandler{Cfg: cfg, Resolver: r}
}

// Create provisions a provider user for a tenant.
//
// Two cases return an id without touching the provider: a SECOND tenant
// (fabricated user id, matching its fabricated enterprise), and a user whose
// email equals the enterprise admin's login — that account already exists
// from tenant registration, so its id is returned instead of creating a
// duplicate.
func (h *UserHandler) Create(c echo.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	oaTenantID, ok := nestedString(body, "tenant", "aps", "id")
	if !ok {
		return badRequest(c, "Missing tenant in request")
	}
	oaUserID, ok := nestedString(body, "user", "aps", "id")
	if !ok {
		return badRequest(c, "Missing user id in request")
	}

	ctx := c.Request().Context()
	oaCli := oaFrom(c)

	eid, err := h.Resolver.ResolveEnterpriseID(ctx, oaCli, oaTenantID)
	if err != nil {
		return fail(c, err)
	}
	if eid == resolver.Second {
		return c.JSON(http.StatusCreated, echo.Map{"userId": resolver.Second})
	}

	ent := &model.Enterprise{EnterpriseID: eid}
	boxCli := boxFrom(c, h.Cfg)
	if err := boxCli.RefreshEnterprise(ctx, ent); err != nil {
		return fail(c, err)
	}

	oaUser, err := oaCli.GetResource(ctx, oaUserID)
	if err != nil {
		return fail(c, err)
	}
	if ent.AdministeredBy != nil && ent.AdministeredBy.Login == model.AsString(oaUser["email"]) {
		return c.JSON(http.StatusCreated, echo.Map{"userId": ent.AdministeredBy.UserID})
	}

	user, err := model.UserFromOAProfile(oaUser)
	if err != nil {
		return fail(c, err)
	}
	user.EnterpriseID = ent.EnterpriseID
	if err := boxCli.CreateUser(ctx, &user); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"userId": user.UserID})
}

// Get returns the canonical provider record of the user behind an OA
// user-service resource.
func (h *UserHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	user, _, err := h.userFromService(ctx, oaFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if user.UserID == resolver.Second {
		return c.JSON(http.StatusOK, echo.Map{})
	}
	if err := boxFrom(c, h.Cfg).RefreshUser(ctx, user); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"userId": user.UserID,
		"login":  user.Login,
		"name":   user.Name,
		"status": user.Status,
	})
}

// Update acknowledges a user-update webhook. The provider exposes no user
// mutation the control plane cares about, so this always succeeds without
// side effects.
func (h *UserHandler) Update(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{})
}

// Delete removes the provider user behind an OA user-service resource.
//
// Three outcomes report success without a provider delete: the SECOND
// sentinel (nothing was ever created), the enterprise's administering user
// (the account anchoring the enterprise is never removed through this path),
// and a user the provider no longer knows (idempotent delete).
func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	oaCli := oaFrom(c)

	user, eid, err := h.userFromService(ctx, oaCli, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if user.UserID == resolver.Second {
		log.Printf("user %s: SECOND sentinel, skipping deletion of fabricated user", c.Param("id"))
		return c.NoContent(http.StatusNoContent)
	}

	ent := &model.Enterprise{EnterpriseID: eid}
	boxCli := boxFrom(c, h.Cfg)
	if err := boxCli.RefreshEnterprise(ctx, ent); err != nil {
		return fail(c, err)
	}
	if ent.AdministeredBy != nil && ent.AdministeredBy.UserID == user.UserID {
		log.Printf("user %s administers enterprise %s, skipping deletion", user.UserID, eid)
		return c.NoContent(http.StatusNoContent)
	}

	if err := boxCli.DeleteUser(ctx, user); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Login returns the provider login URL for the user as plain text.
func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	user, _, err := h.userFromService(ctx, oaFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	link, err := utils.LoginLink(h.Cfg.LoginURL, h.Cfg.LoginTokenSecret, "user:"+user.UserID, h.Cfg.LoginTokenTTLMin)
	if err != nil {
		return fail(c, err)
	}
	return c.String(http.StatusOK, link)
}

// userFromService resolves an OA user-service resource to the provider user
// it references and the enterprise id of its owning tenant.
func (h *UserHandler) userFromService(ctx context.Context, oaCli *oa.Client, serviceID string) (*model.User, string, error) {
	svc, err := oaCli.GetResource(ctx, serviceID)
	if err != nil {
		return nil, "", err
	}
	oaTenantID, ok := nestedString(svc, "tenant", "aps", "id")
	if !ok {
		return nil, "", fmt.Errorf("tenant link missing in OA user service %s", serviceID)
	}
	eid, err := h.Resolver.ResolveEnterpriseID(ctx, oaCli, oaTenantID)
	if err != nil {
		return nil, "", err
	}
	user := &model.User{
		UserID:       model.AsString(svc["userId"]),
		EnterpriseID: eid,
	}
	return user, eid, nil
}

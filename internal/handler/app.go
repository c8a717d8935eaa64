package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/box-connector/internal/config"
)

// AppHandler serves the application-instance lifecycle endpoints. The
// provider keeps no per-instance state, so every operation acknowledges the
// webhook and nothing else: the control plane only needs to see success to
// finish its own bookkeeping.
type AppHandler struct {
	Cfg config.Config
}

// NewAppHandler constructs an AppHandler.
func NewAppHandler(cfg config.Config) *AppHandler {
	return &AppHandler{Cfg: cfg}
}

// Create acknowledges a new application-instance bootstrap.
func (h *AppHandler) Create(c echo.Context) error {
	return c.JSON(http.StatusCreated, echo.Map{})
}

// Get acknowledges an application-instance read.
func (h *AppHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"aps": echo.Map{"id": c.Param("id")}})
}

// Update acknowledges an application-instance update.
func (h *AppHandler) Update(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{})
}

// Delete acknowledges an application-instance removal.
func (h *AppHandler) Delete(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// TenantBound acknowledges a tenant being bound to the instance.
func (h *AppHandler) TenantBound(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{})
}

// TenantUnbound acknowledges a tenant being unbound from the instance.
func (h *AppHandler) TenantUnbound(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Upgrade acknowledges an application upgrade hook.
func (h *AppHandler) Upgrade(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{})
}

package handler

import (
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/box-connector/internal/config"
)

func TestAppLifecycleAcknowledges(t *testing.T) {
	h := NewAppHandler(config.Config{})

	c, rec := webhookContext(http.MethodPost, "/v1/app", `{"aps":{"id":"app-1"}}`, "http://unreachable.invalid")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = webhookContext(http.MethodGet, "/v1/app/app-1", "", "http://unreachable.invalid")
	c.SetParamNames("id")
	c.SetParamValues("app-1")
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"aps":{"id":"app-1"}}`, rec.Body.String())

	c, rec = webhookContext(http.MethodDelete, "/v1/app/app-1", "", "http://unreachable.invalid")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = webhookContext(http.MethodDelete, "/v1/app/app-1/tenants/tenant-1", "", "http://unreachable.invalid")
	require.NoError(t, h.TenantUnbound(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthReportsServiceAndHost(t *testing.T) {
	c, rec := webhookContext(http.MethodGet, "/", "", "http://unreachable.invalid")
	require.NoError(t, Health(c))

	require.Equal(t, http.StatusOK, rec.Code)
	host, _ := os.Hostname()
	require.Contains(t, rec.Body.String(), `"service":"box_connector"`)
	require.Contains(t, rec.Body.String(), host)
}

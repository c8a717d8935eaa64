package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func signedRequest(t *testing.T, target, key, secret string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, nil)
	require.NoError(t, SignRequest(req, key, secret))
	return req
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	req := signedRequest(t, "http://connector.local/v1/tenant?limit=10", "key-1", "secret-1")
	require.True(t, VerifyRequest(req, "key-1", "secret-1"))
	require.Equal(t, "key-1", ConsumerKey(req))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	req := signedRequest(t, "http://connector.local/v1/tenant", "key-1", "secret-1")
	require.False(t, VerifyRequest(req, "key-1", "other-secret"))
}

func TestVerifyRejectsWrongConsumerKey(t *testing.T) {
	req := signedRequest(t, "http://connector.local/v1/tenant", "key-1", "secret-1")
	require.False(t, VerifyRequest(req, "expected-key", "secret-1"))
}

func TestVerifyRejectsTamperedPath(t *testing.T) {
	req := signedRequest(t, "http://connector.local/v1/tenant/abc", "key-1", "secret-1")
	req.URL.Path = "/v1/tenant/other"
	require.False(t, VerifyRequest(req, "key-1", "secret-1"))
}

func TestVerifyRejectsMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://connector.local/v1/tenant", nil)
	require.False(t, VerifyRequest(req, "key-1", "secret-1"))
	require.Empty(t, ConsumerKey(req))
}

func TestLoginLink(t *testing.T) {
	link, err := LoginLink("https://app.box.com/", "", "tenant:123", 15)
	require.NoError(t, err)
	require.Equal(t, "https://app.box.com/", link)

	link, err = LoginLink("https://app.box.com/", "tok-secret", "tenant:123", 15)
	require.NoError(t, err)
	require.Contains(t, link, "https://app.box.com/?token=")
}

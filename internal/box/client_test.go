package box

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/box-connector/internal/config"
	"github.com/iliyamo/box-connector/internal/model"
)

func testConfig(oauthBaseURL string) config.Config {
	return config.Config{
		BoxOAuthBaseURL:         oauthBaseURL,
		BoxResellerClientID:     "cid-1",
		BoxResellerClientSecret: "csecret-1",
		BoxResellerID:           "rsl-1",
	}
}

func testClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, Session: SessionFromToken("tok-1"), HTTP: http.DefaultClient}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 409, Body: `{"type":"error","message":"User already exists"}`}
	require.Equal(t, "User already exists", err.Message())

	err = &APIError{StatusCode: 400, Body: `"bad seats value"`}
	require.Equal(t, "bad seats value", err.Message())
}

func TestIsDuplicateMasterLogin(t *testing.T) {
	dup := &APIError{
		StatusCode: http.StatusBadRequest,
		Body:       `{"context_info":{"errors":[{"reason":"invalid_parameter","name":"master_login"}]}}`,
	}
	require.True(t, IsDuplicateMasterLogin(dup))

	otherParam := &APIError{
		StatusCode: http.StatusBadRequest,
		Body:       `{"context_info":{"errors":[{"reason":"invalid_parameter","name":"seats"}]}}`,
	}
	require.False(t, IsDuplicateMasterLogin(otherParam))

	wrongStatus := &APIError{StatusCode: http.StatusConflict, Body: dup.Body}
	require.False(t, IsDuplicateMasterLogin(wrongStatus))
	require.False(t, IsDuplicateMasterLogin(nil))
}

func TestCreateEnterpriseMergesCanonicalRecord(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/enterprises", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"id":"ent-123","name":"Acme-sub555","seats":50,"administered_by":{"id":"usr-9","login":"a@acme.com"}}`))
	}))
	defer srv.Close()

	ent := &model.Enterprise{Name: "Acme-sub555", UsersLimit: 50}
	admin := &model.User{Name: "A A", Login: "a@acme.com", Phone: "1"}
	require.NoError(t, testClient(srv.URL).CreateEnterprise(context.Background(), ent, admin))

	require.Equal(t, "Bearer tok-1", gotAuth)
	require.Equal(t, "a@acme.com", gotPayload["administered_by"].(map[string]any)["login"])
	require.Equal(t, "ent-123", ent.EnterpriseID)
	require.Equal(t, "usr-9", ent.AdministeredBy.UserID)
}

func TestDeactivateEnterprisePutsStatus(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/enterprises/ent-123", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ent := &model.Enterprise{EnterpriseID: "ent-123", Name: "Acme"}
	require.NoError(t, testClient(srv.URL).DeactivateEnterprise(context.Background(), ent))
	require.Equal(t, model.StatusDeactivated, gotPayload["active_status"])
}

func TestDeactivateEnterpriseWithoutIDIsNoop(t *testing.T) {
	ent := &model.Enterprise{Name: "Acme"}
	require.NoError(t, testClient("http://unreachable.invalid").DeactivateEnterprise(context.Background(), ent))
	require.Equal(t, model.StatusDeactivated, ent.ActiveStatus)
}

func TestDeleteUserToleratesNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	u := &model.User{UserID: "usr-9"}
	require.NoError(t, testClient(srv.URL).DeleteUser(context.Background(), u))
}

func TestDeleteUserPropagatesOtherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"insufficient scope"}`))
	}))
	defer srv.Close()

	err := testClient(srv.URL).DeleteUser(context.Background(), &model.User{UserID: "usr-9"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, "insufficient scope", apiErr.Message())
}

func TestNewSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "reseller", r.PostForm.Get("box_subject_type"))
		require.Equal(t, "rsl-1", r.PostForm.Get("box_subject_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	}))
	defer srv.Close()

	sess, err := NewSession(context.Background(), testConfig(srv.URL))
	require.NoError(t, err)
	require.Equal(t, "tok-1", sess.Token)
}

func TestNewSessionRejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	_, err := NewSession(context.Background(), testConfig(srv.URL))
	require.ErrorContains(t, err, "invalid_client")
}

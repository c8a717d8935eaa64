package oa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string, retryLimit int) *Client {
	return NewClient(baseURL, "tx-1", "key-1", "secret-1", 5*time.Second, retryLimit)
}

func TestGetResourceAttachesHeaders(t *testing.T) {
	var gotTransaction, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTransaction = r.Header.Get("aps-transaction-id")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"tenantId":"ent-123"}`))
	}))
	defer srv.Close()

	rec, err := newTestClient(srv.URL, 1).GetResource(context.Background(), "res-1")
	require.NoError(t, err)
	require.Equal(t, "ent-123", rec["tenantId"])
	require.Equal(t, "tx-1", gotTransaction)
	require.Contains(t, gotAuth, `oauth_consumer_key="key-1"`)
}

func TestSendImpersonates(t *testing.T) {
	var acting string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acting = r.Header.Get("aps-resource-id")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Send(context.Background(), http.MethodPost, "/aps/2/application/user", map[string]any{"userId": "u-1"}, "tenant-1")
	require.NoError(t, err)
	require.Equal(t, "tenant-1", acting)
}

func TestSendRetriesBadRequests(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 10).Send(context.Background(), http.MethodGet, "aps/2/resources/x", nil, "")
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestSendGivesUpAfterRetryLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("still settling"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 4).Send(context.Background(), http.MethodGet, "aps/2/resources/x", nil, "")
	var commErr *CommunicationError
	require.ErrorAs(t, err, &commErr)
	require.Equal(t, http.StatusBadRequest, commErr.Status)
	require.Equal(t, 4, calls)
}

func TestSendFailsFastOnOtherStatuses(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("maintenance"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 10).Send(context.Background(), http.MethodGet, "aps/2/resources/x", nil, "")
	var commErr *CommunicationError
	require.ErrorAs(t, err, &commErr)
	require.Equal(t, http.StatusServiceUnavailable, commErr.Status)
	require.Equal(t, "maintenance", commErr.Body)
	require.Equal(t, 1, calls)
}

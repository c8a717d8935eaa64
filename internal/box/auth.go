// Package box talks to the storage provider's reseller administration API.
// It holds the OAuth2 session handling, the JSON call plumbing, and the
// enterprise/user operations built on top of the models.
package box

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/iliyamo/box-connector/internal/config"
)

// Session holds the short-lived bearer token used on every provider call.
// Sessions are request-scoped: the auth middleware obtains a fresh one per
// inbound webhook and never caches it across requests, trading an extra
// token round trip for the absence of stale-token races.
type Session struct {
	Token string
}

// SessionFromToken wraps an already-issued bearer token.
func SessionFromToken(token string) *Session {
	return &Session{Token: token}
}

// NewSession performs an OAuth2 client-credentials grant against the
// provider's token endpoint using the reseller credentials and returns the
// resulting session. The provider expects the credentials and the reseller
// subject in the form body, not in a basic-auth header.
func NewSession(ctx context.Context, cfg config.Config) (*Session, error) {
	conf := clientcredentials.Config{
		ClientID:     cfg.BoxResellerClientID,
		ClientSecret: cfg.BoxResellerClientSecret,
		TokenURL:     strings.TrimSuffix(cfg.BoxOAuthBaseURL, "/") + "/token",
		AuthStyle:    oauth2.AuthStyleInParams,
		EndpointParams: url.Values{
			"box_subject_id":   {cfg.BoxResellerID},
			"box_subject_type": {"reseller"},
		},
	}
	tok, err := conf.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("box: token request: %w", err)
	}
	return &Session{Token: tok.AccessToken}, nil
}

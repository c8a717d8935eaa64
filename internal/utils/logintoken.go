package utils

import (
	"net/url" // url escapes the token query parameter
	"strings" // strings picks the right query separator
	"time"    // time computes token expiry

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// LoginToken mints a short-lived HS256 token identifying who a login link was
// issued for. The claims follow the usual layout: subject, issued-at and
// expiry.
func LoginToken(secret, subject string, ttlMin int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(time.Duration(ttlMin) * time.Minute).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// LoginLink builds the provider login URL for a subject. When a token secret
// is configured a signed token is appended as a query parameter; otherwise
// the bare URL is returned and the user authenticates at the provider's own
// login page.
func LoginLink(baseURL, secret, subject string, ttlMin int) (string, error) {
	if secret == "" {
		return baseURL, nil
	}
	tok, err := LoginToken(secret, subject, ttlMin)
	if err != nil {
		return "", err
	}
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + "token=" + url.QueryEscape(tok), nil
}

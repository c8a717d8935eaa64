package utils // package utils provides helpers for request signing and login tokens

import (
	"crypto/hmac"     // hmac implements the keyed-hash message authentication code
	"crypto/rand"     // secure random nonce generation
	"crypto/sha1"     // SHA-1 is the digest the shared-signature scheme is defined over
	"encoding/base64" // signatures are exchanged base64-encoded
	"encoding/hex"    // hex encodes nonces
	"net/http"        // request types for signing and verification
	"net/url"         // query parameter access
	"sort"            // parameter pairs are sorted before signing
	"strconv"         // timestamp formatting
	"strings"         // header parsing and assembly
	"time"            // timestamps
)

// The control plane signs every webhook with an OAuth-style HMAC-SHA1
// signature over the request method, URL and parameters, keyed by a shared
// secret. The same scheme is used in the other direction when the connector
// calls back into the control plane, reusing the consumer key the inbound
// request carried.

const signatureMethod = "HMAC-SHA1"

// SignRequest computes a signature for req and sets its Authorization header.
// The request URL must be absolute.
func SignRequest(req *http.Request, consumerKey, consumerSecret string) error {
	nonce, err := randomNonce()
	if err != nil {
		return err
	}
	params := map[string]string{
		"oauth_consumer_key":     consumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": signatureMethod,
		"oauth_timestamp":        strconv.FormatInt(time.Now().Unix(), 10),
		"oauth_version":          "1.0",
	}
	params["oauth_signature"] = computeSignature(req.Method, requestBaseURL(req), req.URL.Query(), params, consumerSecret)
	req.Header.Set("Authorization", formatOAuthHeader(params))
	return nil
}

// VerifyRequest reports whether req carries a signature that was produced
// with the expected consumer key and shared secret.
func VerifyRequest(req *http.Request, consumerKey, consumerSecret string) bool {
	params := parseOAuthHeader(req.Header.Get("Authorization"))
	if params == nil {
		return false
	}
	if params["oauth_consumer_key"] != consumerKey {
		return false
	}
	if params["oauth_signature_method"] != signatureMethod {
		return false
	}
	provided := params["oauth_signature"]
	if provided == "" {
		return false
	}
	unsigned := make(map[string]string, len(params))
	for k, v := range params {
		if k != "oauth_signature" {
			unsigned[k] = v
		}
	}
	expected := computeSignature(req.Method, requestBaseURL(req), req.URL.Query(), unsigned, consumerSecret)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// ConsumerKey extracts the oauth_consumer_key parameter from a request's
// Authorization header, or returns "" when the header is absent or malformed.
func ConsumerKey(req *http.Request) string {
	params := parseOAuthHeader(req.Header.Get("Authorization"))
	if params == nil {
		return ""
	}
	return params["oauth_consumer_key"]
}

// computeSignature builds the signature base string from the method, the base
// URL, the query parameters and the oauth parameters, and signs it with
// HMAC-SHA1 keyed by the encoded consumer secret.
func computeSignature(method, baseURL string, query url.Values, oauthParams map[string]string, consumerSecret string) string {
	pairs := make([]string, 0, len(query)+len(oauthParams))
	for k, vs := range query {
		for _, v := range vs {
			pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
		}
	}
	for k, v := range oauthParams {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
	}
	sort.Strings(pairs)

	base := strings.ToUpper(method) + "&" + percentEncode(baseURL) + "&" + percentEncode(strings.Join(pairs, "&"))
	mac := hmac.New(sha1.New, []byte(percentEncode(consumerSecret)+"&"))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// requestBaseURL reconstructs the scheme://host/path form of the request URL
// without query parameters. Server-side requests carry a relative URL, so the
// host comes from the Host header and the scheme from the TLS state.
func requestBaseURL(req *http.Request) string {
	if req.URL.IsAbs() {
		return req.URL.Scheme + "://" + req.URL.Host + req.URL.EscapedPath()
	}
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + req.Host + req.URL.EscapedPath()
}

// parseOAuthHeader splits an `OAuth k="v", ...` header into its parameters.
// Returns nil when the header does not use the OAuth scheme.
func parseOAuthHeader(header string) map[string]string {
	if len(header) < 6 || !strings.EqualFold(header[:6], "OAuth ") {
		return nil
	}
	params := make(map[string]string)
	for _, part := range strings.Split(header[6:], ",") {
		part = strings.TrimSpace(part)
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		v = strings.Trim(v, `"`)
		if decoded, err := url.QueryUnescape(v); err == nil {
			v = decoded
		}
		params[k] = v
	}
	return params
}

// formatOAuthHeader renders parameters as an Authorization header value with
// keys in sorted order.
func formatOAuthHeader(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+`="`+percentEncode(params[k])+`"`)
	}
	return "OAuth " + strings.Join(parts, ", ")
}

// percentEncode implements RFC 3986 percent encoding: everything except
// unreserved characters is escaped, spaces included.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			b.WriteString("%" + strings.ToUpper(hex.EncodeToString([]byte{c})))
		}
	}
	return b.String()
}

// randomNonce returns 16 random bytes hex-encoded.
func randomNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

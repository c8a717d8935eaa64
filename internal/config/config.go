package config // package config loads application configuration from environment variables

import (
	"encoding/json" // json decodes the tenant-type map override
	"fmt"           // fmt formats validation errors
	"log"           // log is used to report configuration errors and halt execution
	"os"            // os provides access to environment variables
	"strconv"       // strconv converts strings to other types
	"strings"       // strings checks for placeholder values
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Credentials for both remote systems live here so that
// every component receives them explicitly; there is no package-level
// configuration singleton.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	BoxBaseURL              string // base URL of the provider administration API
	BoxOAuthBaseURL         string // base URL of the provider OAuth2 token service
	BoxResellerClientID     string // OAuth2 client id of the reseller account
	BoxResellerClientSecret string // OAuth2 client secret of the reseller account
	BoxResellerID           string // provider-side reseller subject id

	OAuthKey       string // consumer key expected on inbound signed webhooks
	OAuthSignature string // shared secret used to verify inbound signatures

	UsersResource      string         // JSON key OA uses for the seat-count resource
	TenantTypeResource string         // JSON key OA uses for the tenant-type resource
	TenantTypeMap      map[int]string // numeric tenant-type limit -> provider plan code

	LoginURL         string // base login URL returned by the login-link endpoints
	LoginTokenSecret string // HS256 secret for login-link tokens (empty disables tokens)
	LoginTokenTTLMin int    // login-link token lifetime in minutes

	OATimeoutSec int // per-call timeout for control-plane requests, in seconds
	OARetryLimit int // how many times a 400 from the control plane is retried
}

// defaultTenantTypeMap mirrors the plan codes the reseller account ships with.
// A TENANT_TYPE_MAP env var replaces the whole table.
var defaultTenantTypeMap = map[int]string{
	0: "generic_business",
	1: "generic_enterprise",
	2: "generic_starter",
	3: "telstra_business_plus",
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:  getenvDefault("APP_ENV", "dev"),
		Port: getenvDefault("APP_PORT", "5000"),

		BoxBaseURL:              must("BOX_BASEURL"),
		BoxOAuthBaseURL:         must("BOX_OAUTH_BASEURL"),
		BoxResellerClientID:     must("BOX_RESELLER_CLIENT_ID"),
		BoxResellerClientSecret: must("BOX_RESELLER_CLIENT_SECRET"),
		BoxResellerID:           must("BOX_RESELLER_ID"),

		OAuthKey:       must("OAUTH_KEY"),
		OAuthSignature: must("OAUTH_SIGNATURE"),

		UsersResource:      getenvDefault("USERS_RESOURCE", "users"),
		TenantTypeResource: getenvDefault("TENANT_TYPE_RESOURCE", "tenant_type"),
		TenantTypeMap:      loadTenantTypeMap(),

		LoginURL:         getenvDefault("LOGIN_URL", "https://app.box.com/"),
		LoginTokenSecret: os.Getenv("LOGIN_TOKEN_SECRET"),
		LoginTokenTTLMin: intDefault("LOGIN_TOKEN_TTL_MIN", 15),

		OATimeoutSec: intDefault("OA_TIMEOUT_SEC", 50),
		OARetryLimit: intDefault("OA_RETRY_LIMIT", 10),
	}
}

// Validate refuses to let the connector serve traffic with template
// credentials. Deployment templates ship every secret as PUT_HERE_<name>; a
// value still carrying that prefix means the operator never finished setup.
func (c Config) Validate() error {
	checks := map[string]string{
		"BOX_BASEURL":                c.BoxBaseURL,
		"BOX_OAUTH_BASEURL":          c.BoxOAuthBaseURL,
		"BOX_RESELLER_CLIENT_ID":     c.BoxResellerClientID,
		"BOX_RESELLER_CLIENT_SECRET": c.BoxResellerClientSecret,
		"BOX_RESELLER_ID":            c.BoxResellerID,
		"OAUTH_KEY":                  c.OAuthKey,
		"OAUTH_SIGNATURE":            c.OAuthSignature,
	}
	for name, v := range checks {
		if strings.HasPrefix(v, "PUT_HERE_") {
			return fmt.Errorf("config: %s still holds a placeholder value, replace PUT_HERE_* before serving traffic", name)
		}
	}
	return nil
}

// PlanCodeFor maps a numeric tenant-type limit to a provider plan code. A nil
// limit (no tenant-type resource in the webhook) maps to an empty plan code;
// an unmapped limit is reported so the operator can extend the table.
func (c Config) PlanCodeFor(limit *int) (string, error) {
	if limit == nil {
		return "", nil
	}
	code, ok := c.TenantTypeMap[*limit]
	if !ok {
		return "", fmt.Errorf("config: no plan code mapped for tenant type limit %d", *limit)
	}
	return code, nil
}

// loadTenantTypeMap parses the TENANT_TYPE_MAP env var as a JSON object of
// numeric-string keys to plan codes. When the variable is absent the built-in
// table is used; a malformed value is fatal because silently falling back
// would provision tenants on the wrong plan.
func loadTenantTypeMap() map[int]string {
	raw := os.Getenv("TENANT_TYPE_MAP")
	if raw == "" {
		log.Printf("config: TENANT_TYPE_MAP not set, using built-in plan table")
		return defaultTenantTypeMap
	}
	var asStrings map[string]string
	if err := json.Unmarshal([]byte(raw), &asStrings); err != nil {
		log.Fatalf("config: invalid TENANT_TYPE_MAP: %v", err)
	}
	m := make(map[int]string, len(asStrings))
	for k, v := range asStrings {
		n, err := strconv.Atoi(k)
		if err != nil {
			log.Fatalf("config: TENANT_TYPE_MAP key %q is not numeric", k)
		}
		m[n] = v
	}
	return m
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenvDefault returns the value of an environment variable, or def when it
// is unset or empty.
func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intDefault is like getenvDefault but converts the value to an integer. A
// non-numeric value is fatal.
func intDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"time"     // converts the configured OA timeout

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/box-connector/internal/box"
	"github.com/iliyamo/box-connector/internal/config"
	"github.com/iliyamo/box-connector/internal/oa"
	"github.com/iliyamo/box-connector/internal/utils"
)

// Context keys under which the auth middleware stores the per-request
// collaborators. Handlers read them back via c.Get.
const (
	ContextResellerID = "reseller_id" // Aps-Instance-Id of the caller
	ContextSession    = "box_session" // *box.Session with a fresh bearer token
	ContextOAClient   = "oa_client"   // *oa.Client bound to this request
)

// Auth returns the middleware guarding every non-public endpoint. The chain
// mirrors the control plane's webhook contract:
//
//   1. the caller must identify itself with an Aps-Instance-Id header (401),
//   2. the request must carry a valid shared-secret signature (401),
//   3. a provider bearer token must be obtainable for the reseller (403).
//
// On success the provider session and a control-plane client preloaded with
// this request's correlation headers are stored in the context.
func Auth(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			instanceID := req.Header.Get("Aps-Instance-Id")
			if instanceID == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing reseller identity"})
			}

			if !utils.VerifyRequest(req, cfg.OAuthKey, cfg.OAuthSignature) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid request signature"})
			}

			// The provider token is fetched once per inbound request and
			// attached to every provider call made while handling it. It is
			// never cached across requests.
			session, err := box.NewSession(req.Context(), cfg)
			if err != nil {
				c.Logger().Errorf("provider token bootstrap failed: %v", err)
				return c.JSON(http.StatusForbidden, echo.Map{"error": "provider token bootstrap failed"})
			}

			oaClient := oa.NewClient(
				req.Header.Get("aps-controller-uri"),
				req.Header.Get("aps-transaction-id"),
				utils.ConsumerKey(req),
				cfg.OAuthSignature,
				time.Duration(cfg.OATimeoutSec)*time.Second,
				cfg.OARetryLimit,
			)

			c.Set(ContextResellerID, instanceID)
			c.Set(ContextSession, session)
			c.Set(ContextOAClient, oaClient)
			return next(c)
		}
	}
}

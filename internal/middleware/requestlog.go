package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLog logs one line per webhook: method, path, caller identity,
// resulting status and duration. Webhook traffic is low-volume and every
// request matters for provisioning audits, so everything is logged.
func RequestLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			log.Printf("%s %s instance=%s status=%d took=%s",
				req.Method, req.RequestURI,
				req.Header.Get("Aps-Instance-Id"),
				c.Response().Status,
				time.Since(start).Round(time.Millisecond))
			return nil
		}
	}
}

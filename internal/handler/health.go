package handler

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// Health is the public health-check endpoint used by the control plane and
// load balancers to verify the connector is running. It reports the service
// name and the serving host.
func Health(c echo.Context) error {
	host, _ := os.Hostname()
	return c.JSON(http.StatusOK, echo.Map{"service": "box_connector", "host": host})
}

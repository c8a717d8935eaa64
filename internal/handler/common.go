package handler // handler implements the webhook endpoints of the connector

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/box-connector/internal/box"
	"github.com/iliyamo/box-connector/internal/config"
	"github.com/iliyamo/box-connector/internal/middleware"
	"github.com/iliyamo/box-connector/internal/model"
	"github.com/iliyamo/box-connector/internal/oa"
)

// oaFrom returns the control-plane client the auth middleware prepared for
// this request.
func oaFrom(c echo.Context) *oa.Client {
	client, _ := c.Get(middleware.ContextOAClient).(*oa.Client)
	return client
}

// boxFrom builds a provider client on this request's session.
func boxFrom(c echo.Context, cfg config.Config) *box.Client {
	session, _ := c.Get(middleware.ContextSession).(*box.Session)
	return box.NewClient(cfg, session)
}

// fail translates collaborator errors into the connector's outward error
// shape. Provider errors keep their status code with the provider message
// extracted; control-plane communication failures surface as a bad gateway
// with the upstream status and body embedded for diagnosis; everything else
// is an internal error.
func fail(c echo.Context, err error) error {
	var apiErr *box.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.StatusCode, echo.Map{"message": apiErr.Message()})
	}
	var commErr *oa.CommunicationError
	if errors.As(err, &commErr) {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": commErr.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}

// badRequest reports a malformed inbound payload, naming what is missing.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// nestedString walks a decoded JSON object along keys and renders the leaf
// as a string. Identifiers arrive as strings or numbers depending on the
// control-plane version, so both are accepted.
func nestedString(body map[string]any, keys ...string) (string, bool) {
	var cur any = body
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = m[k]
		if !ok {
			return "", false
		}
	}
	s := model.AsString(cur)
	return s, s != ""
}

// limitFor extracts the numeric limit of a named OA resource from a webhook
// body, e.g. {"users": {"limit": 50}}. Returns nil when the resource is not
// part of the payload.
func limitFor(body map[string]any, resource string) *int {
	res, ok := body[resource].(map[string]any)
	if !ok {
		return nil
	}
	v, ok := res["limit"]
	if !ok {
		return nil
	}
	n := model.AsInt(v)
	return &n
}

// decodeRecord interprets a raw control-plane response as a single object.
func decodeRecord(raw json.RawMessage) (map[string]any, error) {
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// decodeCollection interprets a raw control-plane response as a list of
// objects.
func decodeCollection(raw json.RawMessage) ([]map[string]any, error) {
	var recs []map[string]any
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Package httpx holds small echo helpers shared by the domain handlers.
package httpx

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/pkg/civil"
)

// Bind decodes the request body into v. Decode failures are INVALID.
func Bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperr.Wrap(apperr.KindInvalid, "invalid request body", err)
	}
	return nil
}

// ParamUUID parses a path parameter.
func ParamUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.Invalid("invalid %s", name)
	}
	return id, nil
}

// QueryUUID parses an optional query parameter.
func QueryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, apperr.Invalid("invalid %s", name)
	}
	return &id, nil
}

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(c echo.Context, name string) (*civil.Date, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(v)
	if err != nil {
		return nil, apperr.Invalid("invalid %s: %s", name, err.Error())
	}
	return &d, nil
}

// QueryString returns an optional query parameter.
func QueryString(c echo.Context, name string) *string {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	return &v
}

// DayRange turns optional from/to days into [from 00:00, to+1 00:00) in loc.
func DayRange(from, to *civil.Date, loc *time.Location) (start, end *time.Time) {
	if from != nil {
		t := from.In(loc)
		start = &t
	}
	if to != nil {
		t := to.In(loc).AddDate(0, 0, 1)
		end = &t
	}
	return start, end
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
)

// ErrorBody is the JSON envelope for every failed request.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var statusCodes = map[int]string{
	http.StatusBadRequest:            apperr.KindInvalid.Code(),
	http.StatusUnauthorized:          apperr.KindUnauthorized.Code(),
	http.StatusForbidden:             apperr.KindForbidden.Code(),
	http.StatusNotFound:              apperr.KindNotFound.Code(),
	http.StatusConflict:              apperr.KindConflict.Code(),
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusTooManyRequests:       "RATE_LIMITED",
	http.StatusServiceUnavailable:    "UNAVAILABLE",
}

// StatusOf returns the status a request ends with once err is handled.
func StatusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	status, _ := describe(err)
	return status
}

func describe(err error) (int, ErrorDetail) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code, ok := statusCodes[he.Code]
		if !ok {
			code = apperr.KindInternal.Code()
		}
		msg := http.StatusText(he.Code)
		if he.Code < 500 {
			if s, ok := he.Message.(string); ok {
				msg = s
			} else if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		return he.Code, ErrorDetail{Code: code, Message: msg}
	}

	kind := apperr.KindOf(err)
	return kind.Status(), ErrorDetail{Code: kind.Code(), Message: apperr.Message(err)}
}

// ErrorHandler renders errors as {"error":{"code","message"}}. Internal
// failures are logged with the request id and answered with a generic message.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, detail := describe(err)
		if status >= 500 {
			logger.Error().Err(err).
				Str("request_id", requestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, ErrorBody{Error: detail})
		}
		if werr != nil {
			logger.Error().Err(werr).Str("request_id", requestID(c)).Msg("write error response")
		}
	}
}

package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
	"github.com/xRahul/wedding-planner-app-sub001/internal/crud"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
	"github.com/xRahul/wedding-planner-app-sub001/internal/storage/memory"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

func statusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, crud.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidDocument), errors.Is(err, core.ErrKeyType):
		return http.StatusBadRequest
	case errors.Is(err, crud.ErrNotFound), errors.Is(err, core.ErrUnknownKey):
		return http.StatusNotFound
	case errors.Is(err, memory.ErrCapacityExceeded):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

// handleError is echo's HTTPErrorHandler. Details of 5xx errors are logged,
// never returned.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := statusFor(err)
	resp := ErrorResponse{
		Error:     err.Error(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			resp.Error = msg
		} else {
			resp.Error = http.StatusText(he.Code)
		}
	}
	var ve *crud.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}

	if status >= http.StatusInternalServerError {
		ctx := c.Request().Context()
		applog.FromContext(ctx).WithComponent(applog.ComponentHTTP).ErrorContext(ctx, "Request failed",
			applog.NewFields().WithError(err).ToSlice()...)
		if status == http.StatusInternalServerError {
			resp.Error = "internal server error"
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, resp)
	}
	if err != nil {
		s.logger.Error("Could not write error response", applog.FieldError, err.Error())
	}
}

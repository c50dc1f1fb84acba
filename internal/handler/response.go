package handler

// response.go defines the response envelope shared by every endpoint and
// the helpers for building it.  Every body has the shape
// {success, data?, count?, message?}; the HTTP status conveys the error
// class (400 validation, 401 unauthorized, 404 not found, 500 unexpected).

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chayapol-b/jobfair-booking/internal/booking"
	"github.com/chayapol-b/jobfair-booking/internal/model"
)

// envelope is the JSON body returned by all endpoints.
type envelope struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ok writes a success envelope with data.
func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

// okCount writes a success envelope with data and a count, used by
// listing endpoints.
func okCount(c echo.Context, status int, count int, data interface{}) error {
	return c.JSON(status, envelope{Success: true, Count: &count, Data: data})
}

// fail writes a failure envelope with a human-readable message.
// Internal error detail never travels through here; callers pass a safe
// message and log the underlying error themselves.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: false, Message: message})
}

// requester extracts the authenticated identity stored in the context by
// the JWT middleware.  JWT numeric claims decode as float64; string
// subjects are parsed for robustness.
func requester(c echo.Context) (booking.Identity, error) {
	var id booking.Identity
	switch t := c.Get("user_id").(type) {
	case uint64:
		id.ID = t
	case int:
		id.ID = uint64(t)
	case int64:
		id.ID = uint64(t)
	case float64:
		id.ID = uint64(t)
	case string:
		n, err := strconv.ParseUint(t, 10, 64)
		if err != nil {
			return id, errors.New("invalid user_id in context")
		}
		id.ID = n
	default:
		return id, errors.New("invalid user_id in context")
	}
	if role, ok := c.Get("role").(string); ok {
		id.Role = role
	}
	if id.Role != model.RoleUser && id.Role != model.RoleAdmin {
		return id, errors.New("invalid role in context")
	}
	return id, nil
}

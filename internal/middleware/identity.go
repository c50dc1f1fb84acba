package middleware

// identity.go provides a shared helper for the cache and rate limit key
// builders: a string form of the current user id, or "anon" when the
// request carries no authenticated identity.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the user id stored by JWTAuth as a string.  JWT
// numeric claims decode as float64, so the value is normalized through
// fmt rather than asserted to one concrete type.
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch t := v.(type) {
    case string:
        if t != "" {
            return t
        }
        return "anon"
    case float64:
        return fmt.Sprintf("%.0f", t)
    default:
        return fmt.Sprint(t)
    }
}

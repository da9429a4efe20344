package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns a string identity for rate-limit keying.  It
// prefers the user_id claim injected by JWTAuth and falls back to "anon"
// for unauthenticated traffic.  JWT numeric claims arrive as float64.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        if v > 0 {
            return strconv.FormatUint(uint64(v), 10)
        }
    case uint64:
        if v > 0 {
            return strconv.FormatUint(v, 10)
        }
    }
    return "anon"
}

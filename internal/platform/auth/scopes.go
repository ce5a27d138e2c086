package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	AccessRead  = "read"
	AccessWrite = "write"
)

// ScopeAllows reports whether a scope of the form
// "<context>/<ResourceType|*>.<read|write|*>" grants access to resourceType.
func ScopeAllows(scope, resourceType, access string) bool {
	slash := strings.IndexByte(scope, '/')
	if slash < 0 {
		return false
	}
	switch scope[:slash] {
	case "user", "patient", "system":
	default:
		return false
	}
	rest := scope[slash+1:]
	dot := strings.LastIndexByte(rest, '.')
	if dot < 0 {
		return false
	}
	rt, acc := rest[:dot], rest[dot+1:]
	if rt != "*" && rt != resourceType {
		return false
	}
	return acc == "*" || acc == access
}

// HasScope reports whether any of scopes grants access.
func HasScope(scopes []string, resourceType, access string) bool {
	for _, s := range scopes {
		if ScopeAllows(s, resourceType, access) {
			return true
		}
	}
	return false
}

// RequireResourceScope rejects requests whose scopes do not cover the
// resource type named by the :type path parameter. Safe methods need read
// access, everything else write.
func RequireResourceScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rt := c.Param("type")
			if rt == "" {
				rt = "*"
			}
			access := AccessWrite
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead:
				access = AccessRead
			}
			if !HasScope(ScopesFromContext(c.Request().Context()), rt, access) {
				return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("insufficient scope for %s %s", access, rt))
			}
			return next(c)
		}
	}
}

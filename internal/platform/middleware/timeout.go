package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ehr/fhirstu3/internal/platform/fhir"
	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

// RequestTimeout puts a deadline on the request context. Handlers and the
// store observe it; when the deadline passes before anything was written the
// client gets a 504 OperationOutcome.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Response().Committed {
				return fhir.WriteOutcome(c, http.StatusGatewayTimeout, fhirmodels.NewOperationOutcome(
					fhirmodels.IssueSeverityError,
					fhirmodels.IssueTypeTimeout,
					"request processing exceeded the allowed time limit",
				))
			}
			return err
		}
	}
}

// Package response renders the JSON bodies the callback listener answers with.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Body is shown in the payer's browser after the gateway redirects back
type Body struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"` // Set on rejection, e.g. "NO_PENDING_CHECKOUT"
	Kind      string `json:"kind,omitempty"`
	Reference string `json:"reference,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Acknowledge confirms a gateway event was handed to the waiting checkout
func Acknowledge(c echo.Context, kind, reference, message string) error {
	return c.JSON(http.StatusOK, Body{
		Success:   true,
		Message:   message,
		Kind:      kind,
		Reference: reference,
	})
}

// Healthy answers the liveness route
func Healthy(c echo.Context) error {
	return c.JSON(http.StatusOK, Body{
		Success: true,
		Message: "callback listener is up",
		Status:  "ok",
	})
}

// Reject answers with statusCode and a business error code
func Reject(c echo.Context, statusCode int, code, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Body{
		Success: false,
		Message: message,
		Code:    code,
	})
}

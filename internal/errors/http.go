package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorResponse represents the structure of error responses sent to clients
type HTTPErrorResponse struct {
	Error   ErrorInfo              `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// ErrorInfo contains the core error information
type ErrorInfo struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// ToHTTPError converts a StewardError to an Echo HTTP error
func ToHTTPError(err error) error {
	if se, ok := err.(*StewardError); ok {
		return echo.NewHTTPError(se.GetHTTPStatus(), HTTPErrorResponse{
			Error: ErrorInfo{
				Code:    se.Code,
				Message: se.Message,
				Details: se.Details,
			},
			Context: se.Context,
		})
	}

	// For non-StewardError, create a generic internal error
	return echo.NewHTTPError(http.StatusInternalServerError, HTTPErrorResponse{
		Error: ErrorInfo{
			Code:    ErrInternal,
			Message: "Internal server error",
			Details: err.Error(),
		},
	})
}

package qrsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/qrpay/pkg/httpx"
)

// User visible error messages.
const (
	MessageInvalidOrExpiredCode = "Invalid or expired QR code"
	MessageExpiredCode          = "QR code has expired"
	MessageInvalidPayload       = "Invalid QR code data"
	MessageInvalidRequest       = "Invalid request"
	MessageInternal             = "Internal server error"
	MessageTooManyRequests      = "Too many requests. Please try again later."
)

// APIError is a failed response. Handlers write it with WriteError; the
// client returns it from every call.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("qrpay: %d %s", e.StatusCode, e.Message)
}

// Is matches on status and message so decoded errors compare equal to the
// predefined ones.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Message == t.Message
}

func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Message)
}

var (
	// ErrInvalidOrExpiredCode covers unknown and already used codes alike.
	ErrInvalidOrExpiredCode = &APIError{StatusCode: http.StatusBadRequest, Message: MessageInvalidOrExpiredCode}
	ErrExpiredCode          = &APIError{StatusCode: http.StatusBadRequest, Message: MessageExpiredCode}
	ErrInvalidPayload       = &APIError{StatusCode: http.StatusBadRequest, Message: MessageInvalidPayload}
	ErrInvalidRequest       = &APIError{StatusCode: http.StatusBadRequest, Message: MessageInvalidRequest}
	ErrInternal             = &APIError{StatusCode: http.StatusInternalServerError, Message: MessageInternal}
	ErrTooManyRequests      = &APIError{StatusCode: http.StatusTooManyRequests, Message: MessageTooManyRequests}
)

// parseErrorResponse turns an unexpected response into an *APIError. Bodies that
// are not the service's error shape keep the HTTP status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var er httpx.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: er.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}

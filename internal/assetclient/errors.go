package assetclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"asset-inventory/internal/models"
)

// GenericMessage is used when a failed response carries no readable message
const GenericMessage = "An error occurred"

var (
	// ErrNotFound matches a RemoteError for a 404 response
	ErrNotFound = errors.New("asset not found")
	// ErrConflict matches a RemoteError for a 409 response
	ErrConflict = errors.New("asset conflict")
)

// RemoteError is returned for any failed call to the asset store.
// StatusCode is 0 when no response was received.
type RemoteError struct {
	StatusCode int
	Message    string
	// Fields holds per-field messages when the store rejected the payload
	Fields models.FieldErrors
	Err    error
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("asset store unreachable: %s: %v", e.Message, e.Err)
		}
		return "asset store unreachable: " + e.Message
	}
	return fmt.Sprintf("asset store returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the transport error, if any
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrNotFound and ErrConflict by status
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// decodeError builds a RemoteError from a non-2xx body. The message is taken
// from "error", then "message", then GenericMessage. A body made only of
// string values for known asset fields is kept as field errors.
func decodeError(status int, body []byte) *RemoteError {
	rerr := &RemoteError{StatusCode: status, Message: GenericMessage}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return rerr
	}

	if msg, ok := payload["error"].(string); ok && msg != "" {
		rerr.Message = msg
		return rerr
	}
	if msg, ok := payload["message"].(string); ok && msg != "" {
		rerr.Message = msg
		return rerr
	}

	fields := models.FieldErrors{}
	for key, value := range payload {
		msg, ok := value.(string)
		if !ok || !isAssetField(key) {
			return rerr
		}
		fields[key] = msg
	}
	if len(fields) > 0 {
		rerr.Fields = fields
	}
	return rerr
}

func isAssetField(key string) bool {
	switch key {
	case "name", "serialNo", "assignDate", "category":
		return true
	}
	return false
}

// MessageOf returns the user facing message of err: the store's message for
// a RemoteError, GenericMessage otherwise.
func MessageOf(err error) string {
	var rerr *RemoteError
	if errors.As(err, &rerr) && rerr.Message != "" {
		return rerr.Message
	}
	return GenericMessage
}

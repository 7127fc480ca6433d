package inventory

import (
	"errors"
	"sort"
	"strings"

	"asset-inventory/internal/models"
)

var (
	// ErrFetchFailed wraps a failed refresh
	ErrFetchFailed = errors.New("failed to fetch assets")
	// ErrDeleteFailed wraps a failed delete
	ErrDeleteFailed = errors.New("failed to delete asset")
	// ErrRemoveDeclined is returned when the caller did not confirm a delete
	ErrRemoveDeclined = errors.New("delete not confirmed")
	// ErrSubmitInFlight is returned when a submit starts while another one is pending
	ErrSubmitInFlight = errors.New("a submission is already in progress")
)

// ValidationError reports every invalid draft field. It never leaves the
// client: no request is made when it is returned.
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid asset: " + strings.Join(parts, "; ")
}

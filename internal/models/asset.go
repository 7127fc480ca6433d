package models

import (
	"strings"
	"time"
)

// DateLayout is the wire and form layout of AssignDate
const DateLayout = "2006-01-02"

// Asset represents a tracked physical item as held by the remote store.
// ID is empty for a draft that has not been persisted yet.
type Asset struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	SerialNo   string   `json:"serialNo"`
	AssignDate string   `json:"assignDate"`
	Category   Category `json:"category,omitempty"`
}

// EmptyDraft returns the default form values: blank name and serial,
// today's date and the Other category.
func EmptyDraft(now time.Time) Asset {
	return Asset{
		AssignDate: now.Format(DateLayout),
		Category:   CategoryOther,
	}
}

// Draft copies the editable fields of the asset, leaving the ID behind
func (a Asset) Draft() Asset {
	return Asset{
		Name:       a.Name,
		SerialNo:   a.SerialNo,
		AssignDate: a.AssignDate,
		Category:   a.Category,
	}
}

// AssignedOn parses AssignDate in the given location.
// A full RFC3339 timestamp is accepted as well since some stores echo one back.
func (a Asset) AssignedOn(loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(a.AssignDate)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

// CategoryOrDefault returns the category, or Other when none is set
func (a Asset) CategoryOrDefault() Category {
	if a.Category == "" {
		return CategoryOther
	}
	return a.Category
}

// FieldErrors maps a JSON field name to a validation message
type FieldErrors map[string]string

// Clone returns an independent copy, nil stays nil
func (f FieldErrors) Clone() FieldErrors {
	if f == nil {
		return nil
	}
	out := make(FieldErrors, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Validation limits and messages shared by the client form and the store
const (
	NameMinLen = 2
	NameMaxLen = 100

	MsgNameRequired       = "Name cannot be empty"
	MsgNameLength         = "Name must be between 2-100 characters"
	MsgSerialNoRequired   = "Serial number cannot be empty"
	MsgAssignDateRequired = "Assign date cannot be null"
)

// Validate checks every required field and reports all violations at once.
// Category is never checked; unknown values fall back to Other when displayed.
func Validate(a Asset) FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(a.Name)
	switch n := len([]rune(name)); {
	case n == 0:
		errs["name"] = MsgNameRequired
	case n < NameMinLen || n > NameMaxLen:
		errs["name"] = MsgNameLength
	}

	if strings.TrimSpace(a.SerialNo) == "" {
		errs["serialNo"] = MsgSerialNoRequired
	}

	if a.AssignDate == "" {
		errs["assignDate"] = MsgAssignDateRequired
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

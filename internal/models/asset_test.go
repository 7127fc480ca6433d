package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := Asset{Name: "Laptop Dell XPS", SerialNo: "SN001", AssignDate: "2026-02-17", Category: CategoryComputer}

	tests := []struct {
		name   string
		mutate func(a *Asset)
		want   FieldErrors
	}{
		{name: "valid", mutate: func(a *Asset) {}, want: nil},
		{name: "name length 2", mutate: func(a *Asset) { a.Name = "ab" }, want: nil},
		{name: "name length 100", mutate: func(a *Asset) { a.Name = strings.Repeat("x", 100) }, want: nil},
		{name: "name length 1", mutate: func(a *Asset) { a.Name = "a" }, want: FieldErrors{"name": MsgNameLength}},
		{name: "name length 101", mutate: func(a *Asset) { a.Name = strings.Repeat("x", 101) }, want: FieldErrors{"name": MsgNameLength}},
		{name: "name trimmed to 1", mutate: func(a *Asset) { a.Name = "  a  " }, want: FieldErrors{"name": MsgNameLength}},
		{name: "name blank", mutate: func(a *Asset) { a.Name = "   " }, want: FieldErrors{"name": MsgNameRequired}},
		{name: "serial blank", mutate: func(a *Asset) { a.SerialNo = " " }, want: FieldErrors{"serialNo": MsgSerialNoRequired}},
		{name: "date empty", mutate: func(a *Asset) { a.AssignDate = "" }, want: FieldErrors{"assignDate": MsgAssignDateRequired}},
		{name: "date not parsed", mutate: func(a *Asset) { a.AssignDate = "someday" }, want: nil},
		{name: "unknown category accepted", mutate: func(a *Asset) { a.Category = "Furniture" }, want: nil},
		{
			name: "all fields reported",
			mutate: func(a *Asset) {
				a.Name = ""
				a.SerialNo = ""
				a.AssignDate = ""
			},
			want: FieldErrors{
				"name":       MsgNameRequired,
				"serialNo":   MsgSerialNoRequired,
				"assignDate": MsgAssignDateRequired,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			assert.Equal(t, tt.want, Validate(a))
		})
	}
}

func TestEmptyDraft(t *testing.T) {
	now := time.Date(2026, 2, 17, 15, 4, 5, 0, time.UTC)
	d := EmptyDraft(now)

	assert.Equal(t, Asset{AssignDate: "2026-02-17", Category: CategoryOther}, d)
	assert.Empty(t, d.ID)
}

func TestDraftDropsID(t *testing.T) {
	a := Asset{ID: "1", Name: "Mouse", SerialNo: "SN9", AssignDate: "2026-01-01", Category: CategoryPeripheral}
	d := a.Draft()

	assert.Empty(t, d.ID)
	assert.Equal(t, "Mouse", d.Name)
	assert.Equal(t, CategoryPeripheral, d.Category)
}

func TestAssignedOn(t *testing.T) {
	got, ok := Asset{AssignDate: "2026-02-17"}.AssignedOn(time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC), got)

	_, ok = Asset{AssignDate: "17.02.2026"}.AssignedOn(time.UTC)
	assert.False(t, ok)

	_, ok = Asset{}.AssignedOn(time.UTC)
	assert.False(t, ok)
}

func TestCategoryLookup(t *testing.T) {
	assert.Equal(t, "#667eea", CategoryColor(CategoryComputer))
	assert.Equal(t, "📱 Mobile", CategoryLabel(CategoryMobile))

	// unknown and empty values fall back to Other
	assert.Equal(t, "📦 Other", CategoryLabel("Furniture"))
	assert.Equal(t, "#a8edea", CategoryColor(""))

	assert.True(t, CategoryNetwork.IsKnown())
	assert.False(t, Category("Furniture").IsKnown())

	assert.Equal(t, CategoryOther, Asset{}.CategoryOrDefault())
	assert.Len(t, Categories, 6)
}

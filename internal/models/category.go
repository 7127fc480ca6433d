package models

// Category is the kind of an asset. Values outside the catalog are kept as-is.
type Category string

const (
	CategoryComputer   Category = "Computer"
	CategoryPeripheral Category = "Peripheral"
	CategoryMonitor    Category = "Monitor"
	CategoryNetwork    Category = "Network"
	CategoryMobile     Category = "Mobile"
	CategoryOther      Category = "Other"
)

// CategoryConfig is one display entry of the category catalog
type CategoryConfig struct {
	Value Category `json:"value" yaml:"value"`
	Label string   `json:"label" yaml:"label"`
	Color string   `json:"color" yaml:"color"`
}

// Categories is the ordered, process-wide category catalog
var Categories = []CategoryConfig{
	{Value: CategoryComputer, Label: "💻 Computer", Color: "#667eea"},
	{Value: CategoryPeripheral, Label: "🖱️ Peripheral", Color: "#f093fb"},
	{Value: CategoryMonitor, Label: "🖥️ Monitor", Color: "#4facfe"},
	{Value: CategoryNetwork, Label: "🌐 Network", Color: "#43e97b"},
	{Value: CategoryMobile, Label: "📱 Mobile", Color: "#fa709a"},
	{Value: CategoryOther, Label: "📦 Other", Color: "#a8edea"},
}

// LookupCategory returns the catalog entry for c, falling back to Other
// for empty or unknown values. The boolean reports an exact match.
func LookupCategory(c Category) (CategoryConfig, bool) {
	for _, cfg := range Categories {
		if cfg.Value == c {
			return cfg, true
		}
	}
	return Categories[len(Categories)-1], false
}

// CategoryLabel returns the display label for c
func CategoryLabel(c Category) string {
	cfg, _ := LookupCategory(c)
	return cfg.Label
}

// CategoryColor returns the display color for c
func CategoryColor(c Category) string {
	cfg, _ := LookupCategory(c)
	return cfg.Color
}

// IsKnown reports whether c is one of the catalog values
func (c Category) IsKnown() bool {
	_, ok := LookupCategory(c)
	return ok
}

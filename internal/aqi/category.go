package aqi

// Category is a simplified, PM2.5-only air quality level. The zero value is Good.
type Category int

const (
	Good Category = iota
	Moderate
	UnhealthySensitive
	Unhealthy
	VeryUnhealthy
	Hazardous
)

// Categories lists every category in ascending severity.
var Categories = []Category{Good, Moderate, UnhealthySensitive, Unhealthy, VeryUnhealthy, Hazardous}

// Breakpoint is an inclusive upper bound (µg/m³) for a category.
type Breakpoint struct {
	Upper    float64
	Category Category
}

// Breakpoints are ordered and non-overlapping; anything above the last bound is Hazardous.
var Breakpoints = []Breakpoint{
	{Upper: 12.0, Category: Good},
	{Upper: 35.4, Category: Moderate},
	{Upper: 55.4, Category: UnhealthySensitive},
	{Upper: 150.4, Category: Unhealthy},
	{Upper: 250.4, Category: VeryUnhealthy},
}

// Categorize maps a PM2.5 concentration to its category.
// Negative input lands in Good through the first bound.
func Categorize(pm25 float64) Category {
	for _, bp := range Breakpoints {
		if pm25 <= bp.Upper {
			return bp.Category
		}
	}
	return Hazardous
}

func (c Category) String() string {
	switch c {
	case Good:
		return "Good"
	case Moderate:
		return "Moderate"
	case UnhealthySensitive:
		return "Unhealthy for Sensitive Groups"
	case Unhealthy:
		return "Unhealthy"
	case VeryUnhealthy:
		return "Very Unhealthy"
	case Hazardous:
		return "Hazardous"
	default:
		return "Unknown"
	}
}

// MarshalText renders the label so JSON reports carry readable categories.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

package schema

import "strings"

// Percentage returns part as a percentage of total, or 0 when total is 0.
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}

// FormatLocations joins install locations as "node_modules/a, x/node_modules/a".
func FormatLocations(locations []string) string {
	return strings.Join(locations, ", ")
}

// ShortLocation trims everything before the first node_modules/ segment
// and the trailing package directory, returning the owning prefix.
// The root install has an empty owner and returns "(root)".
func ShortLocation(location string) string {
	idx := strings.LastIndex(location, "node_modules/")
	if idx <= 0 {
		return "(root)"
	}
	return strings.TrimSuffix(location[:idx], "/")
}

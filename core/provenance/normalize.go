package provenance

import (
	"regexp"
	"strings"
)

// projectMarkers are directory names that usually sit at a project root.
var projectMarkers = []string{"/app/", "/components/", "/screens/", "/utils/"}

var syntheticBase = regexp.MustCompile(`^module_\d+(\.js)?$`)

// NormalizePath trims machine-specific prefixes off a source path.
//
// Paths are cut to the first node_modules/ onward, else to src/ onward, else
// to the earliest project marker. Paths with no separator, or relative ones,
// come back unchanged. Any other absolute path is reduced to its base name.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")

	if idx := strings.Index(p, "node_modules/"); idx >= 0 {
		return p[idx:]
	}
	if idx := strings.Index(p, "/src/"); idx >= 0 {
		return p[idx+1:]
	}
	if idx := earliestMarker(p); idx >= 0 {
		return p[idx+1:]
	}
	if !strings.Contains(p, "/") || !isAbsolute(p) {
		return p
	}
	return p[strings.LastIndex(p, "/")+1:]
}

// IsSynthetic reports whether path is a placeholder built from a module id.
func IsSynthetic(path string) bool {
	base := path[strings.LastIndex(path, "/")+1:]
	return syntheticBase.MatchString(base)
}

func earliestMarker(p string) int {
	best := -1
	for _, m := range projectMarkers {
		if idx := strings.Index(p, m); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best
}

// isAbsolute covers unix roots, drive letters and URL-style sources such as webpack:///.
func isAbsolute(p string) bool {
	if strings.HasPrefix(p, "/") || strings.Contains(p, "://") {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && p[2] == '/'
}

// Package classify maps resolved module paths to packages and provenance categories.
package classify

import (
	"strings"

	"github.com/huangsam/bundlescope/schema"
)

const (
	nodeModules = "node_modules/"

	// PlatformPrefix marks modules shipped by the app runtime itself.
	PlatformPrefix = "node_modules/react-native/"
)

// ExtractPackageName returns the package that follows the last node_modules/
// segment of path. Scoped packages come back as @scope/name.
func ExtractPackageName(path string) (string, bool) {
	idx := lastSegment(path)
	if idx < 0 {
		return "", false
	}
	rest := path[idx+len(nodeModules):]
	parts := strings.SplitN(rest, "/", 3)
	if parts[0] == "" {
		return "", false
	}
	if strings.HasPrefix(parts[0], "@") {
		if len(parts) < 2 || parts[1] == "" {
			return "", false
		}
		return parts[0] + "/" + parts[1], true
	}
	return parts[0], true
}

// Categorize assigns one of the three provenance categories to path.
// A bare node_modules/react-native path counts as the platform package too.
func Categorize(path string) schema.Category {
	switch {
	case strings.Contains(path+"/", PlatformPrefix):
		return schema.PlatformRuntime
	case lastSegment(path) >= 0:
		return schema.ThirdParty
	default:
		return schema.FirstParty
	}
}

// InstallLocation returns the directory a package is installed in, including
// every node_modules/ level above it, e.g. node_modules/foo/node_modules/lodash.
func InstallLocation(path string) (string, bool) {
	name, ok := ExtractPackageName(path)
	if !ok {
		return "", false
	}
	idx := lastSegment(path)
	return path[:idx+len(nodeModules)] + name, true
}

// lastSegment finds the last node_modules/ that starts a path segment.
func lastSegment(path string) int {
	for end := len(path); end > 0; {
		idx := strings.LastIndex(path[:end], nodeModules)
		if idx < 0 {
			return -1
		}
		if idx == 0 || path[idx-1] == '/' {
			return idx
		}
		end = idx
	}
	return -1
}

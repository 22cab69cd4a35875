// Package manifest reads package.json files to resolve installed versions
// and find declared dependencies that never reach the bundle.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/bundlescope/schema"
)

// Manifest is the subset of package.json used here.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Load reads and parses the package.json at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses package.json content.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Declared returns the declared range for name, runtime dependencies first.
func (m *Manifest) Declared(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	if v, ok := m.Dependencies[name]; ok {
		return v, true
	}
	v, ok := m.DevDependencies[name]
	return v, ok
}

// Versions resolves a version for each package name. The version in
// <root>/node_modules/<name>/package.json wins; the declared range is the fallback.
// Names with neither are left out. m and root may both be empty.
func Versions(m *Manifest, root string, names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if root != "" {
			if v := installedVersion(root, name); v != "" {
				out[name] = v
				continue
			}
		}
		if v, ok := m.Declared(name); ok {
			out[name] = v
		}
	}
	return out
}

func installedVersion(root, name string) string {
	path := filepath.Join(root, "node_modules", filepath.FromSlash(name), "package.json")
	pkg, err := Load(path)
	if err != nil {
		return ""
	}
	return pkg.Version
}

// installFiles change whenever the package manager rewrites node_modules.
var installFiles = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"bun.lockb",
	"node_modules/.package-lock.json",
	"node_modules/.yarn-integrity",
	"node_modules/.modules.yaml",
}

// InstallState fingerprints the installed tree under root: the size and mtime of
// each lockfile present plus those of every declared package's installed
// package.json. It returns "" when root is empty. The result only needs to
// change when a reinstall could change the versions Versions reports.
func InstallState(m *Manifest, root string) string {
	if root == "" {
		return ""
	}
	files := append([]string{}, installFiles...)
	if m != nil {
		names := make([]string, 0, len(m.Dependencies)+len(m.DevDependencies))
		for name := range m.Dependencies {
			names = append(names, name)
		}
		for name := range m.DevDependencies {
			if _, ok := m.Dependencies[name]; !ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			files = append(files, "node_modules/"+name+"/package.json")
		}
	}

	var b strings.Builder
	for _, name := range files {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil || info.IsDir() {
			continue
		}
		fmt.Fprintf(&b, "%s:%d:%d\n", name, info.Size(), info.ModTime().UnixNano())
	}
	return b.String()
}

// Unused lists runtime dependencies that no module in result belongs to, sorted.
// Type-only packages are skipped since they never ship.
func Unused(m *Manifest, result schema.BundleAnalysisResult) []string {
	out := []string{}
	if m == nil {
		return out
	}
	seen := make(map[string]struct{}, len(result.Packages))
	for _, p := range result.Packages {
		seen[p.Name] = struct{}{}
	}
	for name := range m.Dependencies {
		if strings.HasPrefix(name, "@types/") {
			continue
		}
		if _, ok := seen[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

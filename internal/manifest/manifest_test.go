package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/bundlescope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appManifest = `{
  "name": "demo-app",
  "version": "1.0.0",
  "dependencies": {
    "react-native": "0.74.1",
    "lodash": "^4.17.0",
    "left-pad": "^1.3.0",
    "@types/react": "^18.0.0"
  },
  "devDependencies": {
    "jest": "^29.0.0"
  }
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	writeFile(t, path, appManifest)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo-app", m.Name)
	assert.Len(t, m.Dependencies, 4)

	v, ok := m.Declared("jest")
	assert.True(t, ok)
	assert.Equal(t, "^29.0.0", v)

	_, ok = m.Declared("missing")
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	_, err = Parse([]byte("{not json"))
	assert.Error(t, err)
}

func TestVersions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "node_modules", "lodash", "package.json"), `{"name":"lodash","version":"4.17.21"}`)
	writeFile(t, filepath.Join(dir, "node_modules", "@babel", "runtime", "package.json"), `{"name":"@babel/runtime","version":"7.24.0"}`)
	m, err := Parse([]byte(appManifest))
	require.NoError(t, err)

	got := Versions(m, dir, []string{"lodash", "@babel/runtime", "react-native", "unknown"})

	assert.Equal(t, map[string]string{
		"lodash":         "4.17.21",
		"@babel/runtime": "7.24.0",
		"react-native":   "0.74.1",
	}, got)
}

func TestVersionsWithoutManifest(t *testing.T) {
	got := Versions(nil, "", []string{"lodash"})
	assert.Empty(t, got)
}

func TestInstallState(t *testing.T) {
	dir := t.TempDir()
	m, err := Parse([]byte(appManifest))
	require.NoError(t, err)

	assert.Empty(t, InstallState(m, ""))
	assert.Empty(t, InstallState(m, dir), "nothing installed yet")

	pkg := filepath.Join(dir, "node_modules", "lodash", "package.json")
	writeFile(t, pkg, `{"name":"lodash","version":"4.17.20"}`)
	writeFile(t, filepath.Join(dir, "node_modules", "not-declared", "package.json"), `{"version":"1.0.0"}`)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(pkg, at, at))

	before := InstallState(m, dir)
	assert.Contains(t, before, "node_modules/lodash/package.json")
	assert.NotContains(t, before, "not-declared")
	assert.Equal(t, before, InstallState(m, dir))

	// A reinstall rewrites the package.json
	writeFile(t, pkg, `{"name":"lodash","version":"4.17.21"}`)
	require.NoError(t, os.Chtimes(pkg, at.Add(time.Hour), at.Add(time.Hour)))
	after := InstallState(m, dir)
	assert.NotEqual(t, before, after)

	writeFile(t, filepath.Join(dir, "package-lock.json"), `{}`)
	assert.Contains(t, InstallState(m, dir), "package-lock.json")
	assert.Contains(t, InstallState(nil, dir), "package-lock.json")
}

func TestUnused(t *testing.T) {
	m, err := Parse([]byte(appManifest))
	require.NoError(t, err)
	result := schema.BundleAnalysisResult{
		Packages: []schema.PackageAggregate{{Name: "react-native"}, {Name: "lodash"}},
	}

	assert.Equal(t, []string{"left-pad"}, Unused(m, result))
	assert.Equal(t, []string{}, Unused(nil, result))
}

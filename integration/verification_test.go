//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noStores disables persistence so runs do not touch the home directory.
func noStores(t *testing.T) {
	t.Setenv("BUNDLESCOPE_CACHE_BACKEND", "none")
	t.Setenv("BUNDLESCOPE_HISTORY_BACKEND", "none")
}

// TestPackagesVerification checks the package sizes against the module bodies written by writeProject.
func TestPackagesVerification(t *testing.T) {
	noStores(t)
	bundle, manifest := writeProject(t)

	out, err := runCommand(t, "packages", bundle, "--manifest", manifest, "--output", "json")
	require.NoError(t, err)

	var packages []struct {
		Name           string  `json:"name"`
		TotalSizeBytes int64   `json:"total_size_bytes"`
		Percentage     float64 `json:"percentage_of_bundle"`
		Rank           int     `json:"rank"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &packages))
	require.Len(t, packages, 2)

	assert.Equal(t, "moment", packages[0].Name)
	assert.Equal(t, 1, packages[0].Rank)
	assert.Equal(t, "lodash", packages[1].Name)
	assert.Greater(t, packages[0].TotalSizeBytes, int64(9000))
	assert.Greater(t, packages[1].TotalSizeBytes, int64(7000))
	assert.Less(t, packages[0].Percentage+packages[1].Percentage, 100.0)
}

// TestDuplicatesVerification checks that both lodash install locations are reported.
func TestDuplicatesVerification(t *testing.T) {
	noStores(t)
	bundle, _ := writeProject(t)

	out, err := runCommand(t, "duplicates", bundle, "--output", "json")
	require.NoError(t, err)

	var findings []struct {
		Name             string   `json:"name"`
		InstallLocations []string `json:"install_locations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &findings))
	require.Len(t, findings, 1)
	assert.Equal(t, "lodash", findings[0].Name)
	assert.Equal(t, []string{
		"node_modules/lodash",
		"node_modules/react-native-svg/node_modules/lodash",
	}, findings[0].InstallLocations)
}

type packageRow struct {
	Name           string `json:"name"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
}

// TestPositionMapVerification checks that map entries win over embedded paths by chunk index.
func TestPositionMapVerification(t *testing.T) {
	noStores(t)
	bundle, _ := writeProject(t)
	mapPath := filepath.Join(filepath.Dir(bundle), "index.android.bundle.map")
	sourceMap := `{"version":3,"sources":["/home/dev/app/src/App.js","/home/dev/app/node_modules/axios/index.js"],"mappings":""}`
	require.NoError(t, os.WriteFile(mapPath, []byte(sourceMap), 0o644))

	out, err := runCommand(t, "packages", bundle, "--map", mapPath, "--output", "json")
	require.NoError(t, err)

	var packages []packageRow
	require.NoError(t, json.Unmarshal([]byte(out), &packages))
	names := make([]string, len(packages))
	for i, p := range packages {
		names[i] = p.Name
	}
	// Chunk 1 comes from the map; chunks 2 and 3 fall back to their embedded paths
	assert.Equal(t, []string{"moment", "axios", "lodash"}, names)

	out, err = runCommand(t, "duplicates", bundle, "--map", mapPath, "--output", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

// TestMalformedPositionMap expects a warning and the same result as running without a map.
func TestMalformedPositionMap(t *testing.T) {
	noStores(t)
	bundle, _ := writeProject(t)
	mapPath := filepath.Join(filepath.Dir(bundle), "broken.map")
	require.NoError(t, os.WriteFile(mapPath, []byte(`{"sources":`), 0o644))

	withMap, stderr, err := runCommandOutput(t, "packages", bundle, "--map", mapPath, "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Ignoring malformed position map")

	withoutMap, err := runCommand(t, "packages", bundle, "--output", "json")
	require.NoError(t, err)
	assert.JSONEq(t, withoutMap, withMap)
}

// TestReportFileOutput writes every file-backed format and checks the files exist.
func TestReportFileOutput(t *testing.T) {
	noStores(t)
	bundle, manifest := writeProject(t)
	dir := t.TempDir()

	for _, format := range []string{"json", "yaml", "csv", "xlsx"} {
		t.Run(format, func(t *testing.T) {
			target := filepath.Join(dir, "report."+format)
			_, err := runCommand(t, "analyze", bundle, "--manifest", manifest, "--output", format, "--output-file", target)
			require.NoError(t, err)
			info, err := os.Stat(target)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

// TestMissingBundle expects a non-zero exit before any analysis runs.
func TestMissingBundle(t *testing.T) {
	noStores(t)
	_, err := runCommand(t, "analyze", filepath.Join(t.TempDir(), "missing.bundle"))
	require.Error(t, err)
}

package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/schema"
	"github.com/stretchr/testify/require"
)

// testBundle has one first-party module, one package installed twice and one package once.
var testBundle = `var __BUNDLE_START_TIME__=1;` +
	`__d(function(g,r,i,a,m,e,d){r(d[0]);},0,[1],"src/App.js");` +
	`__d(function(g,r,i,a,m,e,d){m.exports="` + strings.Repeat("l", 4000) + `";},1,[],"node_modules/lodash/lodash.js");` +
	`__d(function(g,r,i,a,m,e,d){m.exports="` + strings.Repeat("l", 3000) + `";},2,[],"node_modules/foo/node_modules/lodash/lodash.js");` +
	`__d(function(g,r,i,a,m,e,d){m.exports="` + strings.Repeat("m", 9000) + `";},3,[],"node_modules/moment/moment.js");` +
	`__r(0);`

const testManifest = `{"name":"app","dependencies":{"lodash":"^4.17.21","moment":"^2.29.4","left-pad":"1.3.0"}}`

// writeFixture writes name under dir and returns its path.
func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testConfig points at a fresh copy of the fixtures and writes output into the temp dir.
func testConfig(t *testing.T, output schema.OutputMode) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	return &contract.Config{
		BundlePath:     writeFixture(t, dir, "index.android.bundle", testBundle),
		ManifestPath:   writeFixture(t, dir, "package.json", testManifest),
		ResultLimit:    contract.DefaultResultLimit,
		Precision:      contract.DefaultPrecision,
		Output:         output,
		OutputFile:     filepath.Join(dir, "out"),
		Width:          120,
		CacheBackend:   schema.NoneBackend,
		HistoryBackend: schema.NoneBackend,
	}
}

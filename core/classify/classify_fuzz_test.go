package classify

import (
	"strings"
	"testing"

	"github.com/huangsam/bundlescope/schema"
)

// FuzzClassify checks that classification is pure and self-consistent.
func FuzzClassify(f *testing.F) {
	seeds := []string{
		"node_modules/lodash/index.js",
		"node_modules/@scope/name/x.js",
		"node_modules/a/node_modules/@b/c",
		"src/App.js",
		"node_modules/",
		"",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, path string) {
		name, ok := ExtractPackageName(path)
		name2, ok2 := ExtractPackageName(path)
		if name != name2 || ok != ok2 {
			t.Fatalf("ExtractPackageName not deterministic for %q", path)
		}
		if ok && (name == "" || !strings.Contains(path, name)) {
			t.Fatalf("bad package %q for %q", name, path)
		}
		if loc, has := InstallLocation(path); has != ok || (has && !strings.HasPrefix(path, loc)) {
			t.Fatalf("bad install location %q for %q", loc, path)
		}
		cat := Categorize(path)
		if cat == schema.FirstParty && ok {
			t.Fatalf("packaged path %q classified first-party", path)
		}
	})
}

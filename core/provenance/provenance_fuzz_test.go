package provenance

import "testing"

// FuzzResolve checks that resolution is total and never yields an empty path.
func FuzzResolve(f *testing.F) {
	seeds := []string{
		`__d(function(g){},1,[],"/")`,
		`__d(function(g){require("")},1,[])`,
		`__d(function(g){var a=_x.default},2,[])`,
		`"node_modules/"`,
		"",
	}
	for _, s := range seeds {
		f.Add(s, 0, 1)
	}

	f.Fuzz(func(t *testing.T, code string, chunkIndex, id int) {
		r := Resolver{Map: LoadPositionMap(`{"sources":["/"]}`)}
		if got := r.Resolve(code, chunkIndex, id); got == "" {
			t.Fatalf("empty path for %q", code)
		}
	})
}

package segment

import (
	"strings"
	"testing"
)

// FuzzSegment checks that segmentation is total and keeps its size bounds.
func FuzzSegment(f *testing.F) {
	seeds := []string{
		`__d(function(g,r,i,a,m,e,d){var x=1;},42,[]);`,
		`__d(function(g){"{"},1,[]);__d((g)=>{},2);`,
		`__d(`,
		`__d(__d(__d(`,
		"__d(function(){`\\`},3,[])",
		"",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, text string) {
		res := Segment(text)
		want := strings.Count(text, Marker)
		if len(res.Chunks) != want {
			t.Fatalf("got %d chunks, want %d", len(res.Chunks), want)
		}
		for i, c := range res.Chunks {
			if c.Index != i {
				t.Fatalf("chunk %d has index %d", i, c.Index)
			}
			if !strings.HasPrefix(c.Code, Marker) {
				t.Fatalf("chunk %d code lacks marker", i)
			}
			if c.Size() > int64(len(text)) {
				t.Fatalf("chunk %d larger than input", i)
			}
		}
	})
}

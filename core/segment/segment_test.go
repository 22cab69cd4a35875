package segment

import (
	"context"
	"strings"
	"testing"

	"github.com/huangsam/bundlescope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentSingleModule(t *testing.T) {
	text := `__d(function(g,r,i,a,m,e,d){var x=1;},42,[]);`

	res := Segment(text)

	require.Len(t, res.Chunks, 1)
	c := res.Chunks[0]
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, 42, c.DeclaredID)
	assert.True(t, c.HasDeclaredID)
	assert.True(t, c.Structural)
	assert.Equal(t, `__d(function(g,r,i,a,m,e,d){var x=1;},42,[])`, c.Code)
	assert.Equal(t, int64(len(c.Code)), c.Size())
	assert.Equal(t, schema.StructuralSegments, res.Mode)
}

func TestSegmentDiscardsPreamble(t *testing.T) {
	text := `var __BUNDLE_START_TIME__=Date.now();` +
		`__d(function(g,r,i,a,m,e,d){},0,[]);` +
		`__d(function(g,r,i,a,m,e,d){},1,[0]);` +
		`__r(0);`

	res := Segment(text)

	require.Len(t, res.Chunks, 2)
	assert.Equal(t, 0, res.Chunks[0].DeclaredID)
	assert.Equal(t, 1, res.Chunks[1].DeclaredID)
	assert.Equal(t, 1, res.Chunks[1].Index)
	assert.NotContains(t, res.Chunks[1].Code, "__r(0)")
}

func TestSegmentBraceInsideString(t *testing.T) {
	body := `var s="{";var t='}';var u=` + "`)`" + `;return s+t;`
	text := `__d(function(g,r,i,a,m,e,d){` + body + `},3,[]);__d(function(g,r,i,a,m,e,d){},4,[]);`

	res := Segment(text)

	require.Len(t, res.Chunks, 2)
	assert.Equal(t, `__d(function(g,r,i,a,m,e,d){`+body+`},3,[])`, res.Chunks[0].Code)
	assert.Equal(t, 4, res.Chunks[1].DeclaredID)
}

func TestSegmentEscapedQuote(t *testing.T) {
	body := `var s="a\"{b";`
	text := `__d(function(g,r,i,a,m,e,d){` + body + `},9,[]);`

	res := Segment(text)

	require.Len(t, res.Chunks, 1)
	assert.True(t, strings.HasSuffix(res.Chunks[0].Code, `},9,[])`))
}

func TestSegmentInnerIDShape(t *testing.T) {
	// The lazy head pattern would stop at "},3," inside the body
	text := `__d(function(g,r,i,a,m,e,d){f({a:1},3,x)},17,[2]);`

	res := Segment(text)

	require.Len(t, res.Chunks, 1)
	assert.Equal(t, 17, res.Chunks[0].DeclaredID)
}

func TestSegmentMultiByteSize(t *testing.T) {
	text := `__d(function(g,r,i,a,m,e,d){var s="héllo→";},1,[]);`

	res := Segment(text)

	require.Len(t, res.Chunks, 1)
	code := res.Chunks[0].Code
	assert.Equal(t, int64(len([]byte(code))), res.Chunks[0].Size())
	assert.Greater(t, res.Chunks[0].Size(), int64(len([]rune(code))))
}

func TestSegmentCapsUnterminatedBody(t *testing.T) {
	text := `__d(function(g){},1,[` + strings.Repeat("{", MaxSpan*2)

	res := Segment(text)

	require.Len(t, res.Chunks, 1)
	assert.True(t, res.Chunks[0].Structural)
	open := strings.Index(text, "{") - len(Marker)
	assert.Equal(t, int64(len(Marker)+open+MaxSpan), res.Chunks[0].Size())
}

func TestSegmentCapsUnterminatedSizeOnly(t *testing.T) {
	text := `__d(function(g,r,i,a,m,e,d){` + strings.Repeat("{", MaxSpan*2)

	res := Segment(text)

	require.Len(t, res.Chunks, 1)
	assert.False(t, res.Chunks[0].Structural)
	assert.Equal(t, int64(len(Marker)+MaxSpan), res.Chunks[0].Size())
}

func TestSegmentSizeOnlyFallback(t *testing.T) {
	// Arrow factories do not match the strict head
	text := `__d((g,r)=>{var a=1},5,[]);__d((g,r)=>{var b=2});`

	res := Segment(text)

	require.Len(t, res.Chunks, 2)
	assert.Equal(t, schema.SizeOnlySegments, res.Mode)

	assert.False(t, res.Chunks[0].Structural)
	assert.Equal(t, 5, res.Chunks[0].DeclaredID)
	assert.True(t, res.Chunks[0].HasDeclaredID)
	assert.Equal(t, `__d((g,r)=>{var a=1},5,[])`, res.Chunks[0].Code)

	assert.False(t, res.Chunks[1].HasDeclaredID)
	assert.Equal(t, 1, res.Chunks[1].DeclaredID)
}

func TestSegmentMixed(t *testing.T) {
	text := `__d(function(g){},0,[]);__d((g)=>{},1,[]);`

	res := Segment(text)

	require.Len(t, res.Chunks, 2)
	assert.Equal(t, schema.MixedSegments, res.Mode)
	assert.True(t, res.Chunks[0].Structural)
	assert.False(t, res.Chunks[1].Structural)
	assert.Equal(t, 1, res.Chunks[1].DeclaredID)
}

func TestSegmentNoMarker(t *testing.T) {
	for _, text := range []string{"", "garbage", "function(){},1,[]"} {
		res := Segment(text)
		assert.NotNil(t, res.Chunks)
		assert.Empty(t, res.Chunks)
		assert.Equal(t, schema.NoSegments, res.Mode)
	}
}

func TestSegmentContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SegmentContext(ctx, `__d(function(g){},1,[]);`)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		start     int
		bodyClose int
		end       int
	}{
		{"balanced then closer", "{a}),", 0, 2, 4},
		{"mixed delimiters", "{[(x)]})", 0, 6, 8},
		{"string hides closer", `{")"})`, 0, 4, 6},
		{"escape outside string", `{\}})`, 0, 3, 5},
		{"unterminated", "{{{", 0, -1, -1},
		{"closer first", ")", 0, -1, 1},
		{"unterminated string", `{"abc})`, 0, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scan(tt.input, tt.start)
			assert.Equal(t, tt.bodyClose, got.bodyClose)
			assert.Equal(t, tt.end, got.end)
		})
	}
}

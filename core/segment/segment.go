// Package segment splits a bundle into module units by scanning for the
// registration marker and balancing delimiters to find each factory end.
package segment

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/bundlescope/schema"
)

const (
	// Marker precedes every module factory in the bundle.
	Marker = "__d("

	// MaxSpan bounds how far past the body open a module may extend
	// when no closing delimiter is found.
	MaxSpan = 10000
)

var (
	// strictHead is the conventional emission shape: function literal, body, numeric id, comma.
	strictHead = regexp.MustCompile(`^\s*function\s*\([^)]*\)\s*\{[\s\S]*?\}\s*,\s*(\d+)\s*,`)

	// factoryOpen locates the body brace right after the parameter list.
	factoryOpen = regexp.MustCompile(`^\s*function\s*\([^)]*\)\s*\{`)

	// idAfterBody reads the declared id that follows the factory close brace.
	idAfterBody = regexp.MustCompile(`^\s*,\s*(\d+)\s*,`)

	// looseID is the size-only fallback id pattern.
	looseID = regexp.MustCompile(`\}\s*,\s*(\d+)\s*,`)
)

// Chunk is one segmented module occurrence.
type Chunk struct {
	Index         int    // Zero-based emission position
	DeclaredID    int    // Declared id, or Index when none could be read
	HasDeclaredID bool   // False when DeclaredID is the positional stand-in
	Code          string // Marker plus the span up to and including its end
	Structural    bool   // True when the strict head matched
}

// Size is the UTF-8 byte length of the chunk code.
func (c Chunk) Size() int64 {
	return int64(len(c.Code))
}

// Result is the ordered output of one segmentation pass.
type Result struct {
	Chunks []Chunk
	Mode   schema.SegmentMode
}

// Segment splits text into module chunks. It never fails.
func Segment(text string) Result {
	res, _ := SegmentContext(context.Background(), text)
	return res
}

// SegmentContext is Segment with cancellation checked between modules.
func SegmentContext(ctx context.Context, text string) (Result, error) {
	parts := strings.Split(text, Marker)
	if len(parts) < 2 {
		return Result{Chunks: []Chunk{}, Mode: schema.NoSegments}, nil
	}

	// The first part is bundler preamble
	segments := parts[1:]
	chunks := make([]Chunk, 0, len(segments))
	structural := 0
	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		chunk, ok := structuralChunk(i, seg)
		if !ok {
			chunk = sizeOnlyChunk(i, seg)
		} else {
			structural++
		}
		chunks = append(chunks, chunk)
	}

	return Result{Chunks: chunks, Mode: modeFor(structural, len(chunks))}, nil
}

func modeFor(structural, total int) schema.SegmentMode {
	switch {
	case total == 0:
		return schema.NoSegments
	case structural == total:
		return schema.StructuralSegments
	case structural == 0:
		return schema.SizeOnlySegments
	default:
		return schema.MixedSegments
	}
}

// structuralChunk handles a segment whose head matches the emission shape.
func structuralChunk(index int, seg string) (Chunk, bool) {
	head := strictHead.FindStringSubmatch(seg)
	if head == nil {
		return Chunk{}, false
	}
	open := factoryOpen.FindStringIndex(seg)
	if open == nil {
		return Chunk{}, false
	}
	bodyOpen := open[1] - 1

	s := scan(seg, bodyOpen)
	end := s.end
	if end < 0 {
		end = capEnd(seg, bodyOpen)
	}

	// Prefer the id right after the balanced body over the lazy head match,
	// which can stop at an inner "},<n>," inside the body.
	id, err := strconv.Atoi(head[1])
	if s.bodyClose >= 0 {
		if m := idAfterBody.FindStringSubmatch(seg[s.bodyClose+1:]); m != nil {
			id, err = strconv.Atoi(m[1])
		}
	}
	if err != nil {
		return Chunk{}, false
	}

	return Chunk{
		Index:         index,
		DeclaredID:    id,
		HasDeclaredID: true,
		Code:          Marker + seg[:end],
		Structural:    true,
	}, true
}

// sizeOnlyChunk recovers only a size and a best-effort id.
func sizeOnlyChunk(index int, seg string) Chunk {
	s := scan(seg, 0)
	end := s.end
	if end < 0 {
		end = capEnd(seg, 0)
	}
	code := seg[:end]

	chunk := Chunk{Index: index, DeclaredID: index, Code: Marker + code}
	if m := looseID.FindStringSubmatch(code); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			chunk.DeclaredID = id
			chunk.HasDeclaredID = true
		}
	}
	return chunk
}

// capEnd returns the exclusive end of a span with no closing delimiter.
func capEnd(seg string, start int) int {
	return min(len(seg), start+MaxSpan)
}

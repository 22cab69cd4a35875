// Package provenance resolves the best-guess source path of each bundle module.
package provenance

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSources is returned when a position map lacks a sources array.
var ErrNoSources = errors.New("position map has no sources array")

// PositionMap lists original source paths in module emission order.
// Lookups are by chunk index, never by declared module id.
type PositionMap struct {
	sources []string
}

// ParsePositionMap reads the sources array out of a source-map-like JSON document.
// All other fields are ignored.
func ParsePositionMap(text string) (*PositionMap, error) {
	var doc struct {
		Sources *[]string `json:"sources"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parse position map: %w", err)
	}
	if doc.Sources == nil {
		return nil, ErrNoSources
	}
	return &PositionMap{sources: *doc.Sources}, nil
}

// LoadPositionMap is ParsePositionMap that degrades to nil on empty or malformed input.
func LoadPositionMap(text string) *PositionMap {
	if text == "" {
		return nil
	}
	pm, err := ParsePositionMap(text)
	if err != nil {
		return nil
	}
	return pm
}

// Source returns the entry at chunkIndex. It is safe on a nil map.
func (pm *PositionMap) Source(chunkIndex int) (string, bool) {
	if pm == nil || chunkIndex < 0 || chunkIndex >= len(pm.sources) {
		return "", false
	}
	src := pm.sources[chunkIndex]
	if src == "" {
		return "", false
	}
	return src, true
}

// Len returns the number of entries, 0 for a nil map.
func (pm *PositionMap) Len() int {
	if pm == nil {
		return 0
	}
	return len(pm.sources)
}

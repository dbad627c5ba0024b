package model

import (
	"math"
	"strings"
)

// FilterConfig holds the acceptance thresholds for homology records.
// MinGOC / MinWGA of 0 disable the respective check.
type FilterConfig struct {
	Selected           map[string]bool // selected species ids
	MinGOC             float64
	MinWGA             float64
	AllowLowConfidence bool
}

// Accept decides whether one homology record qualifies for clustering.
// Pure predicate, checks are applied in order and the first failure wins.
func (f *FilterConfig) Accept(rec *HomologyRecord) bool {

	// Partner genome has to be part of the analysis.
	if !f.Selected[rec.HomSpecies] {
		return false
	}

	// Unset or missing confidence counts as low confidence.
	if !f.AllowLowConfidence && rec.HighConfidence != 1 {
		return false
	}

	if f.MinWGA > 0 {
		if math.IsNaN(rec.WGACoverage) || rec.WGACoverage < f.MinWGA {
			return false
		}
	}

	if f.MinGOC > 0 {
		if math.IsNaN(rec.GOCScore) || rec.GOCScore < f.MinGOC {
			return false
		}
	}

	// Paralogs and other relation kinds are never clustered here.
	if !strings.HasPrefix(rec.HomologyType, "ortholog") {
		return false
	}

	return true
}

package render

import "math"

// PhaseBuckets is the number of quantized phase steps precomputed for the
// Alternating propagation table. 32 buckets keeps the per-frame cost to one
// table lookup per pixel with no transcendental calls in the hot path.
const PhaseBuckets = 32

// SpatialIndexTable maps a physical pixel index to a propagation-space index
// for one propagation mode. Tables are built once at startup and are
// read-only afterwards; the render pass never recomputes a mapping.
type SpatialIndexTable struct {
	mode PropagationMode

	// flat is the mapping for the four phase-independent modes.
	flat [StripLen]uint8

	// phased is the mapping per quantized phase bucket, used only by
	// PropAlternating.
	phased [PhaseBuckets][StripLen]uint8
}

// NewSpatialIndexTable precomputes the lookup table for one propagation mode.
func NewSpatialIndexTable(mode PropagationMode) *SpatialIndexTable {
	t := &SpatialIndexTable{mode: mode}

	switch mode {
	case PropOutward:
		for p := 0; p < StripLen; p++ {
			t.flat[p] = uint8(outwardIndex(p))
		}
	case PropInward:
		for p := 0; p < StripLen; p++ {
			t.flat[p] = uint8(HalfLen - 1 - outwardIndex(p))
		}
	case PropLeftToRight:
		for p := 0; p < StripLen; p++ {
			t.flat[p] = uint8(p)
		}
	case PropRightToLeft:
		for p := 0; p < StripLen; p++ {
			t.flat[p] = uint8(StripLen - 1 - p)
		}
	case PropAlternating:
		for b := 0; b < PhaseBuckets; b++ {
			phase := 2 * math.Pi * float64(b) / PhaseBuckets
			for p := 0; p < StripLen; p++ {
				s := (math.Sin(2*math.Pi*float64(p)/StripLen+phase) + 1) / 2
				t.phased[b][p] = uint8(math.Round(s * (StripLen - 1)))
			}
		}
	}
	return t
}

// outwardIndex is the CENTER ORIGIN distance mapping. The left half measures
// distance back from pixel 79; the right half measures distance forward from
// pixel 79 clamped to the half-length, so pixel 80 sits at distance 1 and both
// strip ends land on the outermost index 79.
func outwardIndex(p int) int {
	var d int
	if p <= CenterLow {
		d = CenterLow - p
	} else {
		d = p - CenterLow
	}
	if d > HalfLen-1 {
		d = HalfLen - 1
	}
	return d
}

// Mode returns the propagation mode this table was built for.
func (t *SpatialIndexTable) Mode() PropagationMode { return t.mode }

// Lookup returns the propagation-space index for physical pixel p. bucket is
// the quantized phase bucket for the current frame; it is ignored by the
// phase-independent modes.
func (t *SpatialIndexTable) Lookup(p, bucket int) int {
	if t.mode == PropAlternating {
		return int(t.phased[bucket&(PhaseBuckets-1)][p])
	}
	return int(t.flat[p])
}

// phaseBucket quantizes the frame clock into an Alternating phase bucket.
// The phase advances deterministically with elapsed time scaled by speed;
// there is no mutable phase accumulator anywhere.
func phaseBucket(t FrameTime, speed uint8) int {
	// One full phase revolution every periodMs, where speed 0 is slowest
	// (8s) and speed 255 fastest (~250ms).
	periodMs := uint64(8000) / (1 + uint64(speed)/8)
	ticks := uint64(t.Millis) * PhaseBuckets / periodMs
	return int(ticks % PhaseBuckets)
}

// tableSet is the full set of precomputed tables, one per propagation mode.
type tableSet [numPropagationModes]*SpatialIndexTable

func newTableSet() tableSet {
	var s tableSet
	for m := PropagationMode(0); m < numPropagationModes; m++ {
		s[m] = NewSpatialIndexTable(m)
	}
	return s
}

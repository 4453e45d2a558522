package render

import "time"

// VisualParams are the four normalized effect controls. They are immutable
// for the duration of a frame; effects only ever read them.
type VisualParams struct {
	Intensity  uint8
	Saturation uint8
	Complexity uint8
	Variation  uint8
}

// SyncMode describes the relationship between strip 1's and strip 2's
// rendered content. Exactly one is active at a time.
type SyncMode uint8

const (
	// SyncIndependent renders strip 2 with its own configuration.
	SyncIndependent SyncMode = iota
	// SyncSynchronized renders identical content on both strips.
	SyncSynchronized
	// SyncMirrored reverses strip 1's content onto strip 2.
	SyncMirrored
	// SyncChase delays strip 2 behind strip 1 by a fixed frame count.
	SyncChase

	numSyncModes
)

// String returns the wire name of the sync mode.
func (m SyncMode) String() string {
	switch m {
	case SyncIndependent:
		return "INDEPENDENT"
	case SyncSynchronized:
		return "SYNCHRONIZED"
	case SyncMirrored:
		return "MIRRORED"
	case SyncChase:
		return "CHASE"
	}
	return "UNKNOWN"
}

// ParseSyncMode maps a wire name back to a SyncMode. Unknown names fall back
// to SyncIndependent.
func ParseSyncMode(s string) SyncMode {
	switch s {
	case "SYNCHRONIZED":
		return SyncSynchronized
	case "MIRRORED":
		return SyncMirrored
	case "CHASE":
		return SyncChase
	default:
		return SyncIndependent
	}
}

// PropagationMode is the spatial pattern by which an effect's phase varies
// across a strip's pixels. Any propagation mode combines with any sync mode;
// all 20 pairs are valid.
type PropagationMode uint8

const (
	// PropOutward radiates from the strip midpoint toward both ends.
	PropOutward PropagationMode = iota
	// PropInward is the exact mirror of PropOutward.
	PropInward
	// PropLeftToRight is the identity mapping.
	PropLeftToRight
	// PropRightToLeft reverses the strip.
	PropRightToLeft
	// PropAlternating follows a time-varying sine remap of the strip.
	PropAlternating

	numPropagationModes
)

// String returns the wire name of the propagation mode.
func (m PropagationMode) String() string {
	switch m {
	case PropOutward:
		return "OUTWARD"
	case PropInward:
		return "INWARD"
	case PropLeftToRight:
		return "LEFT_TO_RIGHT"
	case PropRightToLeft:
		return "RIGHT_TO_LEFT"
	case PropAlternating:
		return "ALTERNATING"
	}
	return "UNKNOWN"
}

// ParsePropagationMode maps a wire name back to a PropagationMode. Unknown
// names fall back to PropOutward.
func ParsePropagationMode(s string) PropagationMode {
	switch s {
	case "INWARD":
		return PropInward
	case "LEFT_TO_RIGHT":
		return PropLeftToRight
	case "RIGHT_TO_LEFT":
		return PropRightToLeft
	case "ALTERNATING":
		return PropAlternating
	default:
		return PropOutward
	}
}

// StripOverride carries strip 2's own configuration. It is consulted only by
// the Independent sync mode; when disabled strip 2 renders with strip 1's
// configuration.
type StripOverride struct {
	Enabled   bool
	EffectID  uint8
	PaletteID uint8
	Params    VisualParams
}

// RenderState is the currently visible configuration. It is owned exclusively
// by the frame scheduler and mutated only through applyTransition or
// applyImmediate; the renderer reads one immutable copy per frame.
type RenderState struct {
	EffectID    uint8
	PaletteID   uint8
	Brightness  uint8
	Speed       uint8
	Params      VisualParams
	Sync        SyncMode
	Propagation PropagationMode
	Strip2      StripOverride
}

// Sanitize clamps untrusted identifiers to the registered ranges. Out-of-range
// effect and palette ids collapse to id 0; mode values collapse to their first
// member. Identifiers arrive from untrusted external surfaces, so this clamp
// is what keeps them out of the renderer entirely.
func (s *RenderState) Sanitize() {
	if s.EffectID >= EffectCount {
		s.EffectID = 0
	}
	if s.PaletteID >= PaletteCount {
		s.PaletteID = 0
	}
	if s.Strip2.EffectID >= EffectCount {
		s.Strip2.EffectID = 0
	}
	if s.Strip2.PaletteID >= PaletteCount {
		s.Strip2.PaletteID = 0
	}
	if s.Sync >= numSyncModes {
		s.Sync = SyncIndependent
	}
	if s.Propagation >= numPropagationModes {
		s.Propagation = PropOutward
	}
}

// DefaultState is the boot configuration before anything is applied.
func DefaultState() RenderState {
	return RenderState{
		EffectID:    0,
		PaletteID:   0,
		Brightness:  180,
		Speed:       128,
		Params:      VisualParams{Intensity: 200, Saturation: 255, Complexity: 128, Variation: 64},
		Sync:        SyncSynchronized,
		Propagation: PropOutward,
	}
}

// ParameterSnapshot is the once-per-frame inbound parameter set from the
// external input/config layer. The core copies it on intake and sanitizes
// identifiers before they can reach an effect.
type ParameterSnapshot struct {
	EffectID    uint8
	PaletteID   uint8
	Brightness  uint8
	Speed       uint8
	Params      VisualParams
	Sync        SyncMode
	Propagation PropagationMode
	Strip2      StripOverride
}

// State converts the snapshot into a RenderState. Callers sanitize the
// result before it participates in rendering.
func (s ParameterSnapshot) State() RenderState {
	return RenderState{
		EffectID:    s.EffectID,
		PaletteID:   s.PaletteID,
		Brightness:  s.Brightness,
		Speed:       s.Speed,
		Params:      s.Params,
		Sync:        s.Sync,
		Propagation: s.Propagation,
		Strip2:      s.Strip2,
	}
}

// FrameTime is the deterministic clock handed to every render call. Effects
// derive all phase from it; nothing in the pipeline keeps free-running
// accumulators, so a given (state, FrameTime) pair always renders the same
// frame.
type FrameTime struct {
	// Millis is elapsed wall-clock time since engine start, in milliseconds.
	Millis uint32
	// Frame is the frame counter since engine start.
	Frame uint64
}

// FrameTimeAt builds a FrameTime from a start reference and the current time.
func FrameTimeAt(start, now time.Time, frame uint64) FrameTime {
	return FrameTime{
		Millis: uint32(now.Sub(start) / time.Millisecond),
		Frame:  frame,
	}
}

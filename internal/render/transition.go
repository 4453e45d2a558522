package render

import "time"

// TransitionType selects how the source and target configurations blend.
type TransitionType string

const (
	// TransitionCrossfade is a per-pixel blend of the two rendered frames.
	TransitionCrossfade TransitionType = "CROSSFADE"
	// TransitionMorph blends the numeric parameters and renders one pass,
	// so effect identity never double-exposes.
	TransitionMorph TransitionType = "MORPH"
	// TransitionWipeOut reveals the target from the strip midpoint outward.
	TransitionWipeOut TransitionType = "WIPE_OUT"
	// TransitionWipeIn reveals the target from the strip ends inward.
	TransitionWipeIn TransitionType = "WIPE_IN"
	// TransitionDissolve reveals the target pixel-by-pixel in seeded order.
	TransitionDissolve TransitionType = "DISSOLVE"
	// TransitionMelt is a wipe from the ends with a seeded per-pixel droop.
	TransitionMelt TransitionType = "MELT"
	// TransitionPhaseShift is a crossfade whose blend factor is skewed by
	// distance from the midpoint.
	TransitionPhaseShift TransitionType = "PHASE_SHIFT"
	// TransitionShatter reveals the target through a seeded threshold mask
	// weighted to radiate from the midpoint.
	TransitionShatter TransitionType = "SHATTER"
)

// TransitionTypes lists every registered transition type in wire order.
var TransitionTypes = []TransitionType{
	TransitionCrossfade,
	TransitionMorph,
	TransitionWipeOut,
	TransitionWipeIn,
	TransitionDissolve,
	TransitionMelt,
	TransitionPhaseShift,
	TransitionShatter,
}

// ParseTransitionType maps a wire name to a TransitionType. Unknown names
// fall back to TransitionCrossfade.
func ParseTransitionType(s string) TransitionType {
	for _, t := range TransitionTypes {
		if string(t) == s {
			return t
		}
	}
	return TransitionCrossfade
}

// TransitionSpec describes a requested blend.
type TransitionSpec struct {
	Type     TransitionType
	Duration time.Duration
	Easing   EasingType
}

// transitionPhase is the blend state machine position.
type transitionPhase uint8

const (
	phaseIdle transitionPhase = iota
	phaseInitializing
	phaseBlending
)

// Transition is the state machine blending two full render configurations
// over a fixed wall-clock window. While blending it renders both
// configurations through their own spatial engines and combines the frames
// per type; numeric parameters interpolate continuously, while discrete
// fields (effect, palette, modes) switch exactly once at the halfway point.
type Transition struct {
	phase  transitionPhase
	spec   TransitionSpec
	source RenderState
	target RenderState

	startMs  uint32
	seed     uint32
	progress float64
	switched bool
}

// NewTransition returns an idle transition.
func NewTransition() *Transition {
	return &Transition{}
}

// Active reports whether a blend is in flight.
func (tr *Transition) Active() bool { return tr.phase != phaseIdle }

// Progress returns the current blend progress in [0,1].
func (tr *Transition) Progress() float64 { return tr.progress }

// Type returns the active transition type.
func (tr *Transition) Type() TransitionType { return tr.spec.Type }

// Target returns the configuration the blend is heading to.
func (tr *Transition) Target() RenderState { return tr.target }

// Begin arms a blend from source to target. The start time is latched on the
// first Step call, not here, so the first blended frame renders at progress 0.
func (tr *Transition) Begin(source, target RenderState, spec TransitionSpec) {
	if spec.Type == "" {
		spec.Type = TransitionCrossfade
	}
	if spec.Easing == "" {
		spec.Easing = EasingInOutQuad
	}
	tr.phase = phaseInitializing
	tr.spec = spec
	tr.source = source
	tr.target = target
	tr.progress = 0
	tr.switched = false
}

// Cancel re-arms the blend toward a new target, anchoring the new source at
// the currently visible blended configuration so the picture never tears.
func (tr *Transition) Cancel(newTarget RenderState, spec TransitionSpec) {
	tr.Begin(tr.VisibleState(), newTarget, spec)
}

// reset returns the machine to idle.
func (tr *Transition) reset() {
	tr.phase = phaseIdle
	tr.progress = 0
	tr.switched = false
}

// VisibleState is the configuration of the frame currently on the strips:
// numeric fields interpolated to the current progress, discrete fields
// following the one-shot halfway switch. Used for captureState and as the
// cancellation anchor.
func (tr *Transition) VisibleState() RenderState {
	if tr.phase == phaseIdle {
		return tr.target
	}
	return tr.blendedState(ApplyEasing(tr.progress, tr.spec.Easing))
}

// blendedState interpolates numeric fields by t and picks discrete fields
// per the switch flag.
func (tr *Transition) blendedState(t float64) RenderState {
	st := tr.source
	if tr.switched {
		st.EffectID = tr.target.EffectID
		st.PaletteID = tr.target.PaletteID
		st.Sync = tr.target.Sync
		st.Propagation = tr.target.Propagation
		st.Strip2 = tr.target.Strip2
	}
	st.Brightness = lerp8(tr.source.Brightness, tr.target.Brightness, t)
	st.Speed = lerp8(tr.source.Speed, tr.target.Speed, t)
	st.Params = VisualParams{
		Intensity:  lerp8(tr.source.Params.Intensity, tr.target.Params.Intensity, t),
		Saturation: lerp8(tr.source.Params.Saturation, tr.target.Params.Saturation, t),
		Complexity: lerp8(tr.source.Params.Complexity, tr.target.Params.Complexity, t),
		Variation:  lerp8(tr.source.Params.Variation, tr.target.Params.Variation, t),
	}
	return st
}

// Step advances the blend one frame and renders the combined output. srcEng
// and tgtEng are the spatial engines owning the source and target passes
// (each keeps its own chase history); bufSrc and bufTgt are scratch frames.
// It returns true when the blend has completed, after which the caller
// promotes the target state and engine.
func (tr *Transition) Step(now FrameTime, srcEng, tgtEng *Engine, bufSrc, bufTgt, out Buffer) bool {
	if tr.phase == phaseInitializing {
		tr.startMs = now.Millis
		tr.seed = now.Millis | 1
		tr.phase = phaseBlending
	}

	p := tr.progressAt(now)
	// progress is monotonic within one transition
	if p < tr.progress {
		p = tr.progress
	}
	tr.progress = p

	if !tr.switched && p >= 0.5 {
		tr.switched = true
	}

	eased := ApplyEasing(p, tr.spec.Easing)

	switch tr.spec.Type {
	case TransitionMorph:
		st := tr.blendedState(eased)
		srcEng.RenderFrame(&st, now, out)

	case TransitionCrossfade:
		srcEng.RenderFrame(&tr.source, now, bufSrc)
		tgtEng.RenderFrame(&tr.target, now, bufTgt)
		BlendBuffer(out, bufSrc, bufTgt, eased)

	case TransitionPhaseShift:
		srcEng.RenderFrame(&tr.source, now, bufSrc)
		tgtEng.RenderFrame(&tr.target, now, bufTgt)
		for i := range out {
			// skewed by center distance; reaches exactly 1 at progress 1
			skew := clamp01(p*1.3 - 0.3*centerRatio(i)*(1-p))
			out[i] = BlendPixel(bufSrc[i], bufTgt[i], ApplyEasing(skew, EasingInOutCubic))
		}

	default:
		srcEng.RenderFrame(&tr.source, now, bufSrc)
		tgtEng.RenderFrame(&tr.target, now, bufTgt)
		for i := range out {
			if tr.maskShowsTarget(i, p) {
				out[i] = bufTgt[i]
			} else {
				out[i] = bufSrc[i]
			}
		}
	}

	return p >= 1
}

// progressAt computes clamped progress from the latched start time.
func (tr *Transition) progressAt(now FrameTime) float64 {
	durMs := tr.spec.Duration.Milliseconds()
	if durMs <= 0 {
		return 1
	}
	elapsed := int64(now.Millis - tr.startMs)
	return clamp01(float64(elapsed) / float64(durMs))
}

// maskShowsTarget decides, purely from progress and position (plus the
// latched seed), whether pixel i already shows the target frame. Every mask
// shows the full target at progress 1.
func (tr *Transition) maskShowsTarget(i int, progress float64) bool {
	if progress >= 1 {
		return true
	}
	ratio := centerRatio(i)
	switch tr.spec.Type {
	case TransitionWipeOut:
		return ratio <= progress
	case TransitionWipeIn:
		return 1-ratio <= progress
	case TransitionDissolve:
		return hash01(tr.seed, uint32(i)) <= progress
	case TransitionMelt:
		droop := (hash01(tr.seed*3+1, uint32(i)) - 0.5) * 0.15
		return clamp01(1-ratio+droop) <= progress
	case TransitionShatter:
		threshold := hash01(tr.seed, uint32(i))*0.7 + ratio*0.3
		return threshold <= progress
	default:
		return progress >= 0.5
	}
}

// centerRatio is pixel i's distance from its strip's midpoint, normalized to
// [0,1]. Positions are taken within the pixel's own strip so both strips
// wipe from their own centers.
func centerRatio(i int) float64 {
	p := i % StripLen
	var d int
	if p <= CenterLow {
		d = CenterLow - p
	} else {
		d = p - CenterHigh
	}
	return float64(d) / float64(HalfLen-1)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

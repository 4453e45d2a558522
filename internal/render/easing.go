package render

import "math"

// EasingType selects the curve applied to transition progress.
type EasingType string

const (
	// EasingLinear provides constant rate of change.
	EasingLinear EasingType = "LINEAR"
	// EasingInOutQuad provides gentle acceleration and deceleration.
	EasingInOutQuad EasingType = "EASE_IN_OUT_QUAD"
	// EasingInOutCubic provides stronger acceleration and deceleration.
	EasingInOutCubic EasingType = "EASE_IN_OUT_CUBIC"
	// EasingInOutSine provides sine wave easing.
	EasingInOutSine EasingType = "EASE_IN_OUT_SINE"
	// EasingOutExponential provides sharp start, smooth end.
	EasingOutExponential EasingType = "EASE_OUT_EXPONENTIAL"
	// EasingSCurve provides sigmoid easing.
	EasingSCurve EasingType = "S_CURVE"
)

// ApplyEasing applies an easing curve to a progress value in [0,1].
func ApplyEasing(progress float64, easing EasingType) float64 {
	switch easing {
	case EasingLinear:
		return progress

	case EasingInOutQuad:
		if progress < 0.5 {
			return 2 * progress * progress
		}
		temp := -2*progress + 2
		return 1 - temp*temp/2

	case EasingInOutCubic:
		if progress < 0.5 {
			return 4 * progress * progress * progress
		}
		temp := -2*progress + 2
		return 1 - temp*temp*temp/2

	case EasingInOutSine:
		return -(math.Cos(math.Pi*progress) - 1) / 2

	case EasingOutExponential:
		if progress == 1 {
			return 1
		}
		return 1 - math.Pow(2, -10*progress)

	case EasingSCurve:
		k := 10.0
		return 1 / (1 + math.Exp(-k*(progress-0.5)))

	default:
		return progress
	}
}

// Interpolate eases progress and interpolates between start and end.
func Interpolate(start, end, progress float64, easing EasingType) float64 {
	if easing == "" {
		easing = EasingInOutQuad
	}
	return start + (end-start)*ApplyEasing(progress, easing)
}

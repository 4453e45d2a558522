package render

import (
	"fmt"
	"math"
)

// EffectCount is the number of registered effect ids (0..EffectCount-1).
// Snapshot intake clamps anything outside this range to id 0 before it can
// reach the renderer.
const EffectCount = 113

// EffectContext carries the per-frame, read-only inputs an effect may use.
// Effects are pure: identical context and index always produce an identical
// pixel, with all phase derived from Time rather than mutable state.
type EffectContext struct {
	Params    VisualParams
	PaletteID uint8
	Speed     uint8
	Time      FrameTime
}

// EffectFunc renders one pixel given a propagation-space index in
// [0, StripLen) and the frame context. It must not allocate, block, or touch
// hidden state.
type EffectFunc func(idx int, ctx *EffectContext) Pixel

// RenderEffect dispatches to the registered effect table. The id is expected
// to be sanitized already; the clamp here is a backstop, not the boundary.
func RenderEffect(id uint8, idx int, ctx *EffectContext) Pixel {
	if id >= EffectCount {
		id = 0
	}
	return effectTable[id](idx, ctx)
}

// EffectName returns the catalog name for an effect id.
func EffectName(id uint8) string {
	if id >= EffectCount {
		id = 0
	}
	if id == 0 {
		return "Solid"
	}
	family := int(id-1) % len(effectFamilies)
	variant := int(id-1)/len(effectFamilies) + 1
	return fmt.Sprintf("%s %d", effectFamilies[family].name, variant)
}

// effectFamily is one parameterized effect algorithm; the registry fills the
// id space with variants of each family.
type effectFamily struct {
	name string
	make func(variant int) EffectFunc
}

var effectFamilies = []effectFamily{
	{"Gradient", gradientEffect},
	{"Wave", waveEffect},
	{"Pulse", pulseEffect},
	{"Breathe", breatheEffect},
	{"Comet", cometEffect},
	{"Sparkle", sparkleEffect},
	{"Plasma", plasmaEffect},
	{"Interference", interferenceEffect},
	{"Dot Chase", dotChaseEffect},
	{"Ripple", rippleEffect},
}

var effectTable = buildEffectTable()

// buildEffectTable assembles the closed effect registry: id 0 is the solid
// fallback every invalid id collapses to, the rest are family variants.
func buildEffectTable() [EffectCount]EffectFunc {
	var t [EffectCount]EffectFunc
	t[0] = solidEffect
	for id := 1; id < EffectCount; id++ {
		family := (id - 1) % len(effectFamilies)
		variant := (id - 1) / len(effectFamilies)
		t[id] = effectFamilies[family].make(variant)
	}
	return t
}

// effectPhase converts the frame clock into radians, scaled by speed.
// Speed 0 is ~0.1 cycles/s, 255 is ~4 cycles/s.
func effectPhase(t FrameTime, speed uint8) float64 {
	cps := 0.1 + float64(speed)/66.0
	return 2 * math.Pi * cps * float64(t.Millis) / 1000.0
}

// hash01 is a deterministic per-pixel hash in [0,1). It is the only source
// of "randomness" in the pipeline, so seeded output is reproducible.
func hash01(seed uint32, n uint32) float64 {
	x := seed ^ (n * 2654435761)
	x ^= x >> 16
	x *= 2246822519
	x ^= x >> 13
	x *= 3266489917
	x ^= x >> 16
	return float64(x) / float64(math.MaxUint32+1.0)
}

// applySaturation pulls a color toward white as saturation drops.
func applySaturation(p Pixel, saturation uint8) Pixel {
	if saturation == 255 {
		return p
	}
	white := Pixel{255, 255, 255}
	return BlendPixel(white, p, float64(saturation)/255.0)
}

// solidEffect is effect id 0: the whole strip holds one palette color chosen
// by the variation parameter.
func solidEffect(_ int, ctx *EffectContext) Pixel {
	p := SamplePalette(ctx.PaletteID, ctx.Params.Variation)
	p = applySaturation(p, ctx.Params.Saturation)
	return p.Scale(ctx.Params.Intensity)
}

func gradientEffect(variant int) EffectFunc {
	stretch := 1 + variant
	return func(idx int, ctx *EffectContext) Pixel {
		phase := effectPhase(ctx.Time, ctx.Speed)
		scroll := int(phase * 40.6) // ~256 positions per radian-scaled cycle
		pos := uint8((idx*stretch*256/StripLen + scroll + int(ctx.Params.Variation)) & 0xFF)
		p := SamplePalette(ctx.PaletteID, pos)
		p = applySaturation(p, ctx.Params.Saturation)
		return p.Scale(ctx.Params.Intensity)
	}
}

func waveEffect(variant int) EffectFunc {
	return func(idx int, ctx *EffectContext) Pixel {
		harmonics := 1 + int(ctx.Params.Complexity)/64 + variant
		phase := effectPhase(ctx.Time, ctx.Speed)
		w := math.Sin(2*math.Pi*float64(idx*harmonics)/StripLen + phase)
		level := (w + 1) / 2
		pos := uint8(int(ctx.Params.Variation) + idx*256/StripLen)
		p := SamplePalette(ctx.PaletteID, pos)
		p = applySaturation(p, ctx.Params.Saturation)
		return p.Scale(uint8(level * float64(ctx.Params.Intensity)))
	}
}

func pulseEffect(variant int) EffectFunc {
	rate := 1.0 + float64(variant)*0.5
	return func(idx int, ctx *EffectContext) Pixel {
		phase := effectPhase(ctx.Time, ctx.Speed) * rate
		depth := float64(ctx.Params.Intensity) / 255.0
		level := 1 - depth*(math.Cos(phase)+1)/2
		pos := uint8(int(ctx.Params.Variation) + idx/4)
		p := SamplePalette(ctx.PaletteID, pos)
		p = applySaturation(p, ctx.Params.Saturation)
		return p.Scale(clampChannel(level * 255))
	}
}

func breatheEffect(variant int) EffectFunc {
	return func(idx int, ctx *EffectContext) Pixel {
		phase := effectPhase(ctx.Time, ctx.Speed) / (2 + float64(variant))
		level := (math.Sin(phase) + 1) / 2
		// gamma curve keeps the bottom of the breath dark
		level = level * level
		p := SamplePalette(ctx.PaletteID, ctx.Params.Variation)
		p = applySaturation(p, ctx.Params.Saturation)
		return p.Scale(uint8(level * float64(ctx.Params.Intensity)))
	}
}

func cometEffect(variant int) EffectFunc {
	tail := 8.0 + float64(variant)*6
	return func(idx int, ctx *EffectContext) Pixel {
		phase := effectPhase(ctx.Time, ctx.Speed)
		head := math.Mod(phase/(2*math.Pi), 1) * StripLen
		dist := head - float64(idx)
		if dist < 0 {
			dist += StripLen
		}
		level := math.Exp(-dist / tail)
		pos := uint8(int(ctx.Params.Variation) + int(dist)*2)
		p := SamplePalette(ctx.PaletteID, pos)
		p = applySaturation(p, ctx.Params.Saturation)
		return p.Scale(uint8(level * float64(ctx.Params.Intensity)))
	}
}

func sparkleEffect(variant int) EffectFunc {
	return func(idx int, ctx *EffectContext) Pixel {
		// re-roll each pixel every 100ms bucket; density follows intensity
		bucket := uint32(ctx.Time.Millis / 100)
		roll := hash01(bucket+uint32(variant)*7919, uint32(idx))
		density := 0.02 + float64(ctx.Params.Intensity)/255.0*0.25
		if roll >= density {
			return Pixel{}
		}
		pos := uint8(int(ctx.Params.Variation) + int(roll*255))
		p := SamplePalette(ctx.PaletteID, pos)
		return applySaturation(p, ctx.Params.Saturation)
	}
}

func plasmaEffect(variant int) EffectFunc {
	return func(idx int, ctx *EffectContext) Pixel {
		phase := effectPhase(ctx.Time, ctx.Speed)
		f1 := 1.0 + float64(ctx.Params.Complexity)/96.0
		f2 := 2.3 + float64(variant)*0.7
		x := float64(idx) / StripLen
		v := math.Sin(2*math.Pi*f1*x+phase) + math.Sin(2*math.Pi*f2*x-phase*0.7)
		level := (v + 2) / 4
		pos := uint8(int(level*255) + int(ctx.Params.Variation))
		p := SamplePalette(ctx.PaletteID, pos)
		p = applySaturation(p, ctx.Params.Saturation)
		return p.Scale(ctx.Params.Intensity)
	}
}

func interferenceEffect(variant int) EffectFunc {
	return func(idx int, ctx *EffectContext) Pixel {
		phase := effectPhase(ctx.Time, ctx.Speed)
		k := 2 + float64(ctx.Params.Complexity)/64 + float64(variant)
		x := float64(idx) / StripLen
		// two waves travelling in opposite directions
		v := math.Sin(2*math.Pi*k*x+phase) + math.Sin(2*math.Pi*k*x-phase)
		level := math.Abs(v) / 2
		pos := uint8(int(ctx.Params.Variation) + idx*2)
		p := SamplePalette(ctx.PaletteID, pos)
		p = applySaturation(p, ctx.Params.Saturation)
		return p.Scale(uint8(level * float64(ctx.Params.Intensity)))
	}
}

func dotChaseEffect(variant int) EffectFunc {
	return func(idx int, ctx *EffectContext) Pixel {
		spacing := 4 + int(ctx.Params.Complexity)/32 + variant
		phase := effectPhase(ctx.Time, ctx.Speed)
		offset := int(phase*4) % spacing
		if offset < 0 {
			offset += spacing
		}
		if (idx+offset)%spacing != 0 {
			return Pixel{}
		}
		pos := uint8(int(ctx.Params.Variation) + idx)
		p := SamplePalette(ctx.PaletteID, pos)
		p = applySaturation(p, ctx.Params.Saturation)
		return p.Scale(ctx.Params.Intensity)
	}
}

func rippleEffect(variant int) EffectFunc {
	decay := 24.0 + float64(variant)*8
	return func(idx int, ctx *EffectContext) Pixel {
		phase := effectPhase(ctx.Time, ctx.Speed)
		front := math.Mod(phase/(2*math.Pi), 1) * HalfLen
		dist := math.Abs(float64(idx%HalfLen) - front)
		level := math.Exp(-dist*dist/decay) * (float64(ctx.Params.Intensity) / 255.0)
		pos := uint8(int(ctx.Params.Variation) + int(front*2))
		p := SamplePalette(ctx.PaletteID, pos)
		p = applySaturation(p, ctx.Params.Saturation)
		return p.Scale(clampChannel(level * 255))
	}
}

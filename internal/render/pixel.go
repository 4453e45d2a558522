// Package render implements the real-time rendering core for the dual-strip
// LED controller: pixel buffers, spatial index tables, the effect registry,
// the strip-coupling engine, the transition engine, and the frame scheduler.
package render

// Strip geometry. All spatial effects are defined relative to the physical
// midpoint of each strip (CenterLow/CenterHigh).
const (
	// StripLen is the number of pixels on one physical strip.
	StripLen = 160
	// NumStrips is the number of physical strips driven by the controller.
	NumStrips = 2
	// TotalPixels is the size of one full output frame.
	TotalPixels = StripLen * NumStrips
	// CenterLow and CenterHigh are the two pixels straddling the strip midpoint.
	CenterLow  = 79
	CenterHigh = 80
	// HalfLen is the number of pixels on each side of the midpoint.
	HalfLen = StripLen / 2
)

// Pixel is one LED's color. No alpha channel; writes clamp, never overflow.
type Pixel struct {
	R, G, B uint8
}

// Buffer holds one or both strips' current frame. Its length is fixed at
// construction and never changes; the hot path never allocates.
type Buffer []Pixel

// NewBuffer allocates a buffer of n pixels. Called at startup only.
func NewBuffer(n int) Buffer {
	return make(Buffer, n)
}

// Strip1 returns the first strip's slice of a full two-strip buffer.
func (b Buffer) Strip1() Buffer { return b[:StripLen] }

// Strip2 returns the second strip's slice of a full two-strip buffer.
func (b Buffer) Strip2() Buffer { return b[StripLen:TotalPixels] }

// Fill sets every pixel in the buffer to p.
func (b Buffer) Fill(p Pixel) {
	for i := range b {
		b[i] = p
	}
}

// CopyFrom copies src into b. Lengths must match.
func (b Buffer) CopyFrom(src Buffer) {
	copy(b, src)
}

// Scale multiplies every channel by s/255 in place.
func (b Buffer) Scale(s uint8) {
	if s == 255 {
		return
	}
	for i := range b {
		b[i] = b[i].Scale(s)
	}
}

// Scale returns p with each channel multiplied by s/255.
func (p Pixel) Scale(s uint8) Pixel {
	// +127 rounds to nearest instead of truncating
	return Pixel{
		R: uint8((uint16(p.R)*uint16(s) + 127) / 255),
		G: uint8((uint16(p.G)*uint16(s) + 127) / 255),
		B: uint8((uint16(p.B)*uint16(s) + 127) / 255),
	}
}

// Add returns the saturating sum of two pixels.
func (p Pixel) Add(q Pixel) Pixel {
	return Pixel{
		R: addClamp(p.R, q.R),
		G: addClamp(p.G, q.G),
		B: addClamp(p.B, q.B),
	}
}

// BlendPixel linearly interpolates between a and b. t is clamped to [0,1].
func BlendPixel(a, b Pixel, t float64) Pixel {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return Pixel{
		R: lerp8(a.R, b.R, t),
		G: lerp8(a.G, b.G, t),
		B: lerp8(a.B, b.B, t),
	}
}

// BlendBuffer writes the per-pixel blend of src and dst into out.
func BlendBuffer(out, a, b Buffer, t float64) {
	for i := range out {
		out[i] = BlendPixel(a[i], b[i], t)
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	return clampChannel(v)
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func addClamp(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

package render

// PaletteCount is the number of registered palettes. Palette ids outside
// [0, PaletteCount) are clamped to 0 at snapshot intake.
const PaletteCount = 16

// Palette is a four-stop color gradient sampled across [0,255].
type Palette struct {
	Name  string
	Stops [4]Pixel
}

// Sample returns the palette color at position pos, linearly interpolated
// between the two surrounding stops.
func (pl *Palette) Sample(pos uint8) Pixel {
	// 3 segments of 85 positions each
	seg := int(pos) / 85
	if seg > 2 {
		seg = 2
	}
	local := float64(int(pos)-seg*85) / 85.0
	return BlendPixel(pl.Stops[seg], pl.Stops[seg+1], local)
}

// SamplePalette samples palette id at position pos. The id must already be
// sanitized; a defensive modulo keeps an unexpected value in range anyway.
func SamplePalette(id uint8, pos uint8) Pixel {
	return paletteTable[int(id)%PaletteCount].Sample(pos)
}

// PaletteName returns the display name for a palette id.
func PaletteName(id uint8) string {
	return paletteTable[int(id)%PaletteCount].Name
}

// paletteTable is the registered palette catalog. Index 0 is the safe
// default every invalid id collapses to.
var paletteTable = [PaletteCount]Palette{
	{Name: "Spectrum", Stops: [4]Pixel{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 0, 0}}},
	{Name: "Lava", Stops: [4]Pixel{{0, 0, 0}, {128, 0, 0}, {255, 64, 0}, {255, 255, 128}}},
	{Name: "Ocean", Stops: [4]Pixel{{0, 0, 64}, {0, 64, 160}, {0, 160, 255}, {128, 255, 255}}},
	{Name: "Forest", Stops: [4]Pixel{{0, 32, 0}, {0, 128, 32}, {64, 200, 0}, {200, 255, 128}}},
	{Name: "Sunset", Stops: [4]Pixel{{64, 0, 64}, {255, 0, 64}, {255, 128, 0}, {255, 224, 160}}},
	{Name: "Ice", Stops: [4]Pixel{{0, 0, 32}, {0, 64, 128}, {128, 192, 255}, {255, 255, 255}}},
	{Name: "Neon", Stops: [4]Pixel{{255, 0, 128}, {128, 0, 255}, {0, 128, 255}, {0, 255, 192}}},
	{Name: "Ember", Stops: [4]Pixel{{16, 0, 0}, {96, 16, 0}, {200, 64, 0}, {255, 160, 32}}},
	{Name: "Aurora", Stops: [4]Pixel{{0, 32, 16}, {0, 192, 96}, {64, 96, 255}, {192, 64, 255}}},
	{Name: "Gold", Stops: [4]Pixel{{32, 16, 0}, {160, 96, 0}, {255, 192, 0}, {255, 255, 160}}},
	{Name: "Violet", Stops: [4]Pixel{{16, 0, 32}, {96, 0, 160}, {192, 64, 255}, {255, 192, 255}}},
	{Name: "Mint", Stops: [4]Pixel{{0, 32, 24}, {0, 160, 120}, {96, 255, 200}, {224, 255, 240}}},
	{Name: "Rose", Stops: [4]Pixel{{32, 0, 8}, {160, 0, 48}, {255, 96, 128}, {255, 224, 232}}},
	{Name: "Steel", Stops: [4]Pixel{{8, 8, 16}, {64, 72, 96}, {144, 160, 192}, {224, 232, 255}}},
	{Name: "Citrus", Stops: [4]Pixel{{32, 32, 0}, {160, 160, 0}, {255, 224, 0}, {192, 255, 64}}},
	{Name: "Mono", Stops: [4]Pixel{{0, 0, 0}, {85, 85, 85}, {170, 170, 170}, {255, 255, 255}}},
}

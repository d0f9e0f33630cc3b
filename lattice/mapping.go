package lattice

import "image/color"

// Mapping is the lookup table from symbol to color, indexed by the 2-bit
// value of the symbol.
type Mapping [numSymbols]color.RGBA

// DefaultMapping is the fixed polarization mapping.
var DefaultMapping = Mapping{
	Null:   {0x00, 0x00, 0x00, 0xff}, // No polarization
	AngleX: {0xff, 0x00, 0x00, 0xff}, // 45°
	AngleY: {0x00, 0xff, 0x00, 0xff}, // 90°
	AngleZ: {0x00, 0x00, 0xff, 0xff}, // 135°
}

// Color returns the color for symbol s.
func (m Mapping) Color(s Symbol) color.RGBA {
	return m[s&(numSymbols-1)]
}

// Palette returns the mapping as a color.Palette.
func (m Mapping) Palette() color.Palette {
	p := make(color.Palette, numSymbols)
	for i, c := range m {
		p[i] = c
	}
	return p
}

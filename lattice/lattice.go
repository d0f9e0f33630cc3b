/*
Package lattice implements the encoder that turns a text payload into a square
lattice of voxels.

Every voxel stores two bits of the payload as one of four colors. The payload
is converted to its UTF-8 bytes, each byte contributing eight bits most
significant bit first, followed by a run of zero bits used as ECC padding.
The bits are consumed in pairs and the resulting symbols are laid out in row
major order in the smallest square that can hold them, any unused voxels
being left as NULL.

The ECC padding is only padding; no error correcting code is computed.
*/
package lattice

import (
	"image"
	"image/color"
)

// Symbol is a 2-bit value stored in a single voxel.
type Symbol uint8

// The four symbols, the value of each is the 2-bit chunk it represents.
const (
	Null   Symbol = iota // 00
	AngleX               // 01
	AngleY               // 10
	AngleZ               // 11
)

const numSymbols = 4

var symbolNames = [numSymbols]string{"NULL", "ANGLE_X", "ANGLE_Y", "ANGLE_Z"}

func (s Symbol) String() string {
	if int(s) < numSymbols {
		return symbolNames[s]
	}
	return "INVALID"
}

// Lattice is a square grid of symbols. It implements image.Image with one
// pixel per voxel.
type Lattice struct {
	// Side is the length of each side of the grid
	Side int
	// Symbols holds Side*Side symbols in row-major order
	Symbols []Symbol

	mapping Mapping
	palette color.Palette
}

// Report describes the result of encoding a payload.
type Report struct {
	// Side is the length of each side of the lattice
	Side int
	// BitCount is the number of bits after padding
	BitCount int
	// SymbolCount is the number of symbols before the grid was filled
	SymbolCount int
}

// SymbolAt returns the symbol at column x, row y.
func (l *Lattice) SymbolAt(x, y int) Symbol {
	if !(image.Point{x, y}.In(l.Bounds())) {
		return Null
	}
	return l.Symbols[y*l.Side+x]
}

// ColorModel returns the palette of the mapping used to encode the lattice.
func (l *Lattice) ColorModel() color.Model {
	return l.palette
}

// Bounds returns a Side by Side rectangle anchored at (0, 0).
func (l *Lattice) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.Side, l.Side)
}

// At returns the color of the voxel at column x, row y.
func (l *Lattice) At(x, y int) color.Color {
	return l.palette[l.SymbolAt(x, y)]
}

// Grid returns the lattice as rows of RGB colors.
func (l *Lattice) Grid() [][]color.RGBA {
	grid := make([][]color.RGBA, l.Side)
	for y := range grid {
		grid[y] = make([]color.RGBA, l.Side)
		for x := range grid[y] {
			grid[y][x] = l.mapping.Color(l.Symbols[y*l.Side+x])
		}
	}
	return grid
}

// Paletted returns a copy of the lattice as an image.Paletted where each
// color index is the symbol value.
func (l *Lattice) Paletted() *image.Paletted {
	p := make(color.Palette, len(l.palette))
	copy(p, l.palette)
	m := image.NewPaletted(l.Bounds(), p)
	for i, s := range l.Symbols {
		m.Pix[i] = uint8(s)
	}
	return m
}

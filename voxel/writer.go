package voxel

import (
	"bufio"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

type encoder struct {
	w io.Writer
}

func padPalette(p color.Palette) color.Palette {
	for len(p) < numColors {
		p = append(p, color.RGBA{0, 0, 0, 0xff})
	}
	return p
}

// Paletted converts m into an image.Paletted with no more than four colors.
// If m is not already paletted it is either converted using its own palette
// or reduced with a median cut quantizer.
func Paletted(m image.Image) *image.Paletted {
	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok {
			pm = image.NewPaletted(b, cp)
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					pm.Set(x, y, cp.Convert(m.At(x, y)))
				}
			}
		}
	}

	if pm == nil || len(pm.Palette) > numColors {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, numColors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	return pm
}

func (e *encoder) encode(m *image.Paletted) error {
	side := m.Bounds().Dx()

	bw := bufio.NewWriter(e.w)
	h := crc32.NewIEEE()
	w := io.MultiWriter(bw, h)

	// Write out header
	header := make([]byte, headerSize, headerSize+paletteSize)
	copy(header, magic)
	binary.BigEndian.PutUint32(header[len(magic):], uint32(side))

	// Write out palette, always four colors
	for _, c := range padPalette(m.Palette) {
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		header = append(header, rgba.R, rgba.G, rgba.B)
	}
	if _, err := w.Write(header); err != nil {
		return err
	}

	// Write out voxels, four to a byte
	pix := make([]byte, pixelBytes(side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			i := y*side + x
			shift := uint(voxelsPerByte-1-i%voxelsPerByte) * bitsPerVoxel
			pix[i/voxelsPerByte] |= m.ColorIndexAt(x, y) & (numColors - 1) << shift
		}
	}
	if _, err := w.Write(pix); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.BigEndian, h.Sum32()); err != nil {
		return err
	}

	return bw.Flush()
}

// Encode writes the Image m to w in lattice image format.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() != b.Dy() {
		return errors.New("voxel: image is not square")
	}
	if b.Dx() > maxSide {
		return errTooLarge
	}

	pm := Paletted(m)

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	e := encoder{w: w}

	return e.encode(pm)
}

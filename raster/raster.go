/*
Package raster writes lattices out as image files.

The lossless formats PNG, GIF, BMP and the native voxel format are supported.
Lattices are normally written with one pixel per voxel but can be enlarged
by an integer scale factor for viewing.
*/
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/crystal/voxel"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
)

// Format is an image file format.
type Format int

// Supported formats.
const (
	PNG Format = iota
	GIF
	BMP
	Voxel
)

// ErrUnknownFormat is returned when a format name or file extension isn't
// recognised.
var ErrUnknownFormat = errors.New("raster: unknown format")

var formatNames = map[Format]string{
	PNG:   "png",
	GIF:   "gif",
	BMP:   "bmp",
	Voxel: "voxel",
}

var extensions = map[string]Format{
	".png":   PNG,
	".gif":   GIF,
	".bmp":   BMP,
	".voxel": Voxel,
	".vox":   Voxel,
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the preferred file extension for the format.
func (f Format) Extension() string {
	return "." + f.String()
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromFilename returns the format implied by the extension of file.
func FormatFromFilename(file string) (Format, error) {
	if f, ok := extensions[strings.ToLower(filepath.Ext(file))]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, file)
}

// Scale enlarges m so that each pixel becomes an n by n square. A scale of
// one returns m unchanged.
func Scale(m image.Image, n uint) (image.Image, error) {
	if n == 0 {
		return nil, errors.New("raster: scale must be at least 1")
	}
	b := m.Bounds()
	if n == 1 || b.Empty() {
		return m, nil
	}
	return resize.Resize(uint(b.Dx())*n, uint(b.Dy())*n, m, resize.NearestNeighbor), nil
}

// Encode writes m to w in format f.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		e := png.Encoder{CompressionLevel: png.BestCompression}
		return e.Encode(w, m)
	case GIF:
		return gif.Encode(w, m, &gif.Options{
			NumColors: 4,
			Quantizer: &quantize.MedianCutQuantizer{},
		})
	case BMP:
		return bmp.Encode(w, m)
	case Voxel:
		return voxel.Encode(w, m)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}

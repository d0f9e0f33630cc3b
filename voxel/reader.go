package voxel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"io"
)

var (
	errNotEnough = errors.New("voxel: not enough image data")
	errTooMuch   = errors.New("voxel: too much image data")
	errMagic     = errors.New("voxel: invalid magic")
	errTooLarge  = errors.New("voxel: image is too large")
	errChecksum  = errors.New("voxel: checksum mismatch")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	side    int
	image   *image.Paletted
	palette color.Palette

	tmp [headerSize + paletteSize]byte
}

func (d *decoder) readHeaderAndPalette() error {
	if err := readFull(d.r, d.tmp[:]); err != nil {
		return err
	}

	if !bytes.Equal(d.tmp[:len(magic)], []byte(magic)) {
		return errMagic
	}

	side := binary.BigEndian.Uint32(d.tmp[len(magic):headerSize])
	if side > maxSide {
		return errTooLarge
	}
	d.side = int(side)

	d.palette = make(color.Palette, numColors)
	for i := range d.palette {
		p := d.tmp[headerSize+i*3:]
		d.palette[i] = color.RGBA{p[0], p[1], p[2], 0xff}
	}

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	h := crc32.NewIEEE()
	d.r = io.TeeReader(r, h)

	if err := d.readHeaderAndPalette(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if configOnly {
		return nil
	}

	// Grow the buffer as data arrives rather than trusting the header
	want := int64(pixelBytes(d.side))
	var buf bytes.Buffer
	if n, err := io.CopyN(&buf, d.r, want); n != want {
		if err != nil && err != io.EOF {
			return err
		}
		return errNotEnough
	}
	pix := buf.Bytes()

	sum := h.Sum32()

	// Read the trailer directly so it isn't included in the checksum
	var trailer [trailerSize]byte
	if err := readFull(r, trailer[:]); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}
	if binary.BigEndian.Uint32(trailer[:]) != sum {
		return errChecksum
	}

	if _, err := io.ReadFull(r, trailer[:1]); err != io.EOF {
		if err != nil {
			return err
		}
		return errTooMuch
	}

	d.image = image.NewPaletted(image.Rect(0, 0, d.side, d.side), d.palette)
	for i := range d.image.Pix {
		shift := uint(voxelsPerByte-1-i%voxelsPerByte) * bitsPerVoxel
		d.image.Pix[i] = pix[i/voxelsPerByte] >> shift & (numColors - 1)
	}

	return nil
}

// Decode reads a lattice image from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a lattice image
// without decoding the voxels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.palette,
		Width:      d.side,
		Height:     d.side,
	}, nil
}

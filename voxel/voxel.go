/*
Package voxel implements a decoder and encoder for lattice images.

A lattice image is square and uses no more than four colors so each pixel, or
voxel, is stored as a 2-bit palette index. The file starts with the four byte
magic "VOXL" followed by the length of a side as a big-endian 32-bit value
and a palette of four colors each stored as three bytes of red, green and
blue. The voxels follow in row-major order packed four to a byte with the
first voxel in the two most significant bits, the final byte being padded
with zero bits. The file ends with the big-endian IEEE CRC-32 of everything
that precedes it.
*/
package voxel

import "image"

const (
	magic         = "VOXL"
	headerSize    = len(magic) + 4
	numColors     = 4
	paletteSize   = numColors * 3
	bitsPerVoxel  = 2
	voxelsPerByte = 8 / bitsPerVoxel
	trailerSize   = 4

	// Guard against absurd allocations from a corrupt header
	maxSide = 1 << 15
)

func pixelBytes(side int) int {
	return (side*side + voxelsPerByte - 1) / voxelsPerByte
}

func init() {
	image.RegisterFormat("voxel", magic, Decode, DecodeConfig)
}

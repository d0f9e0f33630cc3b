package crystal

import (
	"errors"
	"image"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/crystal/lattice"
	"github.com/bodgit/crystal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "crystal")
	require.NoError(t, err)
	return dir
}

func newCrystal(t *testing.T, eccBytes int, archive *Archive) *Crystal {
	config := lattice.DefaultConfig()
	config.ECCBytes = eccBytes
	e, err := lattice.NewEncoder(config)
	require.NoError(t, err)
	return New(e, archive, log.New(ioutil.Discard, "", 0))
}

func decodeFile(t *testing.T, file string) (image.Image, string) {
	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	m, format, err := image.Decode(f)
	require.NoError(t, err)
	return m, format
}

func TestWrite(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "crystal_output.png")
	r, err := newCrystal(t, lattice.DefaultECCBytes, nil).Write("A", file, raster.PNG, 1)
	require.NoError(t, err)

	assert.Equal(t, lattice.Report{Side: 12, BitCount: 264, SymbolCount: 132}, r)

	m, format := decodeFile(t, file)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 12, 12), m.Bounds())

	red, _, _, _ := m.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), red)
}

func TestWriteScaled(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "lattice.bmp")
	r, err := newCrystal(t, 0, nil).Write("A", file, raster.BMP, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Side)

	m, format := decodeFile(t, file)
	assert.Equal(t, "bmp", format)
	assert.Equal(t, image.Rect(0, 0, 8, 8), m.Bounds())
}

func TestWriteErrors(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	c := newCrystal(t, 0, nil)

	_, err := c.Write("\xff", filepath.Join(dir, "bad.png"), raster.PNG, 1)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, StageEncode, e.Stage)
	assert.True(t, errors.Is(err, lattice.ErrInvalidInput))

	file := filepath.Join(dir, "missing", "lattice.png")
	_, err = c.Write("A", file, raster.PNG, 1)
	require.True(t, errors.As(err, &e))
	assert.Equal(t, StageWrite, e.Stage)
	assert.Equal(t, file, e.File)
	assert.True(t, os.IsNotExist(errors.Unwrap(err)))
	assert.Contains(t, err.Error(), "write "+file)

	_, err = c.Write("A", filepath.Join(dir, "zero.png"), raster.PNG, 0)
	require.True(t, errors.As(err, &e))
	assert.Equal(t, StageWrite, e.Stage)
}

func TestWriteArchive(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	archive, err := NewArchive(filepath.Join(dir, "crystal.db"))
	require.NoError(t, err)
	defer archive.Close()

	c := newCrystal(t, 1, archive)

	r, err := c.Write("hello", filepath.Join(dir, "one.voxel"), raster.Voxel, 1)
	require.NoError(t, err)

	// Same payload and padding is only stored once
	_, err = c.Write("hello", filepath.Join(dir, "two.png"), raster.PNG, 1)
	require.NoError(t, err)

	entries, err := archive.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, r, entries[0].Report)
	assert.Equal(t, 1, entries[0].ECCBytes)

	m, err := entries[0].Decode()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, r.Side, r.Side), m.Bounds())
}

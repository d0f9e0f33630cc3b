/*
Package crystal is a library for writing text payloads into lattice images,
simulating the write path of 5D optical storage.
*/
package crystal

import (
	"fmt"
	"log"
	"os"

	"github.com/bodgit/crystal/lattice"
	"github.com/bodgit/crystal/raster"
)

// Stages at which writing a lattice can fail.
const (
	StageRead    = "read"
	StageEncode  = "encode"
	StageWrite   = "write"
	StageArchive = "archive"
)

// Error records the stage and file that failed.
type Error struct {
	Stage string
	File  string
	Err   error
}

func (e *Error) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.File, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Crystal struct {
	encoder *lattice.Encoder
	archive *Archive
	logger  *log.Logger
}

// New returns a Crystal using encoder to create lattices. If archive is not
// nil every lattice written is also stored in it.
func New(encoder *lattice.Encoder, archive *Archive, logger *log.Logger) *Crystal {
	return &Crystal{
		encoder: encoder,
		archive: archive,
		logger:  logger,
	}
}

func writeFile(file string, m *lattice.Lattice, f raster.Format, scale uint) error {
	s, err := raster.Scale(m, scale)
	if err != nil {
		return err
	}

	w, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := raster.Encode(w, s, f); err != nil {
		w.Close()
		return err
	}

	return w.Close()
}

// Write encodes text into a lattice and writes it to file in format f with
// each voxel enlarged to scale by scale pixels.
func (c *Crystal) Write(text, file string, f raster.Format, scale uint) (lattice.Report, error) {
	l, r, err := c.encoder.Encode(text)
	if err != nil {
		return lattice.Report{}, &Error{Stage: StageEncode, Err: err}
	}

	if err := writeFile(file, l, f, scale); err != nil {
		return lattice.Report{}, &Error{Stage: StageWrite, File: file, Err: err}
	}

	c.logger.Printf("Wrote %dx%d lattice of %d symbols to \"%s\"\n", r.Side, r.Side, r.SymbolCount, file)

	if c.archive != nil {
		id, err := c.archive.Store(text, c.encoder.ECCBytes(), l, r)
		if err != nil {
			return lattice.Report{}, &Error{Stage: StageArchive, File: file, Err: err}
		}
		c.logger.Printf("Archived \"%s\" as entry %d\n", file, id)
	}

	return r, nil
}

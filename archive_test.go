package crystal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bodgit/crystal/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "crystal.db")
	archive, err := NewArchive(file)
	require.NoError(t, err)

	e, err := lattice.NewEncoder(lattice.DefaultConfig())
	require.NoError(t, err)

	l, r, err := e.Encode("A")
	require.NoError(t, err)

	id, err := archive.Store("A", lattice.DefaultECCBytes, l, r)
	require.NoError(t, err)

	again, err := archive.Store("A", lattice.DefaultECCBytes, l, r)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	other, err := archive.Store("A", 0, l, r)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	entry, err := archive.Find("A", lattice.DefaultECCBytes)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, r, entry.Report)
	assert.Equal(t, "6DCD4CE23D88E2EE9568BA546C007C63D9131C1B", entry.SHA1)

	entry, err = archive.Find("B", lattice.DefaultECCBytes)
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.NoError(t, archive.Close())

	// Entries survive reopening
	archive, err = NewArchive(file)
	require.NoError(t, err)
	defer archive.Close()

	entries, err := archive.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, other, entries[1].ID)

	m, err := entries[0].Decode()
	require.NoError(t, err)
	for y := 0; y < l.Side; y++ {
		for x := 0; x < l.Side; x++ {
			lr, lg, lb, _ := l.At(x, y).RGBA()
			mr, mg, mb, _ := m.At(x, y).RGBA()
			assert.Equal(t, [3]uint32{lr, lg, lb}, [3]uint32{mr, mg, mb})
		}
	}
}

func TestArchiveConcurrentStore(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	archive, err := NewArchive(filepath.Join(dir, "crystal.db"))
	require.NoError(t, err)
	defer archive.Close()

	e, err := lattice.NewEncoder(lattice.DefaultConfig())
	require.NoError(t, err)

	const (
		workers  = 10
		payloads = 50
	)

	ids := make([][]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			ids[w] = make([]int64, payloads)
			for i := 0; i < payloads; i++ {
				text := fmt.Sprintf("payload %d", i)
				l, r, err := e.Encode(text)
				if err != nil {
					errs[w] = err
					return
				}
				if ids[w][i], err = archive.Store(text, lattice.DefaultECCBytes, l, r); err != nil {
					errs[w] = err
					return
				}
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		require.NoError(t, errs[w])
		// Every worker sees the same ID for the same payload
		assert.Equal(t, ids[0], ids[w])
	}

	entries, err := archive.List()
	require.NoError(t, err)
	assert.Len(t, entries, payloads)
}

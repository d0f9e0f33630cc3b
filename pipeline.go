package crystal

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/crystal/raster"
)

const (
	payloadExt = ".txt"
	numWorkers = 10
)

func (c *Crystal) findPayloads(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || filepath.Ext(file) != payloadExt {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func readPayload(file string) (string, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return "", &Error{Stage: StageRead, File: file, Err: err}
	}
	return string(b), nil
}

func (c *Crystal) payloadWorker(ctx context.Context, in <-chan string, f raster.Format, scale uint) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			text, err := readPayload(file)
			if err != nil {
				errc <- err
				return
			}

			out := strings.TrimSuffix(file, payloadExt) + f.Extension()
			if _, err := c.Write(text, out, f, scale); err != nil {
				errc <- err
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch encodes every .txt file found under path, writing each lattice
// alongside its payload in format f.
func (c *Crystal) Batch(path string, f raster.Format, scale uint) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findPayloads(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errc, err := c.payloadWorker(ctx, files, f, scale)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}

package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/bodgit/crystal"
	"github.com/bodgit/crystal/lattice"
	"github.com/bodgit/crystal/raster"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
)

const defaultOutput = "crystal_output.png"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newCrystal(c *cli.Context) (*crystal.Crystal, func() error, error) {
	config := lattice.DefaultConfig()
	config.ECCBytes = c.Int("ecc")

	encoder, err := lattice.NewEncoder(config)
	if err != nil {
		return nil, nil, err
	}

	if c.String("db") == "" {
		return crystal.New(encoder, nil, newLogger(c)), func() error { return nil }, nil
	}

	archive, err := crystal.NewArchive(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	return crystal.New(encoder, archive, newLogger(c)), archive.Close, nil
}

func format(c *cli.Context, file string) (raster.Format, error) {
	if c.IsSet("format") {
		return raster.ParseFormat(c.String("format"))
	}
	return raster.FormatFromFilename(file)
}

func scale(c *cli.Context) (uint, error) {
	if n := c.Uint("scale"); n > 0 {
		return n, nil
	}
	return 0, errors.New("scale must be at least 1")
}

func newApp(stdout io.Writer) *cli.App {
	app := cli.NewApp()

	app.Name = "crystal"
	app.Usage = "Project Crystal 5D optical storage lattice encoder"
	app.Version = "1.0.0"
	app.Writer = stdout

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "ecc",
			EnvVars: []string{"CRYSTAL_ECC_BYTES"},
			Value:   lattice.DefaultECCBytes,
			Usage:   "bytes of ECC padding appended to each payload",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"CRYSTAL_DB"},
			Usage:   "path to lattice archive",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	formatFlag := &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "image format; png, gif, bmp or voxel",
	}
	scaleFlag := &cli.UintFlag{
		Name:    "scale",
		Aliases: []string{"s"},
		Value:   1,
		Usage:   "size in pixels of each voxel",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "write",
			Usage:       "Encode text into a lattice image",
			Description: "",
			ArgsUsage:   "TEXT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Value:   defaultOutput,
					Usage:   "output image filename",
				},
				formatFlag,
				scaleFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				file := c.String("out")

				f, err := format(c, file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				n, err := scale(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, done, err := newCrystal(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				r, err := m.Write(c.Args().First(), file, f, n)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Fprintf(c.App.Writer, "[SUCCESS] Lattice generated: %s\n", file)
				fmt.Fprintf(c.App.Writer, "[INFO] Dimensions: %dx%d voxels\n", r.Side, r.Side)
				fmt.Fprintf(c.App.Writer, "[INFO] Total bits stored: %d\n", r.BitCount)

				return nil
			},
		},
		{
			Name:        "batch",
			Usage:       "Encode every .txt file in a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				formatFlag,
				scaleFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f := raster.PNG
				if c.IsSet("format") {
					var err error
					if f, err = raster.ParseFormat(c.String("format")); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				n, err := scale(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, done, err := newCrystal(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := m.Batch(c.Args().First(), f, n); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List lattices held in the archive",
			Description: "",
			Action: func(c *cli.Context) error {
				if c.String("db") == "" {
					return cli.NewExitError("no archive; use --db or CRYSTAL_DB", 1)
				}

				archive, err := crystal.NewArchive(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer archive.Close()

				entries, err := archive.List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, e := range entries {
					fmt.Fprintf(c.App.Writer, "%d\t%s\tecc=%d\t%dx%d\tbits=%d\tsymbols=%d\n", e.ID, e.SHA1, e.ECCBytes, e.Report.Side, e.Report.Side, e.Report.BitCount, e.Report.SymbolCount)
				}

				return nil
			},
		},
		{
			Name:        "inspect",
			Usage:       "Show the dimensions of a lattice image",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				config, format, err := image.DecodeConfig(f)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Fprintf(c.App.Writer, "[INFO] Format: %s\n", format)
				fmt.Fprintf(c.App.Writer, "[INFO] Dimensions: %dx%d pixels\n", config.Width, config.Height)

				return nil
			},
		},
	}

	return app
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

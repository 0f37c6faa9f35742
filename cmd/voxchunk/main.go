// Command voxchunk inspects, extracts from, and writes voxchunk image
// containers, grounded in dargueta-disko/cmd's cli.App{Commands: ...}
// shape, built on github.com/urfave/cli/v2.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/kdalton/voxchunk"
	"github.com/kdalton/voxchunk/internal/config"
	"github.com/kdalton/voxchunk/internal/vlog"
)

func main() {
	app := &cli.App{
		Name:  "voxchunk",
		Usage: "inspect and extract chunked, block-compressed image containers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a voxchunk TOML config file"},
		},
		Commands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "print a container's descriptor",
				ArgsUsage: "FILE",
				Action:    inspectCommand,
			},
			{
				Name:      "extract",
				Usage:     "extract a region of interest to a raw output file",
				ArgsUsage: "FILE OUT",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "roi", Usage: "lo_x,lo_y,lo_z,lo_c,lo_t:hi_x,hi_y,hi_z,hi_c,hi_t (inclusive); default is the full image"},
					&cli.IntFlag{Name: "workers", Usage: "decompression worker count (0 = NumCPU)"},
				},
				Action: extractCommand,
			},
			{
				Name:      "write",
				Usage:     "pack a raw pixel file into a new container",
				ArgsUsage: "RAW OUT",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "extent", Required: true, Usage: "x,y,z,c,t image extent"},
					&cli.StringFlag{Name: "block", Required: true, Usage: "x,y,z,c,t block extent"},
					&cli.StringFlag{Name: "pixel-type", Value: "uint8", Usage: "uint8|int8|uint16|int16|uint32|int32|uint64|int64|float32|float64"},
					&cli.StringFlag{Name: "compression", Value: "zstd", Usage: "none|zstd"},
					&cli.IntFlag{Name: "workers", Usage: "compression worker count (0 = NumCPU)"},
				},
				Action: writeCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func loadLogger(c *cli.Context) vlog.Logger {
	path := c.String("config")
	if path == "" {
		return vlog.Nop{}
	}
	cfg, err := config.Load(path)
	if err != nil || cfg.LogFile == "" {
		return vlog.Nop{}
	}
	return vlog.New(vlog.Config{Path: cfg.LogFile, Gate: vlog.Info})
}

func inspectCommand(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("inspect: expected exactly one FILE argument")
	}
	path := c.Args().Get(0)

	r, err := voxchunk.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	d := r.Descriptor()
	fmt.Printf("%s\n", path)
	fmt.Printf("  extent (x,y,z,c,t): %v\n", d.Extent)
	fmt.Printf("  block  (x,y,z,c,t): %v\n", d.Block)
	fmt.Printf("  pixel type:         %s\n", d.PixelType)
	fmt.Printf("  compression:        %s\n", d.Compression)
	fmt.Printf("  metadata bytes:     %s\n", humanize.Bytes(uint64(len(d.Metadata))))

	offsets := r.Offsets()
	if len(offsets) > 1 {
		total := offsets[len(offsets)-1] - offsets[0]
		fmt.Printf("  blocks:             %d (%s compressed)\n", len(offsets)-1, humanize.Bytes(total))
	}
	return nil
}

func extractCommand(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("extract: expected FILE and OUT arguments")
	}
	path := c.Args().Get(0)
	outPath := c.Args().Get(1)

	r, err := voxchunk.Open(path, voxchunk.WithReaderWorkerCount(c.Int("workers")), voxchunk.WithReaderLogger(loadLogger(c)))
	if err != nil {
		return err
	}
	defer r.Close()

	d := r.Descriptor()
	roi := voxchunk.Full(d)
	if s := c.String("roi"); s != "" {
		roi, err = parseROI(s)
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
	}

	buf := make([]byte, roi.Count()*uint64(d.PixelType.ByteSize()))
	if err := r.Read(roi, buf); err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("extract: creating %s: %w", outPath, err)
	}
	defer out.Close()
	if _, err := out.Write(buf); err != nil {
		return fmt.Errorf("extract: writing %s: %w", outPath, err)
	}

	fmt.Printf("extracted %s to %s\n", humanize.Bytes(uint64(len(buf))), outPath)
	return nil
}

func writeCommand(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("write: expected RAW and OUT arguments")
	}
	rawPath := c.Args().Get(0)
	outPath := c.Args().Get(1)

	extent, err := parseVec(c.String("extent"))
	if err != nil {
		return fmt.Errorf("write: --extent: %w", err)
	}
	block, err := parseVec(c.String("block"))
	if err != nil {
		return fmt.Errorf("write: --block: %w", err)
	}
	pixelType, err := parsePixelType(c.String("pixel-type"))
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	compression, err := parseCompression(c.String("compression"))
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	src, err := os.ReadFile(rawPath)
	if err != nil {
		return fmt.Errorf("write: reading %s: %w", rawPath, err)
	}

	desc := voxchunk.Descriptor{
		Extent:      extent,
		Block:       block,
		PixelType:   pixelType,
		Compression: compression,
	}

	w, err := voxchunk.Create(outPath, desc, voxchunk.WithWorkerCount(c.Int("workers")), voxchunk.WithLogger(loadLogger(c)))
	if err != nil {
		return err
	}
	if err := w.Write(src); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%s raw) to %s\n", rawPath, humanize.Bytes(uint64(len(src))), outPath)
	return nil
}

func parseVec(s string) ([5]uint32, error) {
	var v [5]uint32
	n, err := fmt.Sscanf(s, "%d,%d,%d,%d,%d", &v[0], &v[1], &v[2], &v[3], &v[4])
	if err != nil || n != 5 {
		return v, fmt.Errorf("malformed vector %q, want x,y,z,c,t", s)
	}
	return v, nil
}

func parsePixelType(s string) (voxchunk.PixelType, error) {
	switch s {
	case "uint8":
		return voxchunk.PixelUint8, nil
	case "int8":
		return voxchunk.PixelInt8, nil
	case "uint16":
		return voxchunk.PixelUint16, nil
	case "int16":
		return voxchunk.PixelInt16, nil
	case "uint32":
		return voxchunk.PixelUint32, nil
	case "int32":
		return voxchunk.PixelInt32, nil
	case "uint64":
		return voxchunk.PixelUint64, nil
	case "int64":
		return voxchunk.PixelInt64, nil
	case "float32":
		return voxchunk.PixelFloat32, nil
	case "float64":
		return voxchunk.PixelFloat64, nil
	default:
		return 0, fmt.Errorf("unrecognized --pixel-type %q", s)
	}
}

func parseCompression(s string) (voxchunk.CompressionType, error) {
	switch s {
	case "none":
		return voxchunk.CompressionNone, nil
	case "zstd":
		return voxchunk.CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unrecognized --compression %q", s)
	}
}

func parseROI(s string) (voxchunk.ROI, error) {
	var lo, hi [5]uint32
	n, err := fmt.Sscanf(s, "%d,%d,%d,%d,%d:%d,%d,%d,%d,%d",
		&lo[0], &lo[1], &lo[2], &lo[3], &lo[4],
		&hi[0], &hi[1], &hi[2], &hi[3], &hi[4])
	if err != nil || n != 10 {
		return voxchunk.ROI{}, fmt.Errorf("malformed --roi %q, want lo_x,...,lo_t:hi_x,...,hi_t", s)
	}
	return voxchunk.Box(lo, hi), nil
}

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/unixpickle/essentials"

	"github.com/ironsheep/pixel-detector/internal/imaging"
	"github.com/ironsheep/pixel-detector/internal/pixelart"
	"github.com/ironsheep/pixel-detector/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type config struct {
	input       string
	output      string
	maxColors   int
	palette     bool
	colors      int
	size        sizeFlag
	scale       int
	gridOverlay string
	mcp         bool
	version     bool
}

func main() {
	// Configure logging to stderr (stdout carries progress or the MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv("PIXEL_DETECTOR_LOG_LEVEL") == "debug" {
		pixelart.Debug = true
		log.Printf("pixel-detector v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg := parseFlags(os.Args[1:])

	switch {
	case cfg.version:
		fmt.Printf("pixel-detector %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
	case cfg.mcp:
		srv := server.New(Version)
		if err := srv.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	default:
		if err := run(cfg, os.Stdout); err != nil {
			log.Fatalf("%v", err)
		}
	}
}

func parseFlags(args []string) *config {
	cfg := &config{}
	fs := flag.NewFlagSet("pixel-detector", flag.ExitOnError)

	fs.StringVar(&cfg.input, "i", "", "path to input image")
	fs.StringVar(&cfg.input, "input", "", "path to input image")
	fs.StringVar(&cfg.output, "o", "output.png", "path to save output image")
	fs.StringVar(&cfg.output, "output", "output.png", "path to save output image")
	fs.IntVar(&cfg.maxColors, "m", pixelart.DefaultMaxColors, "max colors for automatic palette detection")
	fs.IntVar(&cfg.maxColors, "max", pixelart.DefaultMaxColors, "max colors for automatic palette detection")
	fs.BoolVar(&cfg.palette, "p", false, "automatically reduce colors using the elbow method")
	fs.BoolVar(&cfg.palette, "palette", false, "automatically reduce colors using the elbow method")
	fs.IntVar(&cfg.colors, "c", 0, "exact number of colors for output (overrides -p)")
	fs.IntVar(&cfg.colors, "colors", 0, "exact number of colors for output (overrides -p)")
	fs.Var(&cfg.size, "s", `output dimensions as "W H" or WxH`)
	fs.Var(&cfg.size, "size", `output dimensions as "W H" or WxH`)
	fs.IntVar(&cfg.scale, "scale", 1, "nearest-neighbor enlargement of the saved output")
	fs.StringVar(&cfg.gridOverlay, "grid-overlay", "", "also write the detected grid drawn over the input to this path")
	fs.BoolVar(&cfg.mcp, "mcp", false, "run as an MCP server on stdin/stdout")
	fs.BoolVar(&cfg.version, "version", false, "print version information")
	fs.BoolVar(&cfg.version, "v", false, "print version information")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "pixel-detector - recover true-resolution pixel art")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage: pixel-detector -i input.png [-o output.png] [options]")
		fmt.Fprintln(os.Stderr, "       pixel-detector --mcp")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Environment variables:")
		fmt.Fprintln(os.Stderr, "  PIXEL_DETECTOR_LOG_LEVEL=debug    Enable debug logging")
	}

	fs.Parse(args)

	// "-s 64 48" arrives as a one-number size followed by a positional height
	for fs.NArg() > 0 {
		if cfg.size.needsHeight() {
			if err := cfg.size.setHeight(fs.Arg(0)); err != nil {
				fmt.Fprintf(os.Stderr, "invalid value %q for flag -s: %v\n", fs.Arg(0), err)
				fs.Usage()
				os.Exit(2)
			}
			fs.Parse(fs.Args()[1:])
			continue
		}
		fmt.Fprintf(os.Stderr, "unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		os.Exit(2)
	}

	if cfg.size.needsHeight() {
		fmt.Fprintln(os.Stderr, "flag -s needs both a width and a height")
		fs.Usage()
		os.Exit(2)
	}

	return cfg
}

// run executes one CLI conversion, writing progress lines to w.
func run(cfg *config, w io.Writer) error {
	inStat, err := os.Stat(cfg.input)
	if err != nil || inStat.IsDir() {
		fmt.Fprintln(w, "no input")
		return nil
	}

	cache := imaging.NewImageCache()
	img, err := cache.Load(cfg.input)
	if err != nil {
		return err
	}

	opts := pixelart.DefaultOptions()
	opts.Width = cfg.size.width
	opts.Height = cfg.size.height
	opts.Colors = cfg.colors
	opts.AutoPalette = cfg.palette
	if cfg.maxColors != 0 {
		opts.MaxColors = cfg.maxColors
	}

	res, err := pixelart.Process(img, opts)
	if err != nil {
		return err
	}

	if res.Spacing == nil {
		fmt.Fprintf(w, "Resized to %dx%d in %dms\n", opts.Width, opts.Height, res.ResizeDuration.Milliseconds())
	} else {
		fmt.Fprintf(w, "Auto-sized to %dx%d in %dms\n", res.Image.Width(), res.Image.Height(), res.ResizeDuration.Milliseconds())
	}
	if res.Colors > 0 {
		if res.AutoColors {
			fmt.Fprintf(w, "Auto-reduced to %d colors\n", res.Colors)
		} else {
			fmt.Fprintf(w, "Quantizing to exactly %d colors\n", res.Colors)
		}
		fmt.Fprintf(w, "Color reduction completed in %dms\n", res.PaletteDuration.Milliseconds())
	}

	if err := imaging.Save(res.Image.Scale(cfg.scale), cfg.output); err != nil {
		return err
	}

	if cfg.gridOverlay != "" {
		if err := writeGridOverlay(img, res.Image, cfg.gridOverlay); err != nil {
			return err
		}
	}

	outStat, err := os.Stat(cfg.output)
	essentials.Must(err)
	fmt.Fprintf(w, "%s -> %s (%d colors)\n",
		humanize.Bytes(uint64(inStat.Size())),
		humanize.Bytes(uint64(outStat.Size())),
		len(res.Image.Palette()))

	return nil
}

// writeGridOverlay draws the grid actually used for out over the source image.
func writeGridOverlay(src, out *pixelart.Image, path string) error {
	overlay, err := imaging.DrawGridOverlay(src, out.Width(), out.Height(), 1, false, imaging.DefaultGridColor)
	if err != nil {
		return err
	}
	return imaging.Save(&pixelart.Image{NRGBA: overlay, HasAlpha: src.HasAlpha}, path)
}

// sizeFlag parses output dimensions given as "W H", "WxH" or "W,H".
// A lone width is accepted so that the height can follow as its own argument.
type sizeFlag struct {
	width, height int
	set           bool
}

func (s *sizeFlag) String() string {
	if !s.set {
		return ""
	}
	return fmt.Sprintf("%dx%d", s.width, s.height)
}

func (s *sizeFlag) Set(value string) error {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == 'x' || r == 'X' || r == ','
	})
	if len(fields) < 1 || len(fields) > 2 {
		return fmt.Errorf("want width and height")
	}

	w, err := strconv.Atoi(fields[0])
	if err != nil {
		return err
	}
	s.width, s.height, s.set = w, 0, true

	if len(fields) == 2 {
		return s.setHeight(fields[1])
	}
	return nil
}

func (s *sizeFlag) needsHeight() bool {
	return s.set && s.height == 0
}

func (s *sizeFlag) setHeight(value string) error {
	h, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	if h == 0 {
		return fmt.Errorf("height must be non-zero")
	}
	s.height = h
	return nil
}

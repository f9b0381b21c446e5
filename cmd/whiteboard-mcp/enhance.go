package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ironsheep/whiteboard-tools-mcp/internal/config"
	"github.com/ironsheep/whiteboard-tools-mcp/internal/imaging"
	"github.com/ironsheep/whiteboard-tools-mcp/internal/ocr"
	"github.com/ironsheep/whiteboard-tools-mcp/internal/whiteboard"
)

// enhanceOptions holds the parsed flags of the enhance subcommand.
type enhanceOptions struct {
	in, out string
	ocr     bool
	script  *whiteboard.Script
}

// parseEnhanceFlags parses the enhance flags into a Script. Range checks are
// left to Script.Validate.
func parseEnhanceFlags(args []string, stderr io.Writer) (*enhanceOptions, error) {
	opts := &enhanceOptions{script: whiteboard.NewScript()}
	s := opts.script

	fs := flag.NewFlagSet("enhance", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.in, "in", "", "input photo (required)")
	fs.StringVar(&opts.out, "out", "", "output file; the format follows the extension (default: <in>_clean.<ext>)")
	fs.BoolVar(&opts.ocr, "ocr", false, "print the text of the cleaned board")

	fs.Func("corners", `board corners clockwise from top-left: "x,y x,y x,y x,y"`, func(v string) error {
		q, err := whiteboard.ParseCorners(v)
		if err != nil {
			return err
		}
		s.SetCoordinates(q[0], q[1], q[2], q[3])
		return nil
	})
	fs.Func("enhance", "none, stretch, whitebalance or both (default stretch)", func(v string) error {
		e, err := whiteboard.ParseEnhancement(v)
		if err != nil {
			return err
		}
		s.Enhance = e
		return nil
	})
	fs.Func("bg", "background color: name, #RRGGBB or none (default white)", func(v string) error {
		c, err := whiteboard.ParseColor(v)
		if err != nil {
			return err
		}
		s.BackgroundColor = c
		return nil
	})
	fs.Func("aspect", `board width:height, e.g. "4:3" (default: estimated)`, func(v string) error {
		r, err := whiteboard.ParseAspectRatio(v)
		if err != nil {
			return err
		}
		s.AspectRatio = &r
		return nil
	})
	fs.Func("dimensions", `output size WIDTHxHEIGHT, e.g. "1600x1200"`, func(v string) error {
		g, err := whiteboard.ParseGeometry(v)
		if err != nil {
			return err
		}
		s.Dimensions = &g
		return nil
	})

	fs.IntVar(&s.FilterSize, "filter-size", s.FilterSize, "stroke neighborhood size in pixels")
	filterOffset := fs.Float64("filter-offset", float64(s.FilterOffset), "stroke offset in percent")
	saturation := fs.Float64("saturation", float64(s.Saturation), "saturation in percent")
	whiteBalance := fs.Float64("white-balance", float64(s.WhiteBalance), "percent of brightest pixels taken as white")
	threshold := fs.Float64("threshold", float64(s.Threshold), "force pixels above this intensity percent to white (0 = off)")
	fs.Float64Var(&s.SharpeningAmount, "sharpen", s.SharpeningAmount, "sharpening sigma (0 = off)")
	fs.Float64Var(&s.Magnification, "magnification", s.Magnification, "output scale factor")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.in == "" {
		return nil, errors.New("-in is required")
	}

	s.FilterOffset = whiteboard.Percentage(*filterOffset)
	s.Saturation = whiteboard.Percentage(*saturation)
	s.WhiteBalance = whiteboard.Percentage(*whiteBalance)
	s.Threshold = whiteboard.Percentage(*threshold)

	if opts.out == "" {
		opts.out = imaging.DerivedPath(opts.in, filepath.Dir(opts.in), "_clean", "")
	}
	return opts, nil
}

// runEnhance implements the enhance subcommand.
func runEnhance(args []string, cfg config.Config, stdout, stderr io.Writer) error {
	opts, err := parseEnhanceFlags(args, stderr)
	if err != nil {
		return err
	}

	img, err := imaging.NewImageCache().Load(opts.in)
	if err != nil {
		return err
	}

	out, err := opts.script.Execute(img)
	if err != nil {
		return err
	}

	saved, err := imaging.Save(out, opts.out, cfg.JPEGQuality)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%dx%d %s)\n", saved.Path, saved.Width, saved.Height, saved.Format)

	if opts.ocr {
		text, err := ocr.ExtractTextFromImage(out, cfg.OCRLanguage)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, text.FullText)
	}
	return nil
}

package server

import (
	"encoding/json"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/whiteboard-tools-mcp/internal/imaging"
	"github.com/ironsheep/whiteboard-tools-mcp/internal/ocr"
	"github.com/ironsheep/whiteboard-tools-mcp/internal/whiteboard"
)

// scriptArgs are the cleanup parameters shared by the whiteboard_* tools.
// Pointer fields distinguish "not given" from an explicit zero.
type scriptArgs struct {
	Corners          []whiteboard.Point `json:"corners"`
	Enhance          string             `json:"enhance"`
	BackgroundColor  string             `json:"background_color"`
	FilterSize       *int               `json:"filter_size"`
	FilterOffset     *float64           `json:"filter_offset"`
	Saturation       *float64           `json:"saturation"`
	WhiteBalance     *float64           `json:"white_balance"`
	Threshold        *float64           `json:"threshold"`
	SharpeningAmount *float64           `json:"sharpening_amount"`
	Magnification    *float64           `json:"magnification"`
	AspectRatio      string             `json:"aspect_ratio"`
	Dimensions       string             `json:"dimensions"`
}

// script builds a Script from the arguments on top of the defaults. Range
// checks are left to Script.Validate.
func (a *scriptArgs) script() (*whiteboard.Script, error) {
	s := whiteboard.NewScript()

	if len(a.Corners) > 0 {
		if len(a.Corners) != 4 {
			return nil, invalidParamsf("corners needs 4 points, got %d", len(a.Corners))
		}
		s.SetCoordinates(a.Corners[0], a.Corners[1], a.Corners[2], a.Corners[3])
	}
	if a.Enhance != "" {
		e, err := whiteboard.ParseEnhancement(a.Enhance)
		if err != nil {
			return nil, invalidParams(err)
		}
		s.Enhance = e
	}
	if a.BackgroundColor != "" {
		c, err := whiteboard.ParseColor(a.BackgroundColor)
		if err != nil {
			return nil, invalidParams(err)
		}
		s.BackgroundColor = c
	}
	if a.FilterSize != nil {
		s.FilterSize = *a.FilterSize
	}
	if a.FilterOffset != nil {
		s.FilterOffset = whiteboard.Percentage(*a.FilterOffset)
	}
	if a.Saturation != nil {
		s.Saturation = whiteboard.Percentage(*a.Saturation)
	}
	if a.WhiteBalance != nil {
		s.WhiteBalance = whiteboard.Percentage(*a.WhiteBalance)
	}
	if a.Threshold != nil {
		s.Threshold = whiteboard.Percentage(*a.Threshold)
	}
	if a.SharpeningAmount != nil {
		s.SharpeningAmount = *a.SharpeningAmount
	}
	if a.Magnification != nil {
		s.Magnification = *a.Magnification
	}
	if a.AspectRatio != "" {
		r, err := whiteboard.ParseAspectRatio(a.AspectRatio)
		if err != nil {
			return nil, invalidParams(err)
		}
		s.AspectRatio = &r
	}
	if a.Dimensions != "" {
		g, err := whiteboard.ParseGeometry(a.Dimensions)
		if err != nil {
			return nil, invalidParams(err)
		}
		s.Dimensions = &g
	}
	return s, nil
}

// scriptParams is the JSON view of a Script.
type scriptParams struct {
	Corners          []whiteboard.Point `json:"corners,omitempty"`
	Enhance          string             `json:"enhance"`
	BackgroundColor  string             `json:"background_color"`
	FilterSize       int                `json:"filter_size"`
	FilterOffset     float64            `json:"filter_offset"`
	Saturation       float64            `json:"saturation"`
	WhiteBalance     float64            `json:"white_balance"`
	Threshold        float64            `json:"threshold"`
	SharpeningAmount float64            `json:"sharpening_amount"`
	Magnification    float64            `json:"magnification"`
	AspectRatio      string             `json:"aspect_ratio,omitempty"`
	Dimensions       string             `json:"dimensions,omitempty"`
}

func describeScript(s *whiteboard.Script) scriptParams {
	p := scriptParams{
		Enhance:          s.Enhance.String(),
		BackgroundColor:  whiteboard.FormatColor(s.BackgroundColor),
		FilterSize:       s.FilterSize,
		FilterOffset:     float64(s.FilterOffset),
		Saturation:       float64(s.Saturation),
		WhiteBalance:     float64(s.WhiteBalance),
		Threshold:        float64(s.Threshold),
		SharpeningAmount: s.SharpeningAmount,
		Magnification:    s.Magnification,
	}
	if q, ok := s.Coordinates(); ok {
		p.Corners = q[:]
	}
	if s.AspectRatio != nil {
		p.AspectRatio = fmt.Sprintf("%g:%g", s.AspectRatio.X, s.AspectRatio.Y)
	}
	if s.Dimensions != nil {
		p.Dimensions = fmt.Sprintf("%dx%d", s.Dimensions.Width, s.Dimensions.Height)
	}
	return p
}

// enhance loads path through the cache and runs script on it.
func (s *Server) enhance(path string, script *whiteboard.Script) (*image.NRGBA, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := script.Execute(img)
	if err != nil {
		return nil, err
	}
	s.debugf("enhanced %s: %dx%d -> %dx%d in %s", path,
		img.Bounds().Dx(), img.Bounds().Dy(), out.Bounds().Dx(), out.Bounds().Dy(),
		time.Since(start).Round(time.Millisecond))
	return out, nil
}

// === Whiteboard Cleanup Handlers ===

func (s *Server) handleWhiteboardDefaults(args json.RawMessage) (interface{}, error) {
	return describeScript(whiteboard.NewScript()), nil
}

type whiteboardEnhanceArgs struct {
	scriptArgs
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	Format     string `json:"format"`
}

// EnhanceResult is returned by whiteboard_enhance. Exactly one of Output and
// Image is set.
type EnhanceResult struct {
	Input      string               `json:"input"`
	Width      int                  `json:"width"`
	Height     int                  `json:"height"`
	Output     *imaging.SavedImage  `json:"output,omitempty"`
	Image      *imaging.ImageResult `json:"image,omitempty"`
	Parameters scriptParams         `json:"parameters"`
}

func (s *Server) handleWhiteboardEnhance(args json.RawMessage) (interface{}, error) {
	var a whiteboardEnhanceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = "png"
	}
	if a.OutputPath == "" && a.Format != "png" && a.Format != "jpeg" {
		return nil, invalidParamsf("format must be png or jpeg, got %q", a.Format)
	}
	if a.OutputPath != "" && filepath.Clean(a.OutputPath) == filepath.Clean(a.Path) {
		return nil, invalidParamsf("output_path would overwrite the input %s", a.Path)
	}

	script, err := a.script()
	if err != nil {
		return nil, err
	}

	out, err := s.enhance(a.Path, script)
	if err != nil {
		return nil, err
	}

	result := &EnhanceResult{
		Input:      a.Path,
		Width:      out.Bounds().Dx(),
		Height:     out.Bounds().Dy(),
		Parameters: describeScript(script),
	}
	if a.OutputPath != "" {
		result.Output, err = imaging.Save(out, a.OutputPath, s.cfg.JPEGQuality)
	} else {
		result.Image, err = imaging.Encode(out, a.Format, s.cfg.JPEGQuality)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

type whiteboardEnhanceBatchArgs struct {
	scriptArgs
	Paths     []string `json:"paths"`
	OutputDir string   `json:"output_dir"`
	Suffix    *string  `json:"suffix"`
	Format    string   `json:"format"`
}

// BatchItem is the outcome for one input of whiteboard_enhance_batch.
type BatchItem struct {
	Input  string              `json:"input"`
	Output *imaging.SavedImage `json:"output,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// BatchResult is returned by whiteboard_enhance_batch. Results are in input
// order.
type BatchResult struct {
	Results    []BatchItem  `json:"results"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Elapsed    string       `json:"elapsed"`
	Parameters scriptParams `json:"parameters"`
}

func (s *Server) handleWhiteboardEnhanceBatch(args json.RawMessage) (interface{}, error) {
	var a whiteboardEnhanceBatchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, invalidParamsf("paths is required")
	}
	suffix := "_clean"
	if a.Suffix != nil {
		suffix = *a.Suffix
	}
	ext := strings.TrimPrefix(a.Format, ".")

	script, err := a.script()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]BatchItem, len(a.Paths))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, path := range a.Paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = s.enhanceToFile(path, script, a.OutputDir, suffix, ext)
			return nil
		})
	}
	// Failures are recorded per item; the group itself never fails.
	_ = g.Wait()

	batch := &BatchResult{
		Results:    results,
		Elapsed:    time.Since(start).Round(time.Millisecond).String(),
		Parameters: describeScript(script),
	}
	for _, r := range results {
		if r.Error != "" {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
	}
	s.debugf("batch of %d: %d succeeded, %d failed in %s", len(results), batch.Succeeded, batch.Failed, batch.Elapsed)
	return batch, nil
}

// enhanceToFile runs script on one batch input and saves the result. The
// decoded input is evicted from the cache afterwards since batch inputs are
// rarely revisited.
func (s *Server) enhanceToFile(path string, script *whiteboard.Script, dir, suffix, ext string) BatchItem {
	item := BatchItem{Input: path}
	defer s.cache.Evict(path)

	if path == "" {
		item.Error = "empty path"
		return item
	}
	if dir == "" {
		dir = filepath.Dir(path)
	}
	target := imaging.DerivedPath(path, dir, suffix, ext)
	if filepath.Clean(target) == filepath.Clean(path) {
		item.Error = "output would overwrite input; set suffix or output_dir"
		return item
	}

	out, err := s.enhance(path, script)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	saved, err := imaging.Save(out, target, s.cfg.JPEGQuality)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	item.Output = saved
	return item
}

type whiteboardOCRArgs struct {
	scriptArgs
	Path     string `json:"path"`
	Language string `json:"language"`
}

// WhiteboardOCRResult is returned by whiteboard_ocr. Word boxes are in the
// coordinates of the enhanced image.
type WhiteboardOCRResult struct {
	*ocr.OCRResult
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Parameters scriptParams `json:"parameters"`
}

func (s *Server) handleWhiteboardOCR(args json.RawMessage) (interface{}, error) {
	var a whiteboardOCRArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = s.cfg.OCRLanguage
	}

	script, err := a.script()
	if err != nil {
		return nil, err
	}

	out, err := s.enhance(a.Path, script)
	if err != nil {
		return nil, err
	}

	text, err := ocr.ExtractTextFromImage(out, a.Language)
	if err != nil {
		return nil, err
	}
	return &WhiteboardOCRResult{
		OCRResult:  text,
		Width:      out.Bounds().Dx(),
		Height:     out.Bounds().Dy(),
		Parameters: describeScript(script),
	}, nil
}

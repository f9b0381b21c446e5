package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ImageResult is an encoded image returned inline to the client.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// SavedImage describes an image written to disk.
type SavedImage struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// formats maps the names accepted by Encode to encoder formats.
var formats = map[string]struct {
	format imaging.Format
	mime   string
}{
	"png":  {imaging.PNG, "image/png"},
	"jpeg": {imaging.JPEG, "image/jpeg"},
	"jpg":  {imaging.JPEG, "image/jpeg"},
	"gif":  {imaging.GIF, "image/gif"},
	"bmp":  {imaging.BMP, "image/bmp"},
	"tiff": {imaging.TIFF, "image/tiff"},
	"tif":  {imaging.TIFF, "image/tiff"},
}

// Encode encodes img in the named format ("png", "jpeg", "gif", "bmp" or
// "tiff") and returns it base64-encoded. quality only applies to JPEG.
func Encode(img image.Image, format string, quality int) (*ImageResult, error) {
	f, ok := formats[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f.format, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    f.mime,
	}, nil
}

// Save writes img to path, picking the format from the file extension.
// Missing parent directories are created.
func Save(img image.Image, path string, quality int) (*SavedImage, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return nil, fmt.Errorf("unsupported output file %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	return &SavedImage{
		Path:   path,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Format: strings.ToLower(format.String()),
	}, nil
}

// DerivedPath names the output for input inside dir: the input's base name
// with suffix appended before the extension. ext replaces the extension
// when not empty.
func DerivedPath(input, dir, suffix, ext string) string {
	base := filepath.Base(input)
	oldExt := filepath.Ext(base)
	if ext == "" {
		ext = oldExt
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(dir, strings.TrimSuffix(base, oldExt)+suffix+ext)
}

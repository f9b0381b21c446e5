// Package imaging provides the file-level image plumbing around the
// whiteboard pipeline: decoding and caching photos, sampling colors,
// encoding and saving results, and drawing a coordinate grid used to pick
// board corners.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the
// top-left corner of the image bounds:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their input images.
//
// # Formats
//
// Decoding supports PNG, JPEG, GIF, BMP, TIFF and WebP. Encoding supports
// PNG, JPEG, GIF, BMP and TIFF; Save picks the format from the file
// extension.
package imaging

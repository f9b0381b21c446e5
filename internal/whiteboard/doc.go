// Package whiteboard turns a photograph of a whiteboard into a clean,
// document-like image.
//
// A Script holds the processing parameters. Execute validates them against
// the input image and then runs the pipeline:
//
//  1. Perspective correction of the board quadrilateral (optional)
//  2. Magnification or resize to the requested dimensions
//  3. Shading removal: a local adaptive threshold separates pen strokes from
//     the board, and everything that is not a stroke is painted with the
//     background color
//  4. Saturation boost
//  5. Enhancement (stretch, white balance, both or none)
//  6. Sharpening (optional)
//  7. Threshold to force near-white pixels to white (optional)
//
// # Coordinates
//
// Corners are given clockwise starting at the top-left corner of the board,
// in source image pixels. Sub-pixel values are allowed. A corner is valid
// when 0 <= X <= width and 0 <= Y <= height.
//
// # Errors
//
// All validation happens before any pixel is touched. A nil image returns
// ErrNilImage, invalid output dimensions return ErrInvalidDimensions and any
// other bad parameter returns an *ArgumentError naming the parameter.
//
// # Example
//
//	s := whiteboard.NewScript()
//	s.SetCoordinates(
//	    whiteboard.Point{X: 101, Y: 53}, whiteboard.Point{X: 313, Y: 31},
//	    whiteboard.Point{X: 313, Y: 218}, whiteboard.Point{X: 101, Y: 200},
//	)
//	s.Enhance = whiteboard.EnhanceBoth
//	s.AspectRatio = &whiteboard.Point{X: 4, Y: 3}
//	out, err := s.Execute(img)
package whiteboard

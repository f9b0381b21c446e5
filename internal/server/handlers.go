package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/whiteboard-tools-mcp/internal/imaging"
	"github.com/ironsheep/whiteboard-tools-mcp/internal/whiteboard"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "whiteboard_enhance").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramError marks a tool failure caused by the caller's arguments rather
// than by the tool itself.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(err error) error {
	return &paramError{err: err}
}

func invalidParamsf(format string, a ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, a...)}
}

// isParamError reports whether err was caused by bad arguments, including
// whiteboard parameters that failed validation.
func isParamError(err error) bool {
	var pe *paramError
	var ae *whiteboard.ArgumentError
	return errors.As(err, &pe) ||
		errors.As(err, &ae) ||
		errors.Is(err, whiteboard.ErrInvalidDimensions)
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Invalid arguments return a JSON-RPC error with code -32602; other tool
// failures return code -32000. The error text is in the data field.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("tool %s failed: %v", params.Name, err)
		if isParamError(err) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/whiteboard/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Input Inspection
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_grid_overlay":
		return s.handleImageGridOverlay(args)

	// Whiteboard Cleanup
	case "whiteboard_defaults":
		return s.handleWhiteboardDefaults(args)
	case "whiteboard_enhance":
		return s.handleWhiteboardEnhance(args)
	case "whiteboard_enhance_batch":
		return s.handleWhiteboardEnhanceBatch(args)
	case "whiteboard_ocr":
		return s.handleWhiteboardOCR(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating absent arguments as an
// empty object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return invalidParams(err)
	}
	return nil
}

func requirePath(path string) error {
	if path == "" {
		return invalidParamsf("path is required")
	}
	return nil
}

// === Input Inspection Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Radius int    `json:"radius"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	result, err := imaging.SampleColor(img, a.X, a.Y, a.Radius)
	if err != nil {
		return nil, invalidParams(err)
	}
	return result, nil
}

type imageGridOverlayArgs struct {
	Path            string             `json:"path"`
	GridSpacing     int                `json:"grid_spacing"`
	ShowCoordinates *bool              `json:"show_coordinates"`
	GridColor       string             `json:"grid_color"`
	Corners         []whiteboard.Point `json:"corners"`
}

// outlineColor is used for the board outline drawn by image_grid_overlay.
var outlineColor = color.NRGBA{R: 0, G: 200, B: 0, A: 255}

func (s *Server) handleImageGridOverlay(args json.RawMessage) (interface{}, error) {
	var a imageGridOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	if a.GridSpacing == 0 {
		a.GridSpacing = 50
	}
	if a.GridSpacing < 0 {
		return nil, invalidParamsf("grid_spacing must be positive: %d", a.GridSpacing)
	}
	if a.GridColor == "" {
		a.GridColor = "#FF000080"
	}
	showCoordinates := true
	if a.ShowCoordinates != nil {
		showCoordinates = *a.ShowCoordinates
	}

	gridColor, err := whiteboard.ParseColor(a.GridColor)
	if err != nil {
		return nil, invalidParams(err)
	}

	var outline []image.Point
	if len(a.Corners) > 0 {
		if len(a.Corners) != 4 {
			return nil, invalidParamsf("corners needs 4 points, got %d", len(a.Corners))
		}
		for _, p := range a.Corners {
			outline = append(outline, image.Pt(int(math.Round(p.X)), int(math.Round(p.Y))))
		}
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.GridOverlay(img, imaging.GridOptions{
		Spacing:         a.GridSpacing,
		ShowCoordinates: showCoordinates,
		Color:           gridColor,
		Outline:         outline,
		OutlineColor:    outlineColor,
	})
}

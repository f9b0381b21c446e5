package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestImageFile writes a solid-color PNG into a temporary directory
// and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writeTestImage(t, img, "handler-test.png")
}

func writeTestImage(t *testing.T, img image.Image, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request through handleRequest.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unmarshals the text content of a successful tool call
// into v.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %#v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

// expectToolError checks that resp is a JSON-RPC error with the given code.
func expectToolError(t *testing.T, resp *MCPResponse, code int) {
	t.Helper()

	if resp.Error == nil {
		t.Fatalf("expected error %d, got result %v", code, resp.Result)
	}
	if resp.Error.Code != code {
		t.Errorf("error code: got %d, want %d (data: %v)", resp.Error.Code, code, resp.Error.Data)
	}
}

func decodeBase64PNG(t *testing.T, data string) image.Image {
	t.Helper()

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	return img
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	decodeToolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"})
	expectToolError(t, resp, -32000)
}

func TestHandleToolsCall_MissingPath(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{"image_load", "image_sample_color", "image_grid_overlay", "whiteboard_enhance", "whiteboard_ocr"} {
		t.Run(name, func(t *testing.T) {
			resp := callTool(t, s, name, map[string]interface{}{})
			expectToolError(t, resp, -32602)
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	expectToolError(t, resp, -32000)
	if !strings.Contains(resp.Error.Data.(string), "unknown tool") {
		t.Errorf("unexpected error data: %v", resp.Error.Data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{invalid`),
	})
	expectToolError(t, resp, -32602)
}

func TestHandleToolsCall_WrongArgumentType(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "image_sample_color", map[string]interface{}{"path": "/tmp/x.png", "x": "ten", "y": 1})
	expectToolError(t, resp, -32602)
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 50, 50, color.RGBA{0, 128, 255, 255})

	var result struct {
		Hex string `json:"hex"`
	}
	args := map[string]interface{}{"path": imgPath, "x": 25, "y": 25, "radius": 3}
	decodeToolResult(t, callTool(t, s, "image_sample_color", args), &result)

	if !strings.EqualFold(result.Hex, "#0080FF") {
		t.Errorf("hex: got %s, want #0080FF", result.Hex)
	}
}

func TestHandleToolsCall_SampleColor_OutOfBounds(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 50, 50, color.White)

	resp := callTool(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 50, "y": 0})
	expectToolError(t, resp, -32602)
}

func TestHandleToolsCall_GridOverlay(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 200, 150, color.White)

	var result struct {
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		ImageBase64 string `json:"image_base64"`
		GridSpacing int    `json:"grid_spacing"`
	}
	decodeToolResult(t, callTool(t, s, "image_grid_overlay", map[string]interface{}{"path": imgPath}), &result)

	if result.GridSpacing != 50 {
		t.Errorf("default grid spacing: got %d, want 50", result.GridSpacing)
	}
	img := decodeBase64PNG(t, result.ImageBase64)
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 150 {
		t.Errorf("overlay size: got %v", img.Bounds())
	}
	// Default grid color is semi-transparent red over white.
	r, g, b, _ := img.At(50, 10).RGBA()
	if r>>8 != 255 || g>>8 > 200 || b>>8 > 200 {
		t.Errorf("grid line pixel: got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestHandleToolsCall_GridOverlay_WithCorners(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 200, 150, color.White)

	var result struct {
		ImageBase64 string `json:"image_base64"`
	}
	args := map[string]interface{}{
		"path":             imgPath,
		"grid_spacing":     1000,
		"show_coordinates": false,
		"corners": []map[string]float64{
			{"x": 20, "y": 20}, {"x": 180, "y": 20}, {"x": 180, "y": 130}, {"x": 20, "y": 130},
		},
	}
	decodeToolResult(t, callTool(t, s, "image_grid_overlay", args), &result)

	img := decodeBase64PNG(t, result.ImageBase64)
	r, g, b, _ := img.At(100, 20).RGBA()
	if r>>8 != 0 || g>>8 != 200 || b>>8 != 0 {
		t.Errorf("outline pixel: got (%d,%d,%d), want (0,200,0)", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(100, 75).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("interior pixel should be untouched, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestHandleToolsCall_GridOverlay_InvalidArgs(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 100, 100, color.White)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"negative spacing", map[string]interface{}{"path": imgPath, "grid_spacing": -5}},
		{"bad color", map[string]interface{}{"path": imgPath, "grid_color": "#nothex"}},
		{"three corners", map[string]interface{}{"path": imgPath, "corners": []map[string]float64{{"x": 1, "y": 1}, {"x": 2, "y": 2}, {"x": 3, "y": 3}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectToolError(t, callTool(t, s, "image_grid_overlay", tt.args), -32602)
		})
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{220, 220, 220, 255})
	outDir := t.TempDir()

	// whiteboard_ocr needs Tesseract and is covered separately.
	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"image_load", map[string]interface{}{"path": imgPath}},
		{"image_sample_color", map[string]interface{}{"path": imgPath, "x": 50, "y": 50}},
		{"image_grid_overlay", map[string]interface{}{"path": imgPath}},
		{"whiteboard_defaults", map[string]interface{}{}},
		{"whiteboard_enhance", map[string]interface{}{"path": imgPath}},
		{"whiteboard_enhance_batch", map[string]interface{}{"paths": []string{imgPath}, "output_dir": outDir}},
	}

	for _, tt := range toolTests {
		t.Run(tt.name, func(t *testing.T) {
			argsJSON, _ := json.Marshal(tt.args)
			result, err := s.executeTool(tt.name, argsJSON)
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := newTestServer(t)

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	_, err := s.executeTool("image_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Fatal("executeTool should fail for invalid JSON")
	}
	if !isParamError(err) {
		t.Errorf("invalid JSON should be a parameter error, got %v", err)
	}
}

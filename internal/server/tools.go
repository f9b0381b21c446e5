package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pointSchema describes an {x, y} pixel coordinate.
var pointSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"x": map[string]interface{}{"type": "number"},
		"y": map[string]interface{}{"type": "number"},
	},
	"required": []string{"x", "y"},
}

// cornersSchema describes the four board corners.
var cornersSchema = map[string]interface{}{
	"type":        "array",
	"items":       pointSchema,
	"minItems":    4,
	"maxItems":    4,
	"description": "Board corners in source pixels, clockwise from top-left: [topLeft, topRight, bottomRight, bottomLeft]. Omit to skip perspective correction.",
}

// scriptProperties returns the schema of the whiteboard cleanup parameters
// shared by every whiteboard_* tool. A fresh map is returned on each call so
// callers may add their own properties.
func scriptProperties() map[string]interface{} {
	return map[string]interface{}{
		"corners": cornersSchema,
		"enhance": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"none", "stretch", "whitebalance", "both"},
			"description": "Color enhancement after shading removal (default stretch)",
			"default":     "stretch",
		},
		"background_color": map[string]interface{}{
			"type":        "string",
			"description": "Color for non-stroke pixels: a name (white, lightyellow), #RGB, #RRGGBB, #RRGGBBAA or none (default white)",
			"default":     "white",
		},
		"filter_size": map[string]interface{}{
			"type":        "integer",
			"description": "Side of the neighborhood window used to find strokes, in pixels (default 15)",
			"default":     15,
		},
		"filter_offset": map[string]interface{}{
			"type":        "number",
			"description": "Percent a pixel must be darker than its neighborhood to be a stroke (default 5)",
			"default":     5,
		},
		"saturation": map[string]interface{}{
			"type":        "number",
			"description": "Saturation in percent; 100 leaves colors unchanged (default 200)",
			"default":     200,
		},
		"white_balance": map[string]interface{}{
			"type":        "number",
			"description": "Percent of brightest pixels averaged to find the board white (default 0.01)",
			"default":     0.01,
		},
		"threshold": map[string]interface{}{
			"type":        "number",
			"description": "Pixels at or above this intensity percent become pure white; 0 disables (default 0)",
			"default":     0,
		},
		"sharpening_amount": map[string]interface{}{
			"type":        "number",
			"description": "Sharpening sigma; 0 disables (default 0)",
			"default":     0,
		},
		"magnification": map[string]interface{}{
			"type":        "number",
			"description": "Scale factor applied to the output (default 1)",
			"default":     1,
		},
		"aspect_ratio": map[string]interface{}{
			"type":        "string",
			"description": "Real board width:height, e.g. \"4:3\" or \"1.5\". Estimated from the corners when omitted.",
		},
		"dimensions": map[string]interface{}{
			"type":        "string",
			"description": "Exact output size as WIDTHxHEIGHT, e.g. \"1600x1200\". Overrides magnification.",
		},
	}
}

// withScriptProperties merges the cleanup parameters into props.
func withScriptProperties(props map[string]interface{}) map[string]interface{} {
	for k, v := range scriptProperties() {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Input Inspection
		{
			Name:        "image_load",
			Description: "Load a whiteboard photo and return its dimensions, format and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel coordinate, optionally averaged over a square neighborhood. Useful for choosing a background_color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Average over a (2*radius+1) square around the pixel (default 0)",
						"default":     0,
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_grid_overlay",
			Description: "Return the image with a coordinate grid overlay, and optionally the outline of candidate board corners, to help choose the corners for perspective correction.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels between grid lines (default 50)",
						"default":     50,
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to label grid intersections with coordinates",
						"default":     true,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color (default #FF000080 - semi-transparent red)",
						"default":     "#FF000080",
					},
					"corners": cornersSchema,
				},
				"required": []string{"path"},
			},
		},

		// Whiteboard Cleanup
		{
			Name:        "whiteboard_defaults",
			Description: "Return the default whiteboard cleanup parameters.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "whiteboard_enhance",
			Description: "Clean up a whiteboard photo: correct perspective from the given corners, remove shading, boost saturation and enhance colors. Writes output_path when given, otherwise returns the result base64-encoded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withScriptProperties(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the whiteboard photo",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the result; the format follows the extension",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg"},
						"description": "Encoding of the inline result when output_path is omitted (default png)",
						"default":     "png",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "whiteboard_enhance_batch",
			Description: "Apply the same cleanup to several photos concurrently. Each result is written to output_dir; failures are reported per file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withScriptProperties(map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths of the photos",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for the results (default: next to each input)",
					},
					"suffix": map[string]interface{}{
						"type":        "string",
						"description": "Appended to each input's base name (default _clean)",
						"default":     "_clean",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output file extension, e.g. png or jpg (default: same as input)",
					},
				}),
				"required": []string{"paths"},
			},
		},
		{
			Name:        "whiteboard_ocr",
			Description: "Clean up a whiteboard photo and extract its text with OCR. Returns the text with word bounding boxes in output coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withScriptProperties(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the whiteboard photo",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "OCR language (default from server configuration, usually 'eng')",
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

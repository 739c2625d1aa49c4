package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

var modeProperty = map[string]interface{}{
	"type":        []string{"string", "integer"},
	"description": "Transformation: \"blur\" (0), \"edges\" (1), \"mirror\" (2) or \"grayscale\" (3). Defaults to the server's configured mode",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Bitmap Information
		{
			Name:        "bitmap_load",
			Description: "Load a 24-bit bitmap with a V5 header and return its dimensions, row layout, pixel offset and colour space.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the .bmp file"),
				},
				"required": []string{"path"},
			},
		},

		// Transformations
		{
			Name:        "bitmap_transform",
			Description: "Apply one transformation to a bitmap and write the result. Blur is a 3x3 box blur that repaints each neighbourhood in scan order; mirror flips left to right; grayscale replaces each pixel by its channel mean; edges runs the edge detector without changing pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source":      pathProperty("Absolute path to the input .bmp file"),
					"destination": pathProperty("Absolute path for the output .bmp file. May equal source to overwrite it"),
					"mode":        modeProperty,
				},
				"required": []string{"source", "destination"},
			},
		},
		{
			Name:        "bitmap_transform_batch",
			Description: "Apply the same transformation to several bitmaps concurrently. Each job reports its own result or error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"jobs": map[string]interface{}{
						"type":        "array",
						"description": "Files to transform. Destinations must be distinct",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"source":      pathProperty("Absolute path to the input .bmp file"),
								"destination": pathProperty("Absolute path for the output .bmp file"),
							},
							"required": []string{"source", "destination"},
						},
					},
					"mode": modeProperty,
				},
				"required": []string{"jobs"},
			},
		},

		// Pixel Inspection
		{
			Name:        "bitmap_sample_color",
			Description: "Get the colour of one pixel by grid position. Row 0 is the bottom row of the picture.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the .bmp file"),
					"row": map[string]interface{}{
						"type":        "integer",
						"description": "Grid row (0-based, 0 = bottom of the picture)",
					},
					"col": map[string]interface{}{
						"type":        "integer",
						"description": "Grid column (0-based, 0 = left edge)",
					},
				},
				"required": []string{"path", "row", "col"},
			},
		},
		{
			Name:        "bitmap_preview",
			Description: "Render a bitmap as a base64-encoded PNG scaled to fit a square, for viewing the result of a transformation.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the .bmp file"),
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum width and height in pixels. Defaults to the server's configured size",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "bitmap_compare",
			Description: "Compare the pixels of two bitmaps and report how many differ and by how much.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a": pathProperty("Absolute path to the first .bmp file"),
					"path_b": pathProperty("Absolute path to the second .bmp file"),
				},
				"required": []string{"path_a", "path_b"},
			},
		},

		// Conversion
		{
			Name:        "bitmap_import",
			Description: "Convert a PNG, JPEG, GIF or BMP image into a 24-bit bitmap with a V5 header that the transformations accept.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source":      pathProperty("Absolute path to the input image"),
					"destination": pathProperty("Absolute path for the output .bmp file"),
				},
				"required": []string{"source", "destination"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}

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

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Export
		{
			Name:        "sprite_export_regions",
			Description: "Cut named rectangles out of an image and write each one as <name>.png in output_dir. Coordinates use a top-left origin. Invalid regions are reported per item and do not stop the batch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty("Absolute path to the source image"),
					"output_dir": pathProperty("Directory for the PNG files; created if missing"),
					"meta":       pathProperty("Optional Unity .meta file whose isReadable flag is enabled during the export and restored afterwards"),
					"regions": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"name":   map[string]interface{}{"type": "string", "description": "Output file stem"},
								"x":      map[string]interface{}{"type": "integer", "description": "Left edge (0-based)"},
								"y":      map[string]interface{}{"type": "integer", "description": "Top edge (0-based)"},
								"width":  map[string]interface{}{"type": "integer", "description": "Width in pixels"},
								"height": map[string]interface{}{"type": "integer", "description": "Height in pixels"},
							},
							"required": []string{"name", "x", "y", "width", "height"},
						},
						"description": "Regions to export, in order",
					},
				},
				"required": []string{"path", "output_dir", "regions"},
			},
		},
		{
			Name:        "sprite_export_meta",
			Description: "Export every sprite listed in a texture's Unity .meta file. Rects are converted from Unity's bottom-left origin. The texture is made readable for the export and restored to its previous setting.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty("Absolute path to the texture"),
					"meta":       pathProperty("Path to the .meta file. Default: <path>.meta"),
					"output_dir": pathProperty("Directory for the PNG files. Default: the texture's directory"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sprite_list_meta",
			Description: "List the sprite regions stored in a texture's Unity .meta file, in top-left pixel coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the texture"),
					"meta": pathProperty("Path to the .meta file. Default: <path>.meta"),
				},
				"required": []string{"path"},
			},
		},

		// Inspection
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color and alpha at a pixel. Useful for checking sprite borders and transparent padding.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
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

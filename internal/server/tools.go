package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
	scaleProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Nearest-neighbor enlargement of the returned preview. Default 1",
		"default":     1,
	}
	outputPathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Optional path to also write the result to (format from extension)",
	}
	maxColorsProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Largest palette size considered. Default 128",
		"default":     128,
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Inspection
		{
			Name:        "pixel_image_info",
			Description: "Load an image and return its dimensions, format, whether it has transparency, its distinct color count and dominant color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixel_palette",
			Description: "List the exact distinct colors of an image, most frequent first, with pixel counts and percentages.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of colors to return. 0 returns all",
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Grid recovery
		{
			Name:        "pixel_detect_grid",
			Description: "Detect the art-pixel cell spacing of an upscaled pixel-art image and the implied output grid size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixel_grid_overlay",
			Description: "Draw the detected cell boundaries over the source image and return it as base64-encoded PNG. Use this to check that the detected grid matches the art.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty,
					"scale": scaleProperty,
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label each cell with its column,row index",
						"default":     false,
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color as #RRGGBB or #RRGGBBAA. Default #FF000080",
						"default":     "#FF000080",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixel_downscale",
			Description: "Downscale pixel art to one pixel per art cell by taking the majority color of each tile. The grid is detected automatically unless width and height are given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Explicit output width. Requires height",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Explicit output height. Requires width",
					},
					"centroids": map[string]interface{}{
						"type":        "integer",
						"description": "Per-tile cluster count. Default 2",
						"default":     2,
					},
					"scale":       scaleProperty,
					"output_path": outputPathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Palette
		{
			Name:        "pixel_select_palette_size",
			Description: "Estimate a good palette size for an image with the elbow method over median-cut fits, and return the distortion curve.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"max_colors": maxColorsProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixel_reduce_palette",
			Description: "Reduce an image to at most the given number of colors. Transparency is kept unchanged.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"colors": map[string]interface{}{
						"type":        "integer",
						"description": "Palette size",
					},
					"scale":       scaleProperty,
					"output_path": outputPathProperty,
				},
				"required": []string{"path", "colors"},
			},
		},

		// Pipeline
		{
			Name:        "pixel_process",
			Description: "Run the full pipeline: grid downscale (detected or explicit), then an optional exact or automatic palette reduction.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Explicit output width. Requires height",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Explicit output height. Requires width",
					},
					"colors": map[string]interface{}{
						"type":        "integer",
						"description": "Exact palette size. Overrides auto_palette",
					},
					"auto_palette": map[string]interface{}{
						"type":        "boolean",
						"description": "Pick the palette size automatically",
						"default":     false,
					},
					"max_colors":  maxColorsProperty,
					"scale":       scaleProperty,
					"output_path": outputPathProperty,
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{
		"tools": GetToolDefinitions(),
	})
}

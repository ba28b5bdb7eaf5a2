package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/pixel-detector/internal/imaging"
	"github.com/ironsheep/pixel-detector/internal/pixelart"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "pixel_downscale", "pixel_process").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": mustMarshalJSON(result),
			},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate pixelart/imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Inspection
	case "pixel_image_info":
		return s.handleImageInfo(args)
	case "pixel_palette":
		return s.handlePalette(args)

	// Grid recovery
	case "pixel_detect_grid":
		return s.handleDetectGrid(args)
	case "pixel_grid_overlay":
		return s.handleGridOverlay(args)
	case "pixel_downscale":
		return s.handleDownscale(args)

	// Palette
	case "pixel_select_palette_size":
		return s.handleSelectPaletteSize(args)
	case "pixel_reduce_palette":
		return s.handleReducePalette(args)

	// Pipeline
	case "pixel_process":
		return s.handleProcess(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
// An empty data string leaves the data member out.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	mcpErr := &MCPError{Code: code, Message: message}
	if data != "" {
		mcpErr.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: mcpErr}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageResult is returned by every tool that produces a new image.
type imageResult struct {
	Width          int                   `json:"width"`
	Height         int                   `json:"height"`
	HasAlpha       bool                  `json:"has_alpha"`
	SpacingX       float64               `json:"spacing_x,omitempty"`
	SpacingY       float64               `json:"spacing_y,omitempty"`
	Colors         int                   `json:"colors,omitempty"`
	AutoColors     bool                  `json:"auto_colors,omitempty"`
	PaletteSkipped bool                  `json:"palette_skipped,omitempty"`
	ResizeMillis   int64                 `json:"resize_ms,omitempty"`
	PaletteMillis  int64                 `json:"palette_ms,omitempty"`
	Palette        []string              `json:"palette"`
	OutputPath     string                `json:"output_path,omitempty"`
	Preview        *imaging.EncodeResult `json:"preview"`
}

// finishImage saves img when outputPath is set and builds the common result.
func finishImage(img *pixelart.Image, scale int, outputPath string) (*imageResult, error) {
	if outputPath != "" {
		if err := imaging.Save(img, outputPath); err != nil {
			return nil, err
		}
	}

	preview, err := imaging.Encode(img, scale)
	if err != nil {
		return nil, err
	}

	hist := img.Palette()
	palette := make([]string, len(hist))
	for i, cc := range hist {
		palette[i] = cc.Color.Hex()
	}

	return &imageResult{
		Width:      img.Width(),
		Height:     img.Height(),
		HasAlpha:   img.HasAlpha,
		Palette:    palette,
		OutputPath: outputPath,
		Preview:    preview,
	}, nil
}

// === Inspection Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type paletteArgs struct {
	Path  string `json:"path"`
	Limit int    `json:"limit"`
}

func (s *Server) handlePalette(args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.PaletteOf(img, a.Limit), nil
}

// === Grid Recovery Handlers ===

type detectGridResult struct {
	SpacingX float64 `json:"spacing_x"`
	SpacingY float64 `json:"spacing_y"`
	Columns  int     `json:"columns"`
	Rows     int     `json:"rows"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

func (s *Server) handleDetectGrid(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	spacing, err := pixelart.DetectSpacing(img)
	if err != nil {
		return nil, err
	}
	cols, rows := spacing.GridSize(img.Width(), img.Height())
	return &detectGridResult{
		SpacingX: spacing.Horizontal,
		SpacingY: spacing.Vertical,
		Columns:  cols,
		Rows:     rows,
		Width:    img.Width(),
		Height:   img.Height(),
	}, nil
}

type gridOverlayArgs struct {
	Path            string `json:"path"`
	Scale           int    `json:"scale"`
	ShowCoordinates bool   `json:"show_coordinates"`
	Color           string `json:"color"`
}

func (s *Server) handleGridOverlay(args json.RawMessage) (interface{}, error) {
	var a gridOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1
	}
	if a.Color == "" {
		a.Color = imaging.DefaultGridColor
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.GridOverlay(img, a.Scale, a.ShowCoordinates, a.Color)
}

type downscaleArgs struct {
	Path       string `json:"path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Centroids  int    `json:"centroids"`
	Scale      int    `json:"scale"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleDownscale(args json.RawMessage) (interface{}, error) {
	var a downscaleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Centroids == 0 {
		a.Centroids = pixelart.DefaultCentroids
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var spacing pixelart.GridSpacing
	if a.Width == 0 && a.Height == 0 {
		spacing, err = pixelart.DetectSpacing(img)
		if err != nil {
			return nil, err
		}
		a.Width, a.Height = spacing.GridSize(img.Width(), img.Height())
	}

	out, err := pixelart.Downsample(img, a.Width, a.Height, a.Centroids)
	if err != nil {
		return nil, err
	}

	result, err := finishImage(out, a.Scale, a.OutputPath)
	if err != nil {
		return nil, err
	}
	result.SpacingX = spacing.Horizontal
	result.SpacingY = spacing.Vertical
	return result, nil
}

// === Palette Handlers ===

type selectPaletteSizeArgs struct {
	Path      string `json:"path"`
	MaxColors int    `json:"max_colors"`
}

func (s *Server) handleSelectPaletteSize(args json.RawMessage) (interface{}, error) {
	var a selectPaletteSizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxColors == 0 {
		a.MaxColors = pixelart.DefaultMaxColors
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return pixelart.AnalyzePaletteSizes(img, a.MaxColors)
}

type reducePaletteArgs struct {
	Path       string `json:"path"`
	Colors     int    `json:"colors"`
	Scale      int    `json:"scale"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleReducePalette(args json.RawMessage) (interface{}, error) {
	var a reducePaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	out, err := pixelart.ReducePalette(img, a.Colors)
	if err != nil {
		return nil, err
	}

	result, err := finishImage(out, a.Scale, a.OutputPath)
	if err != nil {
		return nil, err
	}
	result.Colors = a.Colors
	return result, nil
}

// === Pipeline Handlers ===

type processArgs struct {
	Path        string `json:"path"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Colors      int    `json:"colors"`
	AutoPalette bool   `json:"auto_palette"`
	MaxColors   int    `json:"max_colors"`
	Scale       int    `json:"scale"`
	OutputPath  string `json:"output_path"`
}

func (s *Server) handleProcess(args json.RawMessage) (interface{}, error) {
	var a processArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := pixelart.DefaultOptions()
	opts.Width = a.Width
	opts.Height = a.Height
	opts.Colors = a.Colors
	opts.AutoPalette = a.AutoPalette
	if a.MaxColors != 0 {
		opts.MaxColors = a.MaxColors
	}

	res, err := pixelart.Process(img, opts)
	if err != nil {
		return nil, err
	}

	result, err := finishImage(res.Image, a.Scale, a.OutputPath)
	if err != nil {
		return nil, err
	}
	if res.Spacing != nil {
		result.SpacingX = res.Spacing.Horizontal
		result.SpacingY = res.Spacing.Vertical
	}
	result.Colors = res.Colors
	result.AutoColors = res.AutoColors
	result.PaletteSkipped = res.PaletteSkipped
	result.ResizeMillis = res.ResizeDuration.Milliseconds()
	result.PaletteMillis = res.PaletteDuration.Milliseconds()
	return result, nil
}

// Package server implements the MCP (Model Context Protocol) server for the pixel-art tools.
//
// This package provides a JSON-RPC 2.0 server that exposes grid detection,
// downscaling and palette reduction through the MCP protocol, so an MCP client
// can clean up upscaled or AI-generated pixel art step by step and inspect
// each intermediate result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Inspection:
//   - pixel_image_info: Dimensions, format, alpha presence, color count
//   - pixel_palette: Exact color listing by frequency
//
// Grid recovery:
//   - pixel_detect_grid: Cell spacing and implied grid size
//   - pixel_grid_overlay: Detected grid drawn over the source
//   - pixel_downscale: One pixel per art cell
//
// Palette:
//   - pixel_select_palette_size: Elbow estimate with the distortion curve
//   - pixel_reduce_palette: Quantize to at most N colors
//
// Pipeline:
//   - pixel_process: Downscale then optional palette reduction
//
// Tools that produce an image return it as a base64 PNG preview (optionally
// enlarged with scale) together with its palette, and also write it to
// output_path when one is given.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server

// Package server implements the MCP (Model Context Protocol) server for
// whiteboard cleanup tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the whiteboard
// pipeline through the MCP protocol, so an MCP client can inspect a photo of
// a whiteboard, pick its corners and get back a clean, flat, high-contrast
// image or its text.
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
// Input Inspection:
//   - image_load: Load a photo and get metadata
//   - image_sample_color: Get the (averaged) color at a pixel
//   - image_grid_overlay: Coordinate grid plus optional corner outline
//
// Whiteboard Cleanup:
//   - whiteboard_defaults: Default cleanup parameters
//   - whiteboard_enhance: Clean up one photo
//   - whiteboard_enhance_batch: Clean up many photos concurrently
//   - whiteboard_ocr: Clean up one photo and extract its text
//
// The whiteboard_* tools share the cleanup parameters (corners, enhance,
// background_color, filter_size, filter_offset, saturation, white_balance,
// threshold, sharpening_amount, magnification, aspect_ratio, dimensions).
// Omitted parameters take the defaults reported by whiteboard_defaults.
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded images keyed by path.
// An entry is reloaded when the file's modification time or size changes.
// Batch inputs are evicted once processed.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for invalid arguments (including parameters rejected by
//     the whiteboard validation), -32000 for other tool failures
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server

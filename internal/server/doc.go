// Package server implements the MCP (Model Context Protocol) server for bitmap tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the bitmap codec
// and the pixel transformations through the MCP protocol. It supplies file
// paths and mode values to the transformation engine and reports results.
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
// Bitmap Information:
//   - bitmap_load: Decode a bitmap and report its layout
//
// Transformations:
//   - bitmap_transform: Apply blur, edges, mirror or grayscale to one file
//   - bitmap_transform_batch: Apply one mode to several files concurrently
//
// Pixel Inspection:
//   - bitmap_sample_color: Get the color at a grid position
//   - bitmap_preview: Render a scaled PNG
//   - bitmap_compare: Count and measure pixel differences
//
// Conversion:
//   - bitmap_import: Convert PNG, JPEG, GIF or BMP into a 24-bit V5 bitmap
//
// # Bitmap Caching
//
// Read-only tools share decoded bitmaps through an in-memory cache keyed by
// path. Transformations always decode a private copy from disk, and every
// tool that writes a file evicts that path from the cache afterwards.
//
// # Concurrency
//
// Requests are handled one at a time. Only bitmap_transform_batch runs work
// in parallel, at most Config.BatchConcurrency files at once, and each job
// owns its bitmap exclusively. Jobs may not write the same destination or
// read a file another job writes.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, which names the failure kind
//
// # Usage
//
//	cfg, err := config.Load(os.Getenv(config.EnvConfigPath))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, logrus.StandardLogger())
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server

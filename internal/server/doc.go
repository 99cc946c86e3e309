// Package server implements the MCP (Model Context Protocol) server that
// exposes sprite export as tools.
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
// Export:
//   - sprite_export_regions: Write named rectangles of an image as PNG files
//   - sprite_export_meta: Write every sprite listed in a Unity .meta file
//   - sprite_list_meta: List the sprite rects of a Unity .meta file
//
// Inspection:
//   - image_dimensions: Get width and height
//   - image_sample_color: Get color and alpha at a pixel
//
// # Error Handling
//
// A region that cannot be exported is reported in the tool result next to the
// regions that succeeded. Errors that prevent the whole call (unreadable
// image, malformed meta file, empty region list, a readability flag that
// cannot be set or restored) are returned as JSON-RPC errors with code -32000.
//
// # Image Caching
//
// Decoded images are cached by path. The export tools evict their source
// after running so an atlas edited between calls is decoded again.
package server

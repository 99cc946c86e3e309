package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/sprite-export/internal/export"
	"github.com/ironsheep/sprite-export/internal/imaging"
)

// Server handles MCP protocol communication
type Server struct {
	cache    *imaging.ImageCache
	exporter *export.Exporter
	version  string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Option configures a Server.
type Option func(*Server)

// WithExporter replaces the default exporter.
func WithExporter(e *export.Exporter) Option {
	return func(s *Server) { s.exporter = e }
}

// WithVersion sets the version reported during initialize.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a new MCP server instance
func New(opts ...Option) *Server {
	s := &Server{
		cache:    imaging.NewImageCache(),
		exporter: export.New(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve processes newline-delimited JSON-RPC requests from r until EOF and
// writes responses to w.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Region lists can be long; allow requests up to 4 MiB
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "sprite-export",
				"version": s.version,
			},
		},
	}
}

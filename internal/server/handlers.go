package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ironsheep/sprite-export/internal/export"
	"github.com/ironsheep/sprite-export/internal/imaging"
	"github.com/ironsheep/sprite-export/internal/unity"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sprite_export_regions").
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
// Per-region export failures are not tool errors; they are listed in the
// result alongside the successes.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "sprite_export_regions":
		return s.handleSpriteExportRegions(args)
	case "sprite_export_meta":
		return s.handleSpriteExportMeta(args)
	case "sprite_list_meta":
		return s.handleSpriteListMeta(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Export Handlers ===

// ExportItem is the JSON form of one export.ExportResult.
type ExportItem struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// ExportResponse is returned by the export tools.
type ExportResponse struct {
	Source    string         `json:"source"`
	OutputDir string         `json:"output_dir"`
	Message   string         `json:"message"`
	Summary   export.Summary `json:"summary"`
	Results   []ExportItem   `json:"results"`
}

type spriteExportRegionsArgs struct {
	Path      string                     `json:"path"`
	OutputDir string                     `json:"output_dir"`
	Meta      string                     `json:"meta"`
	Regions   []spriteExportRegionsEntry `json:"regions"`
}

type spriteExportRegionsEntry struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleSpriteExportRegions(args json.RawMessage) (interface{}, error) {
	var a spriteExportRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		return nil, fmt.Errorf("output_dir is required")
	}

	reqs := make([]export.ExtractionRequest, 0, len(a.Regions))
	for _, r := range a.Regions {
		reqs = append(reqs, export.ExtractionRequest{
			Name: r.Name,
			Rect: export.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		})
	}

	var flag export.ReadabilityFlag
	if a.Meta != "" {
		meta, err := unity.OpenMeta(a.Meta)
		if err != nil {
			return nil, err
		}
		flag = meta
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.runExport(export.NewSourceImage(a.Path, img), flag, reqs, a.OutputDir)
}

type spriteMetaArgs struct {
	Path      string `json:"path"`
	Meta      string `json:"meta"`
	OutputDir string `json:"output_dir"`
}

func (a *spriteMetaArgs) defaults() {
	if a.Meta == "" {
		a.Meta = unity.MetaPath(a.Path)
	}
	if a.OutputDir == "" {
		a.OutputDir = filepath.Dir(a.Path)
	}
}

func (s *Server) handleSpriteExportMeta(args json.RawMessage) (interface{}, error) {
	var a spriteMetaArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	a.defaults()

	meta, err := unity.OpenMeta(a.Meta)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	src := export.NewSourceImage(a.Path, img)

	reqs, err := meta.Sprites(src.Width(), src.Height())
	if err != nil {
		return nil, err
	}
	return s.runExport(src, meta, reqs, a.OutputDir)
}

func (s *Server) runExport(src *export.SourceImage, flag export.ReadabilityFlag, reqs []export.ExtractionRequest, outputDir string) (*ExportResponse, error) {
	// Drop the cached pixels so a re-exported atlas is read fresh next time.
	defer s.cache.Evict(src.ID())

	results, err := s.exporter.ExportAll(src, flag, reqs, outputDir)
	if errors.Is(err, export.ErrNoRequests) {
		return nil, fmt.Errorf("%s: no sprites to export", src.ID())
	}
	if err != nil {
		return nil, err
	}

	summary := export.Summarize(results)
	resp := &ExportResponse{
		Source:    src.ID(),
		OutputDir: outputDir,
		Message:   summary.String(),
		Summary:   summary,
		Results:   make([]ExportItem, 0, len(results)),
	}
	for _, r := range results {
		resp.Results = append(resp.Results, ExportItem{Name: r.Name, Path: r.Path, Error: r.Reason()})
	}
	return resp, nil
}

// SpriteListResponse lists the sprites of a meta file.
type SpriteListResponse struct {
	Meta    string                     `json:"meta"`
	Width   int                        `json:"width"`
	Height  int                        `json:"height"`
	Sprites []export.ExtractionRequest `json:"sprites"`
}

func (s *Server) handleSpriteListMeta(args json.RawMessage) (interface{}, error) {
	var a spriteMetaArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	a.defaults()

	meta, err := unity.OpenMeta(a.Meta)
	if err != nil {
		return nil, err
	}
	dims, err := imaging.GetDimensions(s.cache, a.Path)
	if err != nil {
		return nil, err
	}

	sprites, err := meta.Sprites(dims.Width, dims.Height)
	if err != nil {
		return nil, err
	}
	return &SpriteListResponse{
		Meta:    a.Meta,
		Width:   dims.Width,
		Height:  dims.Height,
		Sprites: sprites,
	}, nil
}

// === Inspection Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

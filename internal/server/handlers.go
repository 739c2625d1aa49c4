package server

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bitmap-tools-mcp/internal/imaging"
	"github.com/ironsheep/bitmap-tools-mcp/internal/transform"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "bitmap_load", "bitmap_transform").
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
// Tool failures become a CodeToolFailed error whose data is the error text.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	log := s.log.WithField("tool", params.Name)
	start := time.Now()

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		log.WithError(err).Warn("Tool execution failed")
		return errorResponse(req.ID, CodeToolFailed, "Tool execution failed", err.Error())
	}
	log.WithField("duration", time.Since(start)).Debug("Tool executed")

	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(result)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for optional parameters
//  3. Loads bitmaps from the cache (read-only tools) or from disk (transformations)
//  4. Calls the appropriate imaging/transform function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Bitmap Information
	case "bitmap_load":
		return s.handleBitmapLoad(args)

	// Transformations
	case "bitmap_transform":
		return s.handleBitmapTransform(args)
	case "bitmap_transform_batch":
		return s.handleBitmapTransformBatch(ctx, args)

	// Pixel Inspection
	case "bitmap_sample_color":
		return s.handleBitmapSampleColor(args)
	case "bitmap_preview":
		return s.handleBitmapPreview(args)
	case "bitmap_compare":
		return s.handleBitmapCompare(args)

	// Conversion
	case "bitmap_import":
		return s.handleBitmapImport(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: jsonrpcVersion,
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

// decodeArgs unmarshals tool arguments into v.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return fmt.Errorf("missing arguments")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// required reports an error naming the first empty argument. names and
// values alternate: required("source", a.Source, "destination", a.Destination).
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%s is required", pairs[i])
		}
	}
	return nil
}

// parseMode reads a mode given as a name or a number. An absent or null
// value selects def. Numbers outside the defined modes are returned as is
// and rejected by the engine.
func parseMode(raw json.RawMessage, def transform.Mode) (transform.Mode, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return def, nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return transform.ParseMode(name)
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%w: %s", transform.ErrUnknownMode, raw)
	}
	return transform.Mode(n), nil
}

// === Bitmap Information Handlers ===

type bitmapPathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleBitmapLoad(args json.RawMessage) (interface{}, error) {
	var a bitmapPathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := required("path", a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadBitmapInfo(s.cache, a.Path)
}

// === Transformation Handlers ===

type transformArgs struct {
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Mode        json.RawMessage `json:"mode"`
}

// TransformResult describes one transformed file.
type TransformResult struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
	ModeValue   int    `json:"mode_value"`
	Visited     int    `json:"visited"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

func (s *Server) handleBitmapTransform(args json.RawMessage) (interface{}, error) {
	var a transformArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := required("source", a.Source, "destination", a.Destination); err != nil {
		return nil, err
	}
	mode, err := parseMode(a.Mode, s.mode)
	if err != nil {
		return nil, err
	}
	return s.transformFile(a.Source, a.Destination, mode)
}

// transformFile loads source from disk, applies mode and saves the result to
// destination. Nothing is written when loading or the transformation fails.
//
// The bitmap is a private copy, never the cached one, so concurrent calls on
// different files do not share pixels.
func (s *Server) transformFile(source, destination string, mode transform.Mode) (*TransformResult, error) {
	img, err := bitmap.Load(source)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.Apply(img.Pixels, mode)
	if err != nil {
		return nil, err
	}

	if err := bitmap.Save(destination, img); err != nil {
		return nil, err
	}
	s.cache.Evict(destination)

	s.log.WithField("mode", mode.String()).
		WithField("path", destination).
		WithField("visited", res.Visited).
		Info("Bitmap transformed")

	return &TransformResult{
		Source:      source,
		Destination: destination,
		Mode:        res.Mode.String(),
		ModeValue:   int(res.Mode),
		Visited:     res.Visited,
		Width:       img.Width(),
		Height:      img.Height(),
	}, nil
}

type batchJob struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type batchArgs struct {
	Jobs []batchJob      `json:"jobs"`
	Mode json.RawMessage `json:"mode"`
}

// BatchJobResult is the outcome of one job. Exactly one of Result and Error
// is set.
type BatchJobResult struct {
	Source      string           `json:"source"`
	Destination string           `json:"destination"`
	Result      *TransformResult `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// BatchResult lists job outcomes in request order.
type BatchResult struct {
	Mode      string           `json:"mode"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Jobs      []BatchJobResult `json:"jobs"`
}

func (s *Server) handleBitmapTransformBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a batchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Jobs) == 0 {
		return nil, fmt.Errorf("jobs is required")
	}
	if err := validateJobs(a.Jobs); err != nil {
		return nil, err
	}
	mode, err := parseMode(a.Mode, s.mode)
	if err != nil {
		return nil, err
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %s", transform.ErrUnknownMode, mode)
	}

	results := make([]BatchJobResult, len(a.Jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.BatchConcurrency))

	for i, job := range a.Jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = BatchJobResult{Source: job.Source, Destination: job.Destination}
			res, err := s.transformFile(job.Source, job.Destination, mode)
			if err != nil {
				s.log.WithError(err).WithField("path", job.Source).Warn("Batch job failed")
				results[i].Error = err.Error()
				return nil
			}
			results[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	out := &BatchResult{Mode: mode.String(), Jobs: results}
	for _, r := range results {
		if r.Error != "" {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}
	return out, nil
}

// validateJobs makes sure every job owns its destination: destinations are
// distinct, and no job reads a file another job writes. Paths are compared
// in cleaned absolute form so "out.bmp" and "./out.bmp" collide.
func validateJobs(jobs []batchJob) error {
	writers := make(map[string]int, len(jobs))
	for i, job := range jobs {
		if err := required("source", job.Source, "destination", job.Destination); err != nil {
			return fmt.Errorf("job %d: %w", i, err)
		}
		key := pathKey(job.Destination)
		if j, ok := writers[key]; ok {
			return fmt.Errorf("jobs %d and %d both write %s", j, i, key)
		}
		writers[key] = i
	}
	for i, job := range jobs {
		if j, ok := writers[pathKey(job.Source)]; ok && j != i {
			return fmt.Errorf("job %d reads %s while job %d writes it", i, job.Source, j)
		}
	}
	return nil
}

// pathKey returns the absolute, cleaned form of path, or the cleaned path
// when the working directory is unknown.
func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// === Pixel Inspection Handlers ===

type sampleColorArgs struct {
	Path string `json:"path"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

func (s *Server) handleBitmapSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := required("path", a.Path); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.Row, a.Col)
}

type previewArgs struct {
	Path    string `json:"path"`
	MaxSize int    `json:"max_size"`
}

func (s *Server) handleBitmapPreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := required("path", a.Path); err != nil {
		return nil, err
	}
	if a.MaxSize == 0 {
		a.MaxSize = s.cfg.PreviewMaxSize
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(img, a.MaxSize)
}

type compareArgs struct {
	PathA string `json:"path_a"`
	PathB string `json:"path_b"`
}

func (s *Server) handleBitmapCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := required("path_a", a.PathA, "path_b", a.PathB); err != nil {
		return nil, err
	}
	imgA, err := s.cache.Load(a.PathA)
	if err != nil {
		return nil, err
	}
	imgB, err := s.cache.Load(a.PathB)
	if err != nil {
		return nil, err
	}
	return imaging.Compare(imgA, imgB), nil
}

// === Conversion Handlers ===

type importArgs struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// ImportResult describes a converted file.
type ImportResult struct {
	Source      string              `json:"source"`
	Destination string              `json:"destination"`
	Bitmap      *imaging.BitmapInfo `json:"bitmap"`
}

func (s *Server) handleBitmapImport(args json.RawMessage) (interface{}, error) {
	var a importArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := required("source", a.Source, "destination", a.Destination); err != nil {
		return nil, err
	}
	img, err := imaging.Import(a.Source, a.Destination)
	if err != nil {
		return nil, err
	}
	s.cache.Evict(a.Destination)

	s.log.WithField("path", a.Destination).Info("Image imported")
	return &ImportResult{
		Source:      a.Source,
		Destination: a.Destination,
		Bitmap:      imaging.Describe(img),
	}, nil
}

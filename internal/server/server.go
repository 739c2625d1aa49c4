package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/bitmap-tools-mcp/internal/config"
	"github.com/ironsheep/bitmap-tools-mcp/internal/imaging"
	"github.com/ironsheep/bitmap-tools-mcp/internal/transform"
)

// Name and ProtocolVersion are reported by initialize.
const (
	Name            = "bitmap-tools-mcp"
	ProtocolVersion = "2024-11-05"
)

const jsonrpcVersion = "2.0"

// JSON-RPC error codes used in responses.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeToolFailed     = -32000
)

// Version is reported by initialize. The command overrides it with the
// value set at build time.
var Version = "0.1.0"

// Server handles MCP protocol communication
type Server struct {
	cache  *imaging.Cache
	engine *transform.Engine
	cfg    config.Config
	mode   transform.Mode
	log    logrus.FieldLogger
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

// New creates a new MCP server instance. cfg must have passed Validate.
func New(cfg config.Config, log logrus.FieldLogger) *Server {
	mode, err := cfg.Mode()
	if err != nil {
		log.WithError(err).Warn("Invalid default mode, using blur")
		mode = transform.ModeBlur
	}
	return &Server{
		cache:  imaging.NewCache(),
		engine: &transform.Engine{},
		cfg:    cfg,
		mode:   mode,
		log:    log,
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to
// w until r is exhausted or ctx is cancelled. Lines that are not valid JSON
// are logged and skipped.
//
// Reading happens on a separate goroutine so cancellation returns ctx.Err()
// even while r is blocked. That goroutine exits when its pending read ends.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		// Batch calls carry many paths; allow lines up to 1 MiB.
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			select {
			case lines <- bytes.Clone(scanner.Bytes()):
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	enc := json.NewEncoder(w)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line []byte
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read request: %w", err)
				}
				return nil
			}
			line = l
		}

		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("Failed to parse request")
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			s.log.WithError(err).Error("Failed to encode response")
		}
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	s.log.WithField("method", req.Method).Debug("Request received")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return reply(req.ID, map[string]interface{}{})
	default:
		return &MCPResponse{
			JSONRPC: jsonrpcVersion,
			ID:      req.ID,
			Error: &MCPError{
				Code:    CodeMethodNotFound,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

func reply(id interface{}, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: jsonrpcVersion, ID: id, Result: result}
}

// handleInitialize advertises the tools capability and server identity.
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    Name,
			"version": Version,
		},
	})
}

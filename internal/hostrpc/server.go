package hostrpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/burrowtools/burrow/internal/logger"
	"github.com/burrowtools/burrow/internal/plugin"
)

const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "burrow"
)

// Server speaks line-delimited JSON-RPC 2.0 with the host over a pair of
// streams (stdin/stdout in production). It dispatches tool lifecycle hooks
// to the plugin set. Plugin failures never surface as RPC errors: the host
// always gets a usable result so tool calls proceed.
type Server struct {
	reader  *bufio.Reader
	writer  io.Writer
	set     *plugin.Set
	root    string
	version string

	// fallbackID stands in for the session when the host omits sessionId.
	// Stable for the lifetime of the server so such calls share one worktree.
	fallbackID string

	mu  sync.Mutex
	log *slog.Logger
}

// NewServer creates a hook server bound to the given streams. root is the
// repository root the plugins operate against; empty root means the server
// runs inert (hooks answered, arguments passed through untouched).
func NewServer(r io.Reader, w io.Writer, set *plugin.Set, root, version string) *Server {
	return &Server{
		reader:     bufio.NewReader(r),
		writer:     w,
		set:        set,
		root:       root,
		version:    version,
		fallbackID: uuid.New().String(),
		log:        logger.ComponentLogger("hostrpc"),
	}
}

// Run reads requests until EOF. Malformed lines get a -32700 parse error
// and the loop continues; only a read failure ends the loop with an error.
func (s *Server) Run() error {
	s.log.Info("server starting", "root", s.root, "plugins", s.set.Names())

	for {
		line, err := s.reader.ReadString('\n')
		if err == io.EOF {
			s.log.Info("EOF received, shutting down")
			return nil
		}
		if err != nil {
			s.log.Error("read error", "error", err)
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var req JSONRPCRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.log.Error("JSON parse error", "error", err)
			s.sendError(nil, -32700, "Parse error", nil)
			continue
		}

		s.handleRequest(&req)
	}
}

func (s *Server) handleRequest(req *JSONRPCRequest) {
	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized":
		// Notification, no response needed
		s.log.Debug("initialized notification received")
	case "tool/before":
		s.handleToolBefore(req)
	case "tool/after":
		s.handleToolAfter(req)
	case "session/end":
		s.handleSessionEnd(req)
	default:
		s.log.Warn("unknown method", "method", req.Method)
		s.sendError(req.ID, -32601, "Method not found", nil)
	}
}

func (s *Server) handleInitialize(req *JSONRPCRequest) {
	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: s.version,
		},
		Plugins: s.set.Names(),
	}

	s.sendResult(req.ID, result)
}

func (s *Server) handleToolBefore(req *JSONRPCRequest) {
	var params ToolBeforeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.log.Error("failed to parse tool/before params", "error", err)
		s.sendError(req.ID, -32602, "Invalid params", nil)
		return
	}

	call := s.toCall(&params.SessionID, params.Tool, params.Args)
	if s.root != "" {
		s.set.ToolBefore(context.Background(), call)
	}

	s.sendResult(req.ID, ToolBeforeResult{Args: call.Args})
}

func (s *Server) handleToolAfter(req *JSONRPCRequest) {
	var params ToolAfterParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.log.Error("failed to parse tool/after params", "error", err)
		s.sendError(req.ID, -32602, "Invalid params", nil)
		return
	}

	call := s.toCall(&params.SessionID, params.Tool, params.Args)
	if s.root != "" {
		s.set.ToolAfter(context.Background(), call, params.Error)
	}

	s.sendResult(req.ID, map[string]any{})
}

func (s *Server) handleSessionEnd(req *JSONRPCRequest) {
	var params SessionEndParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.log.Error("failed to parse session/end params", "error", err)
		s.sendError(req.ID, -32602, "Invalid params", nil)
		return
	}

	sessionID := params.SessionID
	if sessionID == "" {
		sessionID = s.fallbackID
	}
	if s.root != "" {
		s.set.SessionEnd(sessionID)
	}

	s.sendResult(req.ID, map[string]any{})
}

// toCall builds the plugin call, substituting the fallback session id when
// the host omits one. The id is written back through the pointer so callers
// log the id the plugins actually saw.
func (s *Server) toCall(sessionID *string, tool string, args map[string]any) *plugin.ToolCall {
	if *sessionID == "" {
		*sessionID = s.fallbackID
	}
	if args == nil {
		args = map[string]any{}
	}
	return &plugin.ToolCall{
		SessionID: *sessionID,
		Tool:      tool,
		Args:      args,
		Root:      s.root,
	}
}

func (s *Server) sendResult(id interface{}, result interface{}) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}

	s.send(resp)
}

func (s *Server) sendError(id interface{}, code int, message string, data interface{}) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}

	s.send(resp)
}

func (s *Server) send(resp JSONRPCResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("failed to marshal response", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.writer, "%s\n", data); err != nil {
		s.log.Error("failed to write response", "error", err)
	}
}

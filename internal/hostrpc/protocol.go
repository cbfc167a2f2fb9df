package hostrpc

import "encoding/json"

// JSON-RPC 2.0 message types for the host hook protocol

// JSONRPCRequest represents an incoming JSON-RPC request
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents an outgoing JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Hook protocol specific types

// ServerInfo identifies the plugin server to the host.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the response to the initialize method.
type InitializeResult struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ServerInfo      ServerInfo `json:"serverInfo"`
	Plugins         []string   `json:"plugins"`
}

// ToolBeforeParams is sent by the host before a tool call executes.
type ToolBeforeParams struct {
	SessionID string         `json:"sessionId"`
	Tool      string         `json:"tool"`
	Args      map[string]any `json:"args"`
}

// ToolBeforeResult carries the (possibly rewritten) tool arguments back to
// the host. Args is always present so the host can apply it unconditionally.
type ToolBeforeResult struct {
	Args map[string]any `json:"args"`
}

// ToolAfterParams is sent by the host after a tool call finished.
// Error is the host-reported failure message, empty on success.
type ToolAfterParams struct {
	SessionID string         `json:"sessionId"`
	Tool      string         `json:"tool"`
	Args      map[string]any `json:"args"`
	Error     string         `json:"error,omitempty"`
}

// SessionEndParams is sent when the host ends a session.
type SessionEndParams struct {
	SessionID string `json:"sessionId"`
}

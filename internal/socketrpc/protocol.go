package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes dashboard.Reader over a Unix domain socket,
// one newline-delimited JSON object per message.
//
//   Method      Params                                   Result
//   ─────────   ──────────────────────────────────────   ──────────────────────
//   Overview    (none)                                   dashboard.Overview
//   Analysis    {Request: dashboard.AnalysisRequest}     dashboard.AnalysisView
//   Topic       {Selector: int}                          dashboard.TopicView
//   Network     (none)                                   dashboard.NetworkView
//
// Analysis accepts empty or null params and then covers the full span.
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params (malformed params, topic selector out of range)
//   -32603  Internal error (marshal failure)
//   -32000  Application error

const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = -32603
	CodeApplication    = -32000
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/shapingai/shapingai.sock, falling back to
// ~/.local/state/shapingai/shapingai.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "shapingai", "shapingai.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/shapingai.sock"
	}
	return filepath.Join(home, ".local", "state", "shapingai", "shapingai.sock")
}

package socketrpc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/shapingai/shaping-ai-dashboard/internal/analysis"
	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
)

// Client implements dashboard.Reader over a Unix domain socket using JSON-RPC 2.0.
// Calls are serialized on one connection.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	nextID  int
	scanner *bufio.Scanner
	encoder *json.Encoder
}

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, scannerInitBufSize), scannerMaxTokenSize)
	return &Client{
		conn:    conn,
		scanner: scanner,
		encoder: json.NewEncoder(conn),
	}, nil
}

var _ dashboard.Reader = (*Client)(nil)

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(method string, params interface{}, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	c.conn.SetDeadline(time.Now().Add(30 * time.Second))
	defer c.conn.SetDeadline(time.Time{})

	if err := c.encoder.Encode(req); err != nil {
		return fmt.Errorf("socketrpc: send: %w", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return fmt.Errorf("socketrpc: read: %w", err)
		}
		return fmt.Errorf("socketrpc: connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}

	if resp.Error != nil {
		return resp.Error
	}

	if dest != nil {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

func (c *Client) Overview() (dashboard.Overview, error) {
	var result dashboard.Overview
	err := c.call("Overview", nil, &result)
	return result, err
}

func (c *Client) Analysis(req dashboard.AnalysisRequest) (dashboard.AnalysisView, error) {
	var result dashboard.AnalysisView
	err := c.call("Analysis", map[string]interface{}{"Request": req}, &result)
	return result, err
}

// Topic fetches a topic page. A selector rejected by the server is reported
// as analysis.ErrTopicIndex.
func (c *Client) Topic(selector int) (dashboard.TopicView, error) {
	var result dashboard.TopicView
	err := c.call("Topic", map[string]interface{}{"Selector": selector}, &result)
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) && rpcErr.Code == CodeInvalidParams {
		return result, fmt.Errorf("%w: %s", analysis.ErrTopicIndex, rpcErr.Message)
	}
	return result, err
}

func (c *Client) Network() (dashboard.NetworkView, error) {
	var result dashboard.NetworkView
	err := c.call("Network", nil, &result)
	return result, err
}

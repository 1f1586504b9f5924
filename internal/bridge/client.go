package bridge

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	lsp "go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/systerlang/systerview/internal/diagram"
)

// MethodGetDiagram is the custom request for fetching diagram data. It is
// application-defined, not a standard protocol method.
const MethodGetDiagram = "syster/getDiagram"

// CapabilityDiagram is the experimental capability the server must
// advertise in its initialize response for this bridge to use it.
const CapabilityDiagram = "systerDiagram"

// getDiagramParams carries the scope of a diagram request. An absent URI
// means the entire workspace.
type getDiagramParams struct {
	URI string `json:"uri,omitempty"`
}

// Client is a connected, initialized handle to the Syster language server.
type Client struct {
	conn jsonrpc2.Conn
}

// NewClient wires a JSON-RPC connection over rwc, runs the initialize
// handshake rooted at rootURI, and verifies the diagram capability. The
// handshake has no internal timeout; bound it through ctx if needed.
func NewClient(ctx context.Context, rwc io.ReadWriteCloser, rootURI uri.URI) (*Client, error) {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, jsonrpc2.MethodNotFoundHandler)

	c := &Client{conn: conn}
	if err := c.initialize(ctx, rootURI); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) initialize(ctx context.Context, rootURI uri.URI) error {
	params := lsp.InitializeParams{
		ProcessID: int32(os.Getpid()),
		RootURI:   rootURI,
		Capabilities: lsp.ClientCapabilities{
			Experimental: map[string]interface{}{CapabilityDiagram: true},
		},
	}

	var result lsp.InitializeResult
	if _, err := c.conn.Call(ctx, lsp.MethodInitialize, params, &result); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if !advertisesDiagram(result.Capabilities.Experimental) {
		return fmt.Errorf("%w: server does not expose %q", ErrContractBroken, CapabilityDiagram)
	}
	if err := c.conn.Notify(ctx, lsp.MethodInitialized, lsp.InitializedParams{}); err != nil {
		return fmt.Errorf("initialized: %w", err)
	}
	return nil
}

// advertisesDiagram checks the server's experimental capability bag for the
// diagram accessor.
func advertisesDiagram(experimental interface{}) bool {
	caps, ok := experimental.(map[string]interface{})
	if !ok {
		return false
	}
	v, ok := caps[CapabilityDiagram]
	if !ok {
		return false
	}
	enabled, ok := v.(bool)
	return !ok || enabled
}

// Alive reports whether the underlying connection is still up.
func (c *Client) Alive() bool {
	select {
	case <-c.conn.Done():
		return false
	default:
		return true
	}
}

// GetDiagram issues the custom diagram request. An empty uri scopes the
// result to the whole workspace.
func (c *Client) GetDiagram(ctx context.Context, uriStr string) (*diagram.Data, error) {
	if !c.Alive() {
		return nil, ErrNotConnected
	}

	var data diagram.Data
	if _, err := c.conn.Call(ctx, MethodGetDiagram, getDiagramParams{URI: uriStr}, &data); err != nil {
		return nil, fmt.Errorf("%s: %w", MethodGetDiagram, err)
	}
	return &data, nil
}

// Close shuts the server down and tears down the connection.
func (c *Client) Close() error {
	ctx := context.Background()
	if c.Alive() {
		// Best effort; the server may already be gone.
		_, _ = c.conn.Call(ctx, lsp.MethodShutdown, nil, nil)
		_ = c.conn.Notify(ctx, lsp.MethodExit, nil)
	}
	return c.conn.Close()
}

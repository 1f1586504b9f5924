package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"go.lsp.dev/jsonrpc2"
	lsp "go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/systerlang/systerview/internal/diagram"
)

func testLogger() zerolog.Logger { return zerolog.Nop() }

// fakeServer runs a minimal language server over an in-memory pipe and
// returns the client side of the connection.
func fakeServer(t *testing.T, experimental interface{}, handle func(params getDiagramParams) (*diagram.Data, error)) net.Conn {
	t.Helper()

	clientSide, serverSide := net.Pipe()
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(serverSide))

	handler := func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		switch req.Method() {
		case lsp.MethodInitialize:
			return reply(ctx, lsp.InitializeResult{
				Capabilities: lsp.ServerCapabilities{Experimental: experimental},
			}, nil)
		case lsp.MethodInitialized, lsp.MethodExit:
			return nil
		case lsp.MethodShutdown:
			return reply(ctx, nil, nil)
		case MethodGetDiagram:
			var params getDiagramParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, err)
			}
			data, err := handle(params)
			return reply(ctx, data, err)
		default:
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
	}

	conn.Go(context.Background(), handler)
	t.Cleanup(func() { conn.Close() })
	return clientSide
}

func TestClientGetDiagram(t *testing.T) {
	want := &diagram.Data{
		Symbols: []diagram.Symbol{
			{Name: "Vehicle", QualifiedName: "Pkg::Vehicle", Kind: "part", SubKind: "definition"},
			{Name: "engine", QualifiedName: "Pkg::Vehicle::engine", Kind: "part", SubKind: "usage", TypeRef: "Pkg::Engine"},
		},
		Relationships: []diagram.Relationship{
			{Source: "Pkg::Vehicle::engine", Target: "Pkg::Engine", Type: "typing"},
		},
	}

	var gotScope string
	rwc := fakeServer(t, map[string]interface{}{CapabilityDiagram: true}, func(p getDiagramParams) (*diagram.Data, error) {
		gotScope = p.URI
		return want, nil
	})

	ctx := context.Background()
	client, err := NewClient(ctx, rwc, uri.File("/ws"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	got, err := client.GetDiagram(ctx, "file:///ws/m.sysml")
	if err != nil {
		t.Fatalf("GetDiagram: %v", err)
	}
	if gotScope != "file:///ws/m.sysml" {
		t.Errorf("request scope: got %q", gotScope)
	}
	if len(got.Symbols) != 2 || len(got.Relationships) != 1 {
		t.Fatalf("unexpected diagram shape: %+v", got)
	}
	if got.Symbols[0].QualifiedName != "Pkg::Vehicle" {
		t.Errorf("symbol passthrough: got %+v", got.Symbols[0])
	}
}

func TestClientWorkspaceScope(t *testing.T) {
	var gotScope string
	rwc := fakeServer(t, map[string]interface{}{CapabilityDiagram: true}, func(p getDiagramParams) (*diagram.Data, error) {
		gotScope = p.URI
		return &diagram.Data{}, nil
	})

	ctx := context.Background()
	client, err := NewClient(ctx, rwc, uri.File("/ws"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if _, err := client.GetDiagram(ctx, ""); err != nil {
		t.Fatalf("GetDiagram: %v", err)
	}
	if gotScope != "" {
		t.Errorf("expected empty scope for whole workspace, got %q", gotScope)
	}
}

func TestClientContractMismatch(t *testing.T) {
	tests := []struct {
		name         string
		experimental interface{}
	}{
		{"no experimental", nil},
		{"missing capability", map[string]interface{}{"other": true}},
		{"capability disabled", map[string]interface{}{CapabilityDiagram: false}},
		{"wrong shape", "surprise"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rwc := fakeServer(t, tt.experimental, func(getDiagramParams) (*diagram.Data, error) {
				return &diagram.Data{}, nil
			})
			_, err := NewClient(context.Background(), rwc, uri.File("/ws"))
			if !errors.Is(err, ErrContractBroken) {
				t.Fatalf("expected ErrContractBroken, got %v", err)
			}
		})
	}
}

func TestResolverNotInstalled(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	r := NewResolver("definitely-not-a-real-server", nil, uri.File("/ws"), testLogger())
	_, err := r.GetDiagram(context.Background(), "")
	if !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled, got %v", err)
	}
}

func TestResolveReapsDeadServer(t *testing.T) {
	t.Setenv("PATH", t.TempDir()) // reactivation will stop at LookPath

	rwc := fakeServer(t, map[string]interface{}{CapabilityDiagram: true}, func(getDiagramParams) (*diagram.Data, error) {
		return &diagram.Data{}, nil
	})
	client, err := NewClient(context.Background(), rwc, uri.File("/ws"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.Close()
	<-client.conn.Done()

	proc := exec.Command("/bin/sleep", "60")
	if err := proc.Start(); err != nil {
		t.Skipf("starting sleep: %v", err)
	}

	r := NewResolver("definitely-not-a-real-server", nil, uri.File("/ws"), testLogger())
	r.client = client
	r.proc = proc

	if _, err := r.GetDiagram(context.Background(), ""); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled, got %v", err)
	}
	if r.proc != nil {
		t.Error("expected the dead server's process handle to be cleared")
	}
	if proc.ProcessState == nil {
		t.Error("expected the dead server's process to be reaped, not left as a zombie")
	}
}

func TestClientNotConnected(t *testing.T) {
	rwc := fakeServer(t, map[string]interface{}{CapabilityDiagram: true}, func(getDiagramParams) (*diagram.Data, error) {
		return &diagram.Data{}, nil
	})

	ctx := context.Background()
	client, err := NewClient(ctx, rwc, uri.File("/ws"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.Close()
	<-client.conn.Done()

	if _, err := client.GetDiagram(ctx, ""); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

// Package bridge locates, activates, and talks to the Syster language
// server. The panel never reaches the server directly; it goes through a
// Resolver, whose every failure mode reduces to a single error value
// suitable for forwarding to the front end.
package bridge

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"
	"go.lsp.dev/uri"

	"github.com/systerlang/systerview/internal/diagram"
)

// DefaultCommand is the fixed identifier of the collaborating language
// server, resolved on PATH unless overridden in configuration.
const DefaultCommand = "syster-language-server"

// Resolver finds and activates the language server on demand, holding on
// to one live client handle. Activation is asynchronous and has no
// internal timeout; callers bound it through their context.
type Resolver struct {
	command string
	args    []string
	rootURI uri.URI
	log     zerolog.Logger

	mu     sync.Mutex
	client *Client
	proc   *exec.Cmd
}

// NewResolver returns a resolver for the given server command, rooted at
// the workspace identified by rootURI.
func NewResolver(command string, args []string, rootURI uri.URI, log zerolog.Logger) *Resolver {
	if command == "" {
		command = DefaultCommand
	}
	return &Resolver{command: command, args: args, rootURI: rootURI, log: log}
}

// GetDiagram resolves the server if needed and issues the diagram request.
// An empty uri means the whole workspace.
func (r *Resolver) GetDiagram(ctx context.Context, uriStr string) (*diagram.Data, error) {
	client, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return client.GetDiagram(ctx, uriStr)
}

// resolve returns the live client, activating the server first when there
// is none (or the previous one has gone down).
func (r *Resolver) resolve(ctx context.Context) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil && r.client.Alive() {
		return r.client, nil
	}
	r.teardownLocked()

	path, err := exec.LookPath(r.command)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not on PATH", ErrNotInstalled, r.command)
	}

	r.log.Info().Str("server", path).Msg("activating syster language server")

	cmd := exec.Command(path, r.args...)
	rwc, err := stdioPipe(cmd)
	if err != nil {
		return nil, fmt.Errorf("wiring server stdio: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %q: %w", r.command, err)
	}

	client, err := NewClient(ctx, rwc, r.rootURI)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	r.client = client
	r.proc = cmd
	return client, nil
}

// Close tears down the client and reaps the server process.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teardownLocked()
	return nil
}

// teardownLocked closes any previous client and reaps its server process
// so a replaced server never lingers as a zombie. Callers hold r.mu.
func (r *Resolver) teardownLocked() {
	if r.client != nil {
		if err := r.client.Close(); err != nil {
			r.log.Debug().Err(err).Msg("closing language server client")
		}
		r.client = nil
	}
	if r.proc != nil {
		if r.proc.ProcessState == nil {
			_ = r.proc.Process.Kill()
		}
		_ = r.proc.Wait()
		r.proc = nil
	}
}

// stdio joins a child process's stdout/stdin into one ReadWriteCloser for
// the JSON-RPC stream.
type stdio struct {
	io.ReadCloser
	io.WriteCloser
}

func (s stdio) Close() error {
	werr := s.WriteCloser.Close()
	rerr := s.ReadCloser.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

func stdioPipe(cmd *exec.Cmd) (io.ReadWriteCloser, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	return stdio{ReadCloser: stdout, WriteCloser: stdin}, nil
}

package bridge

import "errors"

// Failure conditions of the resolve/request pipeline. Every stage collapses
// to one of these, wrapped with detail; the panel catches all of them at
// its own boundary and forwards a single human-readable error message.
var (
	// ErrNotInstalled means the collaborating language-server program could
	// not be located. Terminal; never retried automatically.
	ErrNotInstalled = errors.New("syster language server not found")

	// ErrContractBroken means the server started but does not advertise the
	// diagram capability this panel requires.
	ErrContractBroken = errors.New("language server bridge contract broken")

	// ErrNotConnected means a client handle exists but its underlying
	// connection is not established or has gone down.
	ErrNotConnected = errors.New("language server not connected")
)

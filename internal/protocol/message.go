// Package protocol defines the JSON message contract between the panel host
// and the visual front end. Inbound messages are decoded into a tagged
// union so each variant carries exactly the fields its tag requires.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	lsp "go.lsp.dev/protocol"
)

// Message type tags, front end to host.
const (
	TypeReady              = "ready"
	TypeRefresh            = "refresh"
	TypeNavigate           = "navigate"
	TypeCreateElement      = "createElement"
	TypeUpdateElement      = "updateElement"
	TypeDeleteElement      = "deleteElement"
	TypeCreateRelationship = "createRelationship"
)

// Message type tags, host to front end.
const (
	TypeDiagram = "diagram"
	TypeError   = "error"
	TypeReveal  = "reveal"
)

// Decode failure sentinels. Both map to silent-ignore at the panel
// boundary: an unknown tag is not an error, and a message missing required
// fields for its tag is a caller contract violation, not a runtime fault.
var (
	ErrUnknownType = errors.New("unknown message type")
	ErrMalformed   = errors.New("malformed message")
)

// Inbound is a message received from the front end.
type Inbound interface {
	inbound()
}

// Ready signals that the front end has initialized and can accept diagrams.
type Ready struct{}

// Refresh requests a diagram refresh, scoped to URI when present or the
// whole workspace when empty.
type Refresh struct {
	URI string
}

// Navigate asks the host to open the given document with the cursor placed
// at the given zero-based position. Both fields are required.
type Navigate struct {
	URI      string
	Position lsp.Position
}

// ElementEdit carries one of the element/relationship mutation tags with
// its free-form payload. Mutation semantics are an unimplemented extension
// point; the panel only acknowledges these.
type ElementEdit struct {
	Op      string
	Payload json.RawMessage
}

func (Ready) inbound()       {}
func (Refresh) inbound()     {}
func (Navigate) inbound()    {}
func (ElementEdit) inbound() {}

// envelope is the raw wire shape before tag dispatch.
type envelope struct {
	Type     string          `json:"type"`
	URI      string          `json:"uri,omitempty"`
	Position *lsp.Position   `json:"position,omitempty"`
	Action   string          `json:"action,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Decode parses a raw front-end message and dispatches on its type tag.
// It returns ErrUnknownType for unrecognized tags and ErrMalformed for
// messages missing fields their tag requires.
func Decode(raw []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case TypeReady:
		return Ready{}, nil
	case TypeRefresh:
		return Refresh{URI: env.URI}, nil
	case TypeNavigate:
		if env.URI == "" || env.Position == nil {
			return nil, fmt.Errorf("%w: navigate requires uri and position", ErrMalformed)
		}
		return Navigate{URI: env.URI, Position: *env.Position}, nil
	case TypeCreateElement, TypeUpdateElement, TypeDeleteElement, TypeCreateRelationship:
		return ElementEdit{Op: env.Type, Payload: env.Payload}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

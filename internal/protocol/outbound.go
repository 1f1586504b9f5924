package protocol

import "github.com/systerlang/systerview/internal/diagram"

// DiagramMessage carries a full diagram replacement to the front end. The
// front end discards any prior state on receipt; there is no delta model.
type DiagramMessage struct {
	Type string        `json:"type"`
	Data *diagram.Data `json:"data"`
}

// ErrorMessage reports a failed refresh attempt. Every refresh produces
// exactly one terminal message, either a diagram or an error, never silence.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RevealMessage asks an already-attached front end to bring itself to the
// foreground instead of a second surface being created.
type RevealMessage struct {
	Type string `json:"type"`
}

// NewDiagram wraps diagram data in its wire envelope.
func NewDiagram(d *diagram.Data) DiagramMessage {
	return DiagramMessage{Type: TypeDiagram, Data: d}
}

// NewError wraps a failure message in its wire envelope.
func NewError(msg string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: msg}
}

// NewReveal returns the reveal signal.
func NewReveal() RevealMessage {
	return RevealMessage{Type: TypeReveal}
}

// Package diagram defines the read-only diagram aggregate produced by the
// Syster language server. The panel never mutates or persists these values;
// every refresh replaces the previous aggregate wholesale.
package diagram

// Symbol is a named model element in the diagram.
type Symbol struct {
	Name          string   `json:"name"`
	QualifiedName string   `json:"qualifiedName"`
	Kind          string   `json:"kind"`
	SubKind       string   `json:"subKind,omitempty"` // "definition" or "usage"
	Features      []string `json:"features,omitempty"`
	TypeRef       string   `json:"typeRef,omitempty"`
	Direction     string   `json:"direction,omitempty"` // for ports: "in", "out", "inout"
}

// Relationship is a typed directed edge between two qualified names.
type Relationship struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// Data aggregates the symbols and relationships of one scoped view, either
// a single source document or the whole workspace.
type Data struct {
	Symbols       []Symbol       `json:"symbols"`
	Relationships []Relationship `json:"relationships"`
}

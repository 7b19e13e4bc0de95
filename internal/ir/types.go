package ir

import "encoding/json"

// Property type codes used in exchange documents.
const (
	TypeDouble  = "D"
	TypeInteger = "I"
	TypeBoolean = "B"
)

// PropertyDoc is one property definition in a PropertyPackDoc.
//
// Default is optional; when absent the property defaults to Max, matching
// how freshly added nodes and edges are initialized.
type PropertyDoc struct {
	Name    string   `json:"name" validate:"required"`
	Type    string   `json:"type,omitempty" validate:"omitempty,oneof=D I B"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max" validate:"gtefield=Min"`
	Default *float64 `json:"default,omitempty"`
}

// PropertyPackDoc is the exchange shape of a property pack: one ordered
// array of definitions per category. Array position is the property index.
type PropertyPackDoc struct {
	Nodes    []PropertyDoc `json:"nodes" validate:"dive"`
	Edges    []PropertyDoc `json:"edges" validate:"dive"`
	Networks []PropertyDoc `json:"networks" validate:"dive"`
}

// NodeDoc is one node in a NetworkDoc.
//
// InputID and OutputID are present only for attached I/O nodes. The inputs
// and outputs arrays of the enclosing document are authoritative; these
// fields are carried for readers that inspect nodes in isolation.
type NodeDoc struct {
	ID       uint32    `json:"id"`
	Name     string    `json:"name,omitempty"`
	InputID  *int      `json:"input_id,omitempty"`
	OutputID *int      `json:"output_id,omitempty"`
	Values   []float64 `json:"values"`
	Coords   []float64 `json:"coords,omitempty"`
}

// EdgeDoc is one directed edge in a NetworkDoc.
type EdgeDoc struct {
	From          uint32    `json:"from"`
	To            uint32    `json:"to"`
	Values        []float64 `json:"values"`
	ControlPoints []float64 `json:"control_points,omitempty"`
}

// NetworkDoc is the JSON exchange shape of a network.
//
// Inputs and Outputs list node ids by channel position; -1 marks a channel
// whose node has been removed.
type NetworkDoc struct {
	Properties     PropertyPackDoc            `json:"properties"`
	Nodes          []NodeDoc                  `json:"nodes"`
	Edges          []EdgeDoc                  `json:"edges"`
	Inputs         []int64                    `json:"inputs"`
	Outputs        []int64                    `json:"outputs"`
	NetworkValues  []float64                  `json:"network_values"`
	AssociatedData map[string]json.RawMessage `json:"associated_data,omitempty"`
}

// Spike is a timed stimulus.
//
// At the driver boundary ID names the target node; at the processor
// boundary it names the input channel.
type Spike struct {
	ID    int     `json:"id"`
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

package risp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/processor"
	"github.com/roach88/neurograph/internal/property"
)

// Leak modes.
const (
	LeakNone         = "none"
	LeakAll          = "all"
	LeakConfigurable = "configurable"
)

// Property names the processor schema declares.
const (
	PropThreshold = "Threshold"
	PropLeak      = "Leak"
	PropWeight    = "Weight"
	PropDelay     = "Delay"
)

// Params are the resolved construction parameters, defaults included.
type Params struct {
	MinWeight          float64 `json:"min_weight"`
	MaxWeight          float64 `json:"max_weight" validate:"gtefield=MinWeight"`
	MinThreshold       float64 `json:"min_threshold"`
	MaxThreshold       float64 `json:"max_threshold" validate:"gtefield=MinThreshold"`
	MinDelay           int     `json:"min_delay" validate:"gte=1"`
	MaxDelay           int     `json:"max_delay" validate:"gtefield=MinDelay"`
	MinPotential       float64 `json:"min_potential" validate:"lte=0"`
	LeakMode           string  `json:"leak_mode" validate:"oneof=none all configurable"`
	Discrete           bool    `json:"discrete"`
	SpikeValueFactor   float64 `json:"spike_value_factor"`
	ThresholdInclusive bool    `json:"threshold_inclusive"`
	RunTimeInclusive   bool    `json:"run_time_inclusive"`
}

// paramsDoc is the wire form. Pointers distinguish "absent" from zero so
// required keys can be enforced and optional keys defaulted.
type paramsDoc struct {
	MinWeight          *float64 `json:"min_weight" validate:"required"`
	MaxWeight          *float64 `json:"max_weight" validate:"required"`
	MinThreshold       *float64 `json:"min_threshold" validate:"required"`
	MaxThreshold       *float64 `json:"max_threshold" validate:"required"`
	MinDelay           *int     `json:"min_delay"`
	MaxDelay           *int     `json:"max_delay" validate:"required"`
	MinPotential       *float64 `json:"min_potential" validate:"required"`
	LeakMode           *string  `json:"leak_mode"`
	Discrete           *bool    `json:"discrete" validate:"required"`
	SpikeValueFactor   *float64 `json:"spike_value_factor"`
	ThresholdInclusive *bool    `json:"threshold_inclusive"`
	RunTimeInclusive   *bool    `json:"run_time_inclusive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultParams is used when the processor is constructed with no
// parameters: a continuous-valued network with unit ranges.
func DefaultParams() Params {
	return Params{
		MinWeight:          -1,
		MaxWeight:          1,
		MinThreshold:       0,
		MaxThreshold:       1,
		MinDelay:           1,
		MaxDelay:           5,
		MinPotential:       -1,
		LeakMode:           LeakNone,
		SpikeValueFactor:   1,
		ThresholdInclusive: true,
	}
}

// ParseParams decodes and validates a parameter blob. Unknown keys are
// rejected. An empty blob or empty object yields DefaultParams.
func ParseParams(raw json.RawMessage) (Params, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return DefaultParams(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var doc paramsDoc
	if err := dec.Decode(&doc); err != nil {
		return Params{}, badParams("decode: %v", err)
	}
	if doc == (paramsDoc{}) {
		return DefaultParams(), nil
	}
	if err := validate.Struct(doc); err != nil {
		return Params{}, badParams("%v", err)
	}

	p := Params{
		MinWeight:          *doc.MinWeight,
		MaxWeight:          *doc.MaxWeight,
		MinThreshold:       *doc.MinThreshold,
		MaxThreshold:       *doc.MaxThreshold,
		MinDelay:           1,
		MaxDelay:           *doc.MaxDelay,
		MinPotential:       *doc.MinPotential,
		LeakMode:           LeakNone,
		Discrete:           *doc.Discrete,
		ThresholdInclusive: true,
	}
	if doc.MinDelay != nil {
		p.MinDelay = *doc.MinDelay
	}
	if doc.LeakMode != nil {
		p.LeakMode = *doc.LeakMode
	}
	if doc.ThresholdInclusive != nil {
		p.ThresholdInclusive = *doc.ThresholdInclusive
	}
	if doc.RunTimeInclusive != nil {
		p.RunTimeInclusive = *doc.RunTimeInclusive
	}
	// spike_value_factor defaults to max_weight so a normalized spike of 1
	// carries the strongest synaptic weight.
	p.SpikeValueFactor = p.MaxWeight
	if doc.SpikeValueFactor != nil {
		p.SpikeValueFactor = *doc.SpikeValueFactor
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks ranges and, for discrete processors, integrality.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return badParams("%v", err)
	}
	if !property.Finite(p.MinWeight, p.MaxWeight, p.MinThreshold, p.MaxThreshold, p.MinPotential, p.SpikeValueFactor) {
		return badParams("parameters must be finite")
	}
	if p.Discrete {
		for _, f := range []struct {
			name  string
			value float64
		}{
			{"min_weight", p.MinWeight},
			{"max_weight", p.MaxWeight},
			{"min_threshold", p.MinThreshold},
			{"max_threshold", p.MaxThreshold},
			{"min_potential", p.MinPotential},
		} {
			if f.value != math.Trunc(f.value) {
				return badParams("%s must be an integer when discrete is true (got %v)", f.name, f.value)
			}
		}
	}
	return nil
}

// Properties builds the schema a network must carry to be loaded.
func (p Params) Properties() *property.Pack {
	valueType := ir.TypeDouble
	if p.Discrete {
		valueType = ir.TypeInteger
	}

	pack := property.NewPack()
	// Ranges were validated above, so Add cannot fail.
	mustAdd(pack, property.Node, ir.PropertyDoc{Name: PropThreshold, Type: valueType, Min: p.MinThreshold, Max: p.MaxThreshold})
	if p.LeakMode == LeakConfigurable {
		mustAdd(pack, property.Node, ir.PropertyDoc{Name: PropLeak, Type: ir.TypeBoolean, Min: 0, Max: 1})
	}
	mustAdd(pack, property.Edge, ir.PropertyDoc{Name: PropWeight, Type: valueType, Min: p.MinWeight, Max: p.MaxWeight})
	mustAdd(pack, property.Edge, ir.PropertyDoc{Name: PropDelay, Type: ir.TypeInteger, Min: float64(p.MinDelay), Max: float64(p.MaxDelay)})
	return pack
}

func mustAdd(pack *property.Pack, cat property.Category, doc ir.PropertyDoc) {
	if _, err := pack.Add(cat, doc); err != nil {
		panic(fmt.Sprintf("risp schema: %v", err))
	}
}

func badParams(format string, args ...any) error {
	return processor.NewError(processor.ErrCodeBadParams, "risp: "+format, args...)
}

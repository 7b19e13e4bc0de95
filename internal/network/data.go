package network

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Reserved associated data keys. The processor launcher records the
// processor name under DataKeyOther as {"proc_name": ...} and its
// construction parameters under DataKeyProcParams. Nothing else in this
// package interprets them.
const (
	DataKeyOther      = "other"
	DataKeyProcParams = "proc_params"

	procNameField = "proc_name"
)

// DataKeys returns the associated data keys in ascending order.
func (n *Network) DataKeys() []string {
	return slices.Sorted(maps.Keys(n.data))
}

// Data returns the value stored under key.
func (n *Network) Data(key string) (json.RawMessage, error) {
	v, ok := n.data[key]
	if !ok {
		return nil, newError(ErrCodeUnknownKey, "no associated data under %q", key)
	}
	return slices.Clone(v), nil
}

// SetData stores a JSON value under key. The value is compacted and
// otherwise kept as given.
func (n *Network) SetData(key string, value json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return newError(ErrCodeMalformed, "associated data %q is not valid JSON: %v", key, err)
	}
	n.data[key] = buf.Bytes()
	return nil
}

// DeleteData removes key.
func (n *Network) DeleteData(key string) error {
	if _, ok := n.data[key]; !ok {
		return newError(ErrCodeUnknownKey, "no associated data under %q", key)
	}
	delete(n.data, key)
	return nil
}

// ProcessorSpec reads the processor name and construction parameters
// recorded in the reserved keys. Missing parameters yield "{}".
func (n *Network) ProcessorSpec() (string, json.RawMessage, error) {
	raw, ok := n.data[DataKeyOther]
	if !ok {
		return "", nil, newError(ErrCodeUnknownKey, "no processor recorded under %q", DataKeyOther)
	}
	var other map[string]json.RawMessage
	if err := json.Unmarshal(raw, &other); err != nil {
		return "", nil, newError(ErrCodeMalformed, "%q is not an object: %v", DataKeyOther, err)
	}
	var name string
	if err := json.Unmarshal(other[procNameField], &name); err != nil || name == "" {
		return "", nil, newError(ErrCodeMalformed, "%q has no %q string", DataKeyOther, procNameField)
	}
	params := json.RawMessage("{}")
	if p, ok := n.data[DataKeyProcParams]; ok {
		params = slices.Clone(p)
	}
	return name, params, nil
}

// SetProcessorSpec records the processor name and parameters in the
// reserved keys, keeping any other members of the "other" object.
func (n *Network) SetProcessorSpec(name string, params json.RawMessage) error {
	var other map[string]json.RawMessage
	if raw, ok := n.data[DataKeyOther]; ok {
		if err := json.Unmarshal(raw, &other); err != nil {
			other = nil
		}
	}
	// A non-object or null "other" is replaced.
	if other == nil {
		other = make(map[string]json.RawMessage)
	}
	encodedName, err := json.Marshal(name)
	if err != nil {
		return err
	}
	other[procNameField] = encodedName
	encodedOther, err := json.Marshal(other)
	if err != nil {
		return err
	}
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, params); err != nil {
		return newError(ErrCodeMalformed, "processor parameters are not valid JSON: %v", err)
	}
	n.data[DataKeyOther] = encodedOther
	n.data[DataKeyProcParams] = compact.Bytes()
	return nil
}

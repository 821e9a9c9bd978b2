package record

import (
	"bytes"
	"encoding/json"
)

// Payload is a decoded response body. For object bodies it remembers the
// order keys appeared on the wire, which Project depends on.
type Payload struct {
	Value any
	keys  []string
}

// DecodePayload parses a response body. An empty body decodes to an empty
// object.
func DecodePayload(body []byte) (Payload, error) {
	if len(body) == 0 {
		return Payload{Value: map[string]any{}}, nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return Payload{}, err
	}
	p := Payload{Value: v}
	if _, ok := v.(map[string]any); ok {
		p.keys = objectKeys(body)
	}
	return p, nil
}

// NewPayload wraps an already-decoded value. Object keys are ordered
// lexically since the wire order is unknown.
func NewPayload(v any) Payload {
	p := Payload{Value: v}
	if m, ok := v.(map[string]any); ok {
		p.keys = sortedKeys(m)
	}
	return p
}

// Keys returns the object's keys in wire order, or nil for non-objects.
func (p Payload) Keys() []string {
	m, ok := p.Value.(map[string]any)
	if !ok {
		return nil
	}
	if len(p.keys) != len(m) {
		return sortedKeys(m)
	}
	return p.keys
}

// Object returns the payload as a record when it is a JSON object.
func (p Payload) Object() (Record, bool) {
	m, ok := p.Value.(map[string]any)
	if !ok {
		return nil, false
	}
	return Record(m), true
}

// List returns the payload when it is a JSON array.
func (p Payload) List() ([]any, bool) {
	list, ok := p.Value.([]any)
	return list, ok
}

// IsEmpty reports whether the payload carries nothing: null, {} or [].
func (p Payload) IsEmpty() bool {
	return !Truthy(p.Value)
}

// objectKeys scans the top level of a JSON object and returns its keys in
// order, dropping repeats.
func objectKeys(body []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}
	seen := make(map[string]bool)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

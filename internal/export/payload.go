package export

import (
	"bytes"
	"encoding/json"

	"sheets-bridge/internal/model"
)

// Payload is the ordered field-id → value mapping sent to the Apps Script
// endpoint. Key order matches the selection order, which is also the header
// order baked into the generated script, so the two must never drift.
type Payload struct {
	pairs []pair
}

type pair struct {
	id    string
	value string
}

// Assemble builds a payload by resolving each selected field against the
// order. Absent fields are omitted entirely; fields that resolve to an
// empty string are kept. Assembly cannot fail.
func Assemble(o *model.Order, fieldIDs []string) Payload {
	var p Payload
	for _, id := range fieldIDs {
		if v, ok := Resolve(id, o); ok {
			p.pairs = append(p.pairs, pair{id: id, value: v})
		}
	}
	return p
}

// Len returns the number of fields in the payload.
func (p Payload) Len() int {
	return len(p.pairs)
}

// IDs returns the field IDs in payload order.
func (p Payload) IDs() []string {
	ids := make([]string, len(p.pairs))
	for i, pr := range p.pairs {
		ids[i] = pr.id
	}
	return ids
}

// Get returns the value for a field ID, with ok=false when omitted.
func (p Payload) Get(id string) (string, bool) {
	for _, pr := range p.pairs {
		if pr.id == id {
			return pr.value, true
		}
	}
	return "", false
}

// MarshalJSON emits a JSON object whose member order follows the payload's
// pair order. encoding/json map marshaling sorts keys, which would break
// the ordering contract, so this is hand-rolled.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pr := range p.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pr.id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(pr.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

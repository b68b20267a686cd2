package models

import "encoding/json"

// WhiteboardDelta is the added/updated/removed triple describing a whiteboard
// change batch. It is a wire-level envelope: the store only ever holds the
// flattened snapshot that results from folding deltas in arrival order.
//
// Updated entries come in two shapes used interchangeably by clients: a
// two-element [old, new] pair, or a bare new value. Both are accepted; the
// pair contributes its second element. Removed values carry no meaning, only
// their keys do.
type WhiteboardDelta struct {
	Added   map[string]json.RawMessage `json:"added,omitempty"`
	Updated map[string]json.RawMessage `json:"updated,omitempty"`
	Removed map[string]json.RawMessage `json:"removed,omitempty"`
}

// Fold merges the delta into snapshot in place and returns it. Applying the
// same delta twice yields the same snapshot (idempotent per key), and
// removing an unknown key is a no-op.
func (d WhiteboardDelta) Fold(snapshot map[string]json.RawMessage) map[string]json.RawMessage {
	if snapshot == nil {
		snapshot = make(map[string]json.RawMessage)
	}
	for id, el := range d.Added {
		snapshot[id] = el
	}
	for id, el := range d.Updated {
		snapshot[id] = updatedValue(el)
	}
	for id := range d.Removed {
		delete(snapshot, id)
	}
	return snapshot
}

// updatedValue unwraps the [old, new] pair shape, passing every other shape
// through verbatim.
func updatedValue(raw json.RawMessage) json.RawMessage {
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err == nil && len(pair) == 2 {
		return pair[1]
	}
	return raw
}

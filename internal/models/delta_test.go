package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owaisjunedi/dev-interview-platform/internal/models"
)

func delta(t *testing.T, raw string) models.WhiteboardDelta {
	t.Helper()
	var d models.WhiteboardDelta
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return d
}

func TestWhiteboardDelta_Fold(t *testing.T) {
	t.Run("add then update then remove", func(t *testing.T) {
		snapshot := map[string]json.RawMessage{}

		snapshot = delta(t, `{"added":{"s1":{"type":"geo"}}}`).Fold(snapshot)
		require.Len(t, snapshot, 1)
		assert.JSONEq(t, `{"type":"geo"}`, string(snapshot["s1"]))

		snapshot = delta(t, `{"updated":{"s1":["old","new"]}}`).Fold(snapshot)
		require.Len(t, snapshot, 1)
		assert.JSONEq(t, `"new"`, string(snapshot["s1"]))

		snapshot = delta(t, `{"removed":{"s1":true}}`).Fold(snapshot)
		assert.Empty(t, snapshot)
	})

	t.Run("applying the same delta twice is idempotent", func(t *testing.T) {
		d := delta(t, `{"added":{"s1":{"type":"geo"}}}`)

		once := d.Fold(map[string]json.RawMessage{})
		twice := d.Fold(d.Fold(map[string]json.RawMessage{}))

		assert.Equal(t, once, twice)
	})

	t.Run("updated accepts a bare new value", func(t *testing.T) {
		snapshot := delta(t, `{"added":{"s1":{"type":"geo"}}}`).Fold(map[string]json.RawMessage{})

		snapshot = delta(t, `{"updated":{"s1":{"type":"arrow"}}}`).Fold(snapshot)

		assert.JSONEq(t, `{"type":"arrow"}`, string(snapshot["s1"]))
	})

	t.Run("a two-element array pair contributes its second element", func(t *testing.T) {
		snapshot := delta(t, `{"updated":{"s1":[{"w":1},{"w":2}]}}`).Fold(map[string]json.RawMessage{})

		assert.JSONEq(t, `{"w":2}`, string(snapshot["s1"]))
	})

	t.Run("arrays of other lengths pass through verbatim", func(t *testing.T) {
		snapshot := delta(t, `{"updated":{"s1":[1,2,3]}}`).Fold(map[string]json.RawMessage{})

		assert.JSONEq(t, `[1,2,3]`, string(snapshot["s1"]))
	})

	t.Run("removing an unknown key is a no-op", func(t *testing.T) {
		snapshot := delta(t, `{"added":{"s1":{"type":"geo"}}}`).Fold(map[string]json.RawMessage{})

		snapshot = delta(t, `{"removed":{"ghost":true}}`).Fold(snapshot)

		require.Len(t, snapshot, 1)
		assert.Contains(t, snapshot, "s1")
	})

	t.Run("update inserts when the key is new", func(t *testing.T) {
		snapshot := delta(t, `{"updated":{"s9":{"type":"note"}}}`).Fold(map[string]json.RawMessage{})

		assert.JSONEq(t, `{"type":"note"}`, string(snapshot["s9"]))
	})

	t.Run("nil snapshot is treated as empty", func(t *testing.T) {
		snapshot := delta(t, `{"added":{"s1":1}}`).Fold(nil)

		require.Len(t, snapshot, 1)
	})
}

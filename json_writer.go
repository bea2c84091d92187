package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object whose fields are written in call
// order, so that ledger lines are stable and diff friendly.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Append writes key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("could not marshal %q: %w", key, err)
		return w
	}
	fmt.Fprintf(w, "%q:", key)
	w.Write(data)
	w.WriteByte(',')
	return w
}

// Optional is like Append but skips zero values.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// EmbedFrom marshals v, which must encode as an object, and inlines its
// fields.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("could not marshal embedded object: %w", err)
		return w
	}
	data = bytes.TrimSpace(data)
	if len(data) < 2 || data[0] != '{' || data[len(data)-1] != '}' {
		w.err = fmt.Errorf("cannot embed %T, it is not a JSON object", v)
		return w
	}
	if inner := data[1 : len(data)-1]; len(inner) > 0 {
		w.Write(inner)
		w.WriteByte(',')
	}
	return w
}

// MarshalJSON returns the object built so far.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	out := make([]byte, 0, len(content)+2)
	out = append(out, '{')
	out = append(out, content...)
	return append(out, '}'), nil
}

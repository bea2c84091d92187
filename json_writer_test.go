package tracker

import (
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	tests := []struct {
		name  string
		build func(w *jsonObjectWriter)
		want  string
	}{
		{"empty", func(w *jsonObjectWriter) {}, `{}`},
		{"ordered", func(w *jsonObjectWriter) {
			w.Append("b", 1).Append("a", "x")
		}, `{"b":1,"a":"x"}`},
		{"optional", func(w *jsonObjectWriter) {
			w.Optional("zero", 0).Optional("empty", "").Optional("set", "y")
		}, `{"set":"y"}`},
		{"embedded money", func(w *jsonObjectWriter) {
			w.Append("id", "1").EmbedFrom(M(12.5, "USD")).Append("z", true)
		}, `{"id":"1","amount":12.5,"currency":"USD","z":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w jsonObjectWriter
			tt.build(&w)
			got, err := w.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestJsonObjectWriterEmbedNonObject(t *testing.T) {
	var w jsonObjectWriter
	w.EmbedFrom([]int{1, 2})
	if _, err := w.MarshalJSON(); err == nil {
		t.Error("embedding an array should fail")
	}
}

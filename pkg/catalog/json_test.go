package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestDecodeJSON(t *testing.T) {
	data := []byte("{\n\t\"z\": 1,\n\t\"a\": {\n\t\t\"b\": [1, 2.5, true, null, \"x\"]\n\t}\n}")

	doc, err := decodeJSON(data)
	if err != nil {
		t.Fatalf("decodeJSON() error = %v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		t.Fatalf("decodeJSON() returned %v, want a document with one root", doc.Kind)
	}

	root := doc.Content[0]
	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	if diff := cmp.Diff([]string{"z", "a"}, keys); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}

	b := root.Content[3].Content[0]
	if b.Line != 4 || b.Column != 3 {
		t.Errorf("key b at %d:%d, want 4:3", b.Line, b.Column)
	}

	seq := root.Content[3].Content[1]
	var tags []string
	for _, item := range seq.Content {
		tags = append(tags, item.Tag)
	}
	if diff := cmp.Diff([]string{"!!int", "!!float", "!!bool", "!!null", "!!str"}, tags); diff != "" {
		t.Errorf("scalar tags mismatch (-want +got):\n%s", diff)
	}

	var tree map[string]any
	if err := doc.Decode(&tree); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := map[string]any{
		"z": 1,
		"a": map[string]any{"b": []any{1, 2.5, true, nil, "x"}},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSON_StringsStayStrings(t *testing.T) {
	doc, err := decodeJSON([]byte(`{"a": "true", "b": "1"}`))
	if err != nil {
		t.Fatalf("decodeJSON() error = %v", err)
	}
	var tree map[string]any
	if err := doc.Decode(&tree); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": "true", "b": "1"}, tree); diff != "" {
		t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{name: "empty", input: "", wantLine: 1},
		{name: "unterminated object", input: "{\n  \"a\": 1,\n", wantLine: 3},
		{name: "bad value", input: "{\n  \"a\": nope\n}", wantLine: 2},
		{name: "trailing data", input: "{}\n{}", wantLine: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeJSON([]byte(tt.input))
			if err == nil {
				t.Fatal("decodeJSON() expected error, got nil")
			}
			serr, ok := err.(*jsonSyntaxError)
			if !ok {
				t.Fatalf("decodeJSON() error type = %T, want *jsonSyntaxError", err)
			}
			if serr.Line != tt.wantLine {
				t.Errorf("error line = %d, want %d (%v)", serr.Line, tt.wantLine, err)
			}
		})
	}
}

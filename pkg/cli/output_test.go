package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type result struct {
	ID        string    `json:"id" yaml:"id"`
	AudibleHz []float64 `json:"audible_frequencies" yaml:"audible_frequencies"`
}

func (r result) Table() Table {
	t := Table{Title: r.ID, Headers: []string{"#", "Hz"}}
	for i, hz := range r.AudibleHz {
		t.Rows = append(t.Rows, []string{string(rune('1' + i)), FormatHz(hz)})
	}
	return t
}

func sampleResults() []result {
	return []result{{ID: "mp-149", AudibleHz: []float64{20, 8000}}}
}

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(sampleResults(), OutputOptions{Format: FormatJSON, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}

	var got []result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if len(got) != 1 || got[0].ID != "mp-149" || got[0].AudibleHz[1] != 8000 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestOutput_JSONIndent(t *testing.T) {
	var buf bytes.Buffer
	err := Output(map[string]any{"id": "mp-149"}, OutputOptions{Format: FormatJSON, Indent: "    ", Writer: &buf})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "    \"id\"") {
		t.Errorf("Output should be indented, got: %s", buf.String())
	}
}

func TestOutput_YAML(t *testing.T) {
	for _, format := range []OutputFormat{FormatYAML, ""} {
		var buf bytes.Buffer
		if err := Output(sampleResults(), OutputOptions{Format: format, Writer: &buf}); err != nil {
			t.Fatalf("Output(%q) error: %v", format, err)
		}
		out := buf.String()
		if !strings.Contains(out, "id: mp-149") || !strings.Contains(out, "audible_frequencies:") {
			t.Errorf("Output(%q) = %s", format, out)
		}
	}
}

func TestOutput_Table(t *testing.T) {
	tests := []struct {
		name   string
		result any
	}{
		{"value", Table{Title: "t", Rows: [][]string{{"a"}}}},
		{"pointer", &Table{Title: "t", Rows: [][]string{{"a"}}}},
		{"tabler", sampleResults()[0]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Output(tt.result, OutputOptions{Format: FormatTable, Writer: &buf}); err != nil {
				t.Fatalf("Output error: %v", err)
			}
			if !strings.Contains(buf.String(), "╭") {
				t.Errorf("not a table: %s", buf.String())
			}
		})
	}

	if err := Output(42, OutputOptions{Format: FormatTable, Writer: &bytes.Buffer{}}); err == nil {
		t.Error("expected error for non-table result")
	}
}

func TestOutput_Raw(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   string
	}{
		{"bytes", []byte("raw bytes"), "raw bytes"},
		{"string", "raw string", "raw string"},
		{"other", map[string]int{"n": 1}, "n: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Output(tt.result, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
				t.Fatalf("Output error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	err := Output("x", OutputOptions{Format: "xml", Writer: &bytes.Buffer{}})
	if err == nil {
		t.Error("Output should fail for unsupported format")
	}
}

func TestOutput_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := Output(sampleResults(), OutputOptions{Format: FormatJSON, File: path}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.Contains(string(content), `"mp-149"`) {
		t.Errorf("file content = %s", content)
	}
}

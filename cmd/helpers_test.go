package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inovacc/gistvault/internal/settings"
	"github.com/inovacc/gistvault/internal/store"
)

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "empty path",
			input:   "",
			wantErr: true,
		},
		{
			name:    "absolute path",
			input:   "/tmp/test",
			wantErr: false,
		},
		{
			name:    "home path",
			input:   "~/test",
			wantErr: false,
		},
		{
			name:    "relative path",
			input:   "test/path",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("expandPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && !filepath.IsAbs(result) {
				t.Errorf("expandPath(%q) = %q, want absolute path", tt.input, result)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "string shorter than max",
			input:    "test",
			maxLen:   10,
			expected: "test",
		},
		{
			name:     "string longer than max",
			input:    "testing",
			maxLen:   5,
			expected: "te...",
		},
		{
			name:     "max length 3",
			input:    "testing",
			maxLen:   3,
			expected: "tes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(time.Time{}); got != "-" {
		t.Errorf("formatTime(zero) = %q, want \"-\"", got)
	}

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	if got := formatTime(ts); got != "2024-03-01 12:00:00" {
		t.Errorf("formatTime() = %q", got)
	}
}

func TestParseSettingValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{name: "plain string", input: "dark", want: "dark"},
		{name: "number", input: "50", want: float64(50)},
		{name: "bool", input: "true", want: true},
		{name: "quoted string", input: `"x"`, want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSettingValue(tt.input); got != tt.want {
				t.Errorf("parseSettingValue(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}

	list, ok := parseSettingValue(`["a","b"]`).([]any)
	if !ok || len(list) != 2 {
		t.Errorf("parseSettingValue(array) = %#v", list)
	}
}

func TestSelectPath(t *testing.T) {
	doc := []byte(`{"items":[{"id":1,"text":"first"},{"id":2,"text":"second"}]}`)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "string value", path: "items.0.text", want: "first"},
		{name: "number value", path: "items.1.id", want: "2"},
		{name: "array query", path: "items.#.text", want: "[\n  \"first\",\n  \"second\"\n]"},
		{name: "count", path: "items.#", want: "2"},
		{name: "missing", path: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectPath(doc, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("selectPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("selectPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseDocument(t *testing.T) {
	if _, err := parseDocument([]byte(`{"items":[]}`)); err != nil {
		t.Errorf("parseDocument(valid) error = %v", err)
	}

	if _, err := parseDocument([]byte(`{"items":`)); err == nil {
		t.Error("parseDocument(invalid) expected error")
	}
}

func TestReadInput(t *testing.T) {
	data, err := readInput(`{"a":1}`, "")
	if err != nil || string(data) != `{"a":1}` {
		t.Errorf("readInput(inline) = %q, %v", data, err)
	}

	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"b":2}`), 0o600); err != nil {
		t.Fatal(err)
	}

	data, err = readInput("", path)
	if err != nil || string(data) != `{"b":2}` {
		t.Errorf("readInput(file) = %q, %v", data, err)
	}

	if _, err := readInput("", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("readInput(missing file) expected error")
	}
}

func TestDocumentID(t *testing.T) {
	svc := settings.NewService(nil, store.NewMemory())

	if _, err := documentID(svc, nil); err == nil || !strings.Contains(err.Error(), "doc create") {
		t.Errorf("documentID() with nothing stored error = %v", err)
	}

	if err := svc.SetLastDocumentID("abc123"); err != nil {
		t.Fatal(err)
	}

	if id, err := documentID(svc, nil); err != nil || id != "abc123" {
		t.Errorf("documentID() = %q, %v, want abc123", id, err)
	}

	if id, err := documentID(svc, []string{"def456"}); err != nil || id != "def456" {
		t.Errorf("documentID(arg) = %q, %v, want def456", id, err)
	}
}

func TestCommandTree(t *testing.T) {
	commands := [][]string{
		{"auth", "setup"},
		{"auth", "login"},
		{"auth", "logout"},
		{"auth", "status"},
		{"auth", "reset"},
		{"doc", "create"},
		{"doc", "get"},
		{"doc", "put"},
		{"doc", "list"},
		{"doc", "items", "list"},
		{"doc", "items", "add"},
		{"doc", "items", "remove"},
		{"settings", "init"},
		{"settings", "show"},
		{"settings", "add"},
		{"settings", "remove"},
		{"settings", "check"},
		{"settings", "set"},
		{"secret", "set"},
		{"secret", "get"},
		{"secret", "rm"},
		{"data", "export"},
		{"data", "import"},
		{"config", "show"},
		{"config", "init"},
		{"version"},
	}

	for _, path := range commands {
		name := strings.Join(path, " ")
		t.Run(name, func(t *testing.T) {
			found, _, err := GetRootCmd().Find(path)
			if err != nil {
				t.Fatalf("Find(%q) error = %v", name, err)
			}
			if found.Name() != path[len(path)-1] {
				t.Errorf("Find(%q) = %q", name, found.Name())
			}
			if found.RunE == nil && found.Run == nil {
				t.Errorf("%q has no run function", name)
			}
		})
	}
}

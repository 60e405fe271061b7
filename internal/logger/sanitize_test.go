package logger

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "/api/v1/metrics", want: "/api/v1/metrics"},
		{name: "line breaks", input: "/api/v1/metrics\n/fake\r", want: "/api/v1/metrics/fake"},
		{name: "control characters", input: "/api\x00/v1\x1b", want: "/api/v1"},
		{name: "invalid utf8", input: "/api/\xff", want: "/api/"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizePath(tt.input); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSanitizePath_Truncates(t *testing.T) {
	t.Parallel()

	got := SanitizePath("/" + strings.Repeat("a", MaxPathLength*2))
	if len(got) != MaxPathLength+len("...") {
		t.Errorf("Expected length %d, got %d", MaxPathLength+3, len(got))
	}
}

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	if got := SanitizeString("héllo wörld", 2); got != "h..." {
		t.Errorf("Expected rune-safe truncation 'h...', got %q", got)
	}
	if got := SanitizeString(strings.Repeat("é", 10), 5); !utf8.ValidString(got) {
		t.Errorf("Expected valid UTF-8, got %q", got)
	}
	if got := SanitizeString("tab\there", 0); got != "tab\there" {
		t.Errorf("Expected tab kept, got %q", got)
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError(nil); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
	if got := SanitizeError(errors.New("boom\x07")); got != "boom" {
		t.Errorf("Expected 'boom', got %q", got)
	}
}

func TestSanitizeID(t *testing.T) {
	t.Parallel()

	id := strings.Repeat("x", MaxIDLength+10)
	if got := SanitizeID(id); len(got) != MaxIDLength+3 {
		t.Errorf("Expected length %d, got %d", MaxIDLength+3, len(got))
	}
}

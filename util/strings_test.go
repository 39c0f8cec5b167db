package util

import "testing"

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "hello", "world"); got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
	if got := Coalesce(0, 0, 42); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  es  ", "es"},
		{"removes control chars", "zh\x00-CN", "zh-CN"},
		{"removes tabs and newlines", "fr\n\t", "fr"},
		{"empty string", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeString(tc.input); got != tc.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hello..."},
		{"привет мир", 6, "привет..."},
		{"anything", 0, ""},
	}
	for _, tc := range tests {
		if got := Truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

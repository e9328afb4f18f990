package textutil

import "testing"

func TestNormalizeTranscript(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"collapses runs", "  open   the\tsettings\n\npage ", "open the settings page"},
		{"drops control", "click\x00 here\x07", "click here"},
		{"drops bom", "\uFEFFhello", "hello"},
		{"composes", "cafe\u0301", "caf\u00e9"},
		{"non-breaking space", "a\u00a0b", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTranscript(tt.in); got != tt.want {
				t.Fatalf("NormalizeTranscript(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"click", "Click"},
		{" type text ", "Type Text"},
	}
	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Fatalf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "unknown"},
		{"  ", "unknown"},
		{"3F2504E0-4F89-11D3", "3f2504e0-4f89-11d3"},
		{"../etc/passwd", "___etc_passwd"},
		{"snake_case", "snake_case"},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.in); got != tt.want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

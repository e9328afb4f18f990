package logs_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"clickscribe/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), logs.FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTail(t *testing.T) {
	path := writeLog(t, "a1\nb2\na3\nb4\na5\n")
	tests := []struct {
		name string
		opts logs.TailOptions
		want []string
	}{
		{"all", logs.TailOptions{}, []string{"a1", "b2", "a3", "b4", "a5"}},
		{"last two", logs.TailOptions{Limit: 2}, []string{"b4", "a5"}},
		{"limit above count", logs.TailOptions{Limit: 10}, []string{"a1", "b2", "a3", "b4", "a5"}},
		{"filtered", logs.TailOptions{Contains: "a"}, []string{"a1", "a3", "a5"}},
		{"filtered last two", logs.TailOptions{Limit: 2, Contains: "a"}, []string{"a3", "a5"}},
		{"no match", logs.TailOptions{Contains: "zzz"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logs.Tail(path, tt.opts)
			if err != nil {
				t.Fatalf("Tail failed: %v", err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tail = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTailMissingFile(t *testing.T) {
	lines, err := logs.Tail(filepath.Join(t.TempDir(), "missing.log"), logs.TailOptions{Limit: 5})
	if err != nil || lines != nil {
		t.Fatalf("expected no lines and no error, got %#v, %v", lines, err)
	}
}

func TestTailDirectory(t *testing.T) {
	if _, err := logs.Tail(t.TempDir(), logs.TailOptions{}); err == nil {
		t.Fatal("expected error for directory")
	}
}

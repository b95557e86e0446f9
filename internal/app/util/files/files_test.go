package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name string, when time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func TestListByExtension(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, dir, "newest.mp3", now)
	writeFile(t, dir, "oldest.mp3", now.Add(-2*time.Hour))
	writeFile(t, dir, "middle.WAV", now.Add(-1*time.Hour))
	writeFile(t, dir, "notes.txt", now)
	if err := os.Mkdir(filepath.Join(dir, "sub.mp3"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := ListByExtension(dir, []string{"mp3", ".wav"})
	if err != nil {
		t.Fatalf("ListByExtension() error = %v", err)
	}

	want := []string{"oldest.mp3", "middle.WAV", "newest.mp3"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, name)
		}
	}
}

func TestListByExtensionMissingDir(t *testing.T) {
	_, err := ListByExtension(filepath.Join(t.TempDir(), "nope"), []string{"mp3"})
	if err == nil {
		t.Error("Expected error but got none")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
	// Second call is a no-op.
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}
}

func TestReplaceExtension(t *testing.T) {
	tests := []struct {
		name   string
		newExt string
		want   string
	}{
		{"clip.mp3", ".txt", "clip.txt"},
		{"clip.mp3", "srt", "clip.srt"},
		{"archive.tar.gz", ".json", "archive.tar.json"},
		{"noext", ".vtt", "noext.vtt"},
	}
	for _, tt := range tests {
		if got := ReplaceExtension(tt.name, tt.newExt); got != tt.want {
			t.Errorf("ReplaceExtension(%q, %q) = %q, want %q", tt.name, tt.newExt, got, tt.want)
		}
	}
}

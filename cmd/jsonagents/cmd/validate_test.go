package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandManifestPaths_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "agent.json")
	if err := os.WriteFile(file, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := expandManifestPaths([]string{file})
	if err != nil {
		t.Fatalf("expandManifestPaths: %v", err)
	}
	if len(files) != 1 || files[0] != file {
		t.Errorf("files = %v, want [%s]", files, file)
	}
}

func TestExpandManifestPaths_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.yaml", "c.yml", "notes.txt", "script.sh"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := expandManifestPaths([]string{dir})
	if err != nil {
		t.Fatalf("expandManifestPaths: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "c.yml"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestExpandManifestPaths_Missing(t *testing.T) {
	t.Parallel()

	if _, err := expandManifestPaths([]string{"/nonexistent/agent.json"}); err == nil {
		t.Error("expected error for missing path")
	}
}

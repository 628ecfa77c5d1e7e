package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir(), "/api/images")
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestSaveAndPath(t *testing.T) {
	fs := testFS(t)

	url, err := fs.Save([]byte("png bytes"), ".png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(url, "/api/images/") {
		t.Errorf("url = %q, want /api/images/ prefix", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want .png suffix", url)
	}

	name := strings.TrimPrefix(url, "/api/images/")
	abs, err := fs.Path(name)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestSave_NoTempLeftovers(t *testing.T) {
	fs := testFS(t)
	if _, err := fs.Save([]byte("x"), ".jpg"); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(fs.root)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".blob-tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestPath_RejectsTraversal(t *testing.T) {
	fs := testFS(t)
	for _, name := range []string{"../secret", "a/b.png", "..", ""} {
		if _, err := fs.Path(name); err == nil {
			t.Errorf("Path(%q) should fail", name)
		}
	}
}

func TestPath_Missing(t *testing.T) {
	fs := testFS(t)
	if _, err := fs.Path("nope.png"); err == nil {
		t.Error("missing blob should fail")
	}
}

func TestDelete(t *testing.T) {
	fs := testFS(t)
	url, err := fs.Save([]byte("x"), ".png")
	if err != nil {
		t.Fatal(err)
	}
	name := filepath.Base(url)

	if err := fs.Delete(name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := fs.Path(name); err == nil {
		t.Error("deleted blob still resolves")
	}
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	fs, err := NewFS(t.TempDir(), "/api/images/")
	if err != nil {
		t.Fatal(err)
	}
	url, err := fs.Save([]byte("x"), ".png")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(url, "//") {
		t.Errorf("url = %q has a doubled slash", url)
	}
}

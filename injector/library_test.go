package injector

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLibraryExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plugin.so")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := libraryExists(file); err != nil {
		t.Errorf("libraryExists(file) = %v", err)
	}
	if err := libraryExists(dir); err == nil {
		t.Error("directory accepted as a library")
	}
	if err := libraryExists(filepath.Join(dir, "missing.so")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestVerifyPERejects(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.dll")
	if err := os.WriteFile(text, []byte("this is not a portable executable"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{text, filepath.Join(dir, "missing.dll")} {
		if err := verifyPEFor(path, "amd64"); err == nil {
			t.Errorf("verifyPEFor(%s) accepted", path)
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
process: TribesAscend.exe
library: tamods.dll
wait: 5s
verify-library: true
`)
	c, err := Load(path, false)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{Process: "TribesAscend.exe", Library: "tamods.dll", Wait: 5 * time.Second, VerifyLibrary: true}
	if *c != want {
		t.Errorf("Load = %+v, want %+v", *c, want)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate = %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.yml")
	c, err := Load(path, true)
	if err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if c.Validate() != ErrMissingArguments {
		t.Errorf("Validate on empty config = %v", c.Validate())
	}
	if _, err := Load(path, false); err == nil {
		t.Error("required missing file loaded")
	}
}

func TestLoadInvalid(t *testing.T) {
	for _, body := range []string{
		"unknown-key: 1\n",
		"wait: soon\n",
		"wait: -1s\n",
		"process: [a, b]\n",
	} {
		if _, err := Load(writeConfig(t, body), false); err == nil {
			t.Errorf("Load(%q) succeeded", body)
		}
	}
}

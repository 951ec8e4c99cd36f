package fonts

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
)

func TestLoadBuiltin(t *testing.T) {
	for _, ref := range []string{"builtin:go-medium", "embed:go-medium", "built-in:GO-MEDIUM"} {
		data, src, err := Load(ref, "")
		if err != nil {
			t.Fatalf("Load(%q) error: %v", ref, err)
		}
		if !bytes.Equal(data, gomedium.TTF) {
			t.Fatalf("Load(%q) returned the wrong font", ref)
		}
		if src != "builtin:go-medium" {
			t.Fatalf("Load(%q) source = %q", ref, src)
		}
	}
}

func TestLoadUnknownBuiltin(t *testing.T) {
	_, _, err := Load("builtin:comic-sans", "")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

func TestLoadNamedFallsBackThroughChain(t *testing.T) {
	dir := t.TempDir()
	// primary is corrupt, fallback Bold is a real font
	if err := os.WriteFile(filepath.Join(dir, SemiBold36), []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, Bold36), gobold.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	data, src, err := Load("tiktok-sans", dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if src != filepath.Join(dir, Bold36) {
		t.Fatalf("expected fallback to %s, got %s", Bold36, src)
	}
	if !bytes.Equal(data, gobold.TTF) {
		t.Fatalf("unexpected font bytes")
	}

	if got := Available(dir); len(got) != 2 {
		t.Fatalf("Available = %v", got)
	}
}

func TestLoadNamedMissingIsLoadError(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Load("tiktok-sans", dir)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if len(loadErr.Tried) != 3 {
		t.Fatalf("expected all three bundled files to be tried, got %v", loadErr.Tried)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing files should unwrap to fs.ErrNotExist: %v", err)
	}

	_, _, err = Load("tiktok-sans-small", dir)
	if !errors.As(err, &loadErr) || len(loadErr.Tried) != 1 {
		t.Fatalf("tiktok-sans-small should try exactly one file, got %v", err)
	}
}

func TestLoadPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom.ttf"), gomedium.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, src, err := Load("custom.ttf", dir); err != nil || src != filepath.Join(dir, "custom.ttf") {
		t.Fatalf("relative path: src=%q err=%v", src, err)
	}
	abs := filepath.Join(dir, "custom.ttf")
	if _, _, err := Load(abs, "/nonexistent"); err != nil {
		t.Fatalf("absolute path should ignore dir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "broken.ttf"), []byte{0, 1, 0, 0}, 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := Load("broken.ttf", dir)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("corrupt font should be *LoadError, got %v", err)
	}
}

func TestLoadEmptyRef(t *testing.T) {
	if _, _, err := Load("  ", ""); err == nil {
		t.Fatalf("expected error for empty ref")
	}
}

func TestBuiltinNames(t *testing.T) {
	names := BuiltinNames()
	if len(names) != 3 || names[0] != "go-bold" || names[1] != "go-medium" || names[2] != "go-regular" {
		t.Fatalf("unexpected builtin names: %v", names)
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/slidecap/layout"
	canvasrenderer "github.com/ByLCY/slidecap/renderer/canvas"
	"github.com/ByLCY/slidecap/style"
)

func testStyle() style.Config {
	cfg := style.Default()
	cfg.Font = "builtin:go-medium"
	return cfg
}

func TestRunBurnWritesImageAndDebugJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "slide.jpg")
	if err := imaging.Save(imaging.New(207, 368, color.NRGBA{R: 40, G: 40, B: 40, A: 255}), in); err != nil {
		t.Fatal(err)
	}
	debugPath := filepath.Join(dir, "debug", "layout.json")

	out, err := runBurn(burnOptions{
		in:        in,
		text:      `${title}\nhacks I learned`,
		debugPath: debugPath,
		data:      map[string]any{"title": "Unhinged mental health"},
	}, testStyle(), canvasrenderer.NewCompositor(""))
	if err != nil {
		t.Fatalf("runBurn error: %v", err)
	}
	if out != filepath.Join(dir, "slide-captioned.jpg") {
		t.Fatalf("unexpected output %q", out)
	}

	raw, err := os.ReadFile(debugPath)
	if err != nil {
		t.Fatalf("debug JSON not written: %v", err)
	}
	var block layout.Block
	if err := json.Unmarshal(raw, &block); err != nil {
		t.Fatalf("decode debug JSON: %v", err)
	}
	if block.CanvasWidth != 414 || len(block.Lines) < 2 {
		t.Fatalf("unexpected debug block: %+v", block)
	}
	if block.Lines[0].Content != "Unhinged mental health" {
		t.Fatalf("placeholder not interpolated: %q", block.Lines[0].Content)
	}
}

func TestRunBurnRequiresCompositor(t *testing.T) {
	if _, err := runBurn(burnOptions{in: "x.png"}, testStyle(), nil); err == nil {
		t.Fatalf("expected error for nil compositor")
	}
}

func TestRunPreview(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "preview.png")
	err := runPreview(previewOptions{out: out, text: "hello", width: 108, height: 192}, testStyle(), canvasrenderer.NewCompositor(""))
	if err != nil {
		t.Fatalf("runPreview error: %v", err)
	}
	img, err := imaging.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 108 || img.Bounds().Dy() != 192 {
		t.Fatalf("unexpected preview size %v", img.Bounds())
	}
}

func TestStyleFlagsResolve(t *testing.T) {
	dir := t.TempDir()
	presetFile := filepath.Join(dir, "styles.preset")
	if err := os.WriteFile(presetFile, []byte("preset soft { fill_color: #F0F0F0; supersample: 3 }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sf := styleFlags{presetFile: presetFile, preset: "soft", position: "bottom", font: "builtin:go-bold", align: "left"}
	cfg, err := sf.resolve()
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if cfg.FillColor != style.CompensatedWhite || cfg.Supersample != 3 || cfg.Position != style.Bottom ||
		cfg.Font != "builtin:go-bold" || cfg.Align != style.AlignLeft {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	for _, bad := range []styleFlags{
		{preset: "missing"},
		{preset: style.BuiltinPreset, position: "sideways"},
		{preset: style.BuiltinPreset, fill: "#zz"},
		{preset: style.BuiltinPreset, supersample: -1},
		{preset: style.BuiltinPreset, supersample: 100},
	} {
		if _, err := bad.resolve(); err == nil {
			t.Errorf("expected error for %+v", bad)
		}
	}
}

func TestDispatch(t *testing.T) {
	var stdout bytes.Buffer
	if err := dispatch(nil, &stdout); err == nil {
		t.Fatalf("expected error without command")
	}
	if !strings.Contains(stdout.String(), "burn") {
		t.Fatalf("usage not printed")
	}
	if err := dispatch([]string{"frobnicate"}, &stdout); err == nil {
		t.Fatalf("expected error for unknown command")
	}
	if err := dispatch([]string{"burn"}, &stdout); err == nil {
		t.Fatalf("burn without -in should fail")
	}
	if err := dispatch([]string{"help"}, &stdout); err != nil {
		t.Fatalf("help returned %v", err)
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	if err := imaging.Save(imaging.New(90, 160, color.White), filepath.Join(dir, "a.png")); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(dir, "batch.yaml")
	content := "overrides:\n  font: builtin:go-regular\njobs:\n  - in: a.png\n    caption: one\n  - in: gone.png\n    caption: two\n"
	if err := os.WriteFile(manifest, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	err := runBatch(context.Background(), manifest, canvasrenderer.NewCompositor(""), &stdout)
	if err == nil || !strings.Contains(err.Error(), "1/2") {
		t.Fatalf("expected one failed job, got %v", err)
	}
	if !strings.Contains(stdout.String(), "a-captioned.png") {
		t.Fatalf("successful job not reported: %q", stdout.String())
	}
}

func TestRunWatchBuildsOnceAndStops(t *testing.T) {
	dir := t.TempDir()
	presetFile := filepath.Join(dir, "styles.preset")
	if err := os.WriteFile(presetFile, []byte("preset a {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	builds := make(chan struct{}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, []string{presetFile}, func() error {
			builds <- struct{}{}
			return nil
		})
	}()

	select {
	case <-builds:
	case <-time.After(2 * time.Second):
		t.Fatalf("initial build did not run")
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runWatch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runWatch did not stop")
	}
}

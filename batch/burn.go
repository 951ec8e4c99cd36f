package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/slidecap/renderer"
	"github.com/ByLCY/slidecap/style"
)

// DefaultOutput 返回输入路径对应的 <dir>/<name>-captioned<ext>。
// 没有 WebP 编码器，WebP 输入输出为 PNG。
func DefaultOutput(in string) string {
	ext := filepath.Ext(in)
	stem := strings.TrimSuffix(in, ext)
	if strings.EqualFold(ext, ".webp") || ext == "" {
		ext = ".png"
	}
	return stem + "-captioned" + ext
}

// Burn 读取 in、烧录 caption 并写入 out（为空时取 DefaultOutput(in)），返回写入的路径。
func Burn(c renderer.Compositor, in, out, caption string, cfg style.Config) (string, error) {
	if out == "" {
		out = DefaultOutput(in)
	}
	src, err := imaging.Open(in, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", in, err)
	}
	img, err := c.Composite(src, caption, cfg)
	if err != nil {
		return "", fmt.Errorf("caption %s: %w", in, err)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := imaging.Save(img, out, imaging.JPEGQuality(95)); err != nil {
		return "", fmt.Errorf("save %s: %w", out, err)
	}
	return out, nil
}

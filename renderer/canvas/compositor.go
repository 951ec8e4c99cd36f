package canvasrenderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/slidecap/fonts"
	"github.com/ByLCY/slidecap/layout"
	"github.com/ByLCY/slidecap/renderer"
	"github.com/ByLCY/slidecap/style"
)

// Compositor 通过 github.com/tdewolff/canvas 将字幕烧录到图片上。
// 可并发使用；已解析的字体族与各字号的字体面会被缓存。
type Compositor struct {
	fontDir string

	// 按引用名注入的字体
	fontBlobs map[string][]byte
	fontPaths map[string]string

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
	faces    map[faceKey]*faceEntry
}

var _ renderer.Compositor = (*Compositor)(nil)

type faceKey struct {
	font string
	px   int
}

// faceEntry 串行化同一字体面上的排版；栅格化在锁外进行。
type faceEntry struct {
	mu   sync.Mutex
	face *canvas.FontFace
}

// Options 配置合成器。
type Options struct {
	FontDir string
	Fonts   map[string]Resource // 按名称引用的字体，优先于 fonts.Load
}

// Resource 可以通过 Bytes 或 Path 提供。
type Resource struct {
	Bytes []byte
	Path  string
}

// NewCompositor 创建合成器，内置 TikTok Sans 字体从 fontDir 查找。
func NewCompositor(fontDir string) *Compositor {
	return NewCompositorWithOptions(Options{FontDir: fontDir})
}

// NewCompositorWithOptions 创建带注入字体的合成器。
func NewCompositorWithOptions(opts Options) *Compositor {
	c := &Compositor{
		fontDir:   opts.FontDir,
		fontBlobs: map[string][]byte{},
		fontPaths: map[string]string{},
		families:  map[string]*canvas.FontFamily{},
		faces:     map[faceKey]*faceEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			c.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			// 延迟读取；无法读取的路径在首次使用时返回 LoadError
			c.fontPaths[name] = res.Path
		}
	}
	return c
}

// face 返回 font 在 px 像素字号下的缓存字体面，首次使用时加载字体族。
func (c *Compositor) face(font string, px int) (*faceEntry, error) {
	c.fontMu.Lock()
	defer c.fontMu.Unlock()

	key := faceKey{font: font, px: px}
	if entry, ok := c.faces[key]; ok {
		return entry, nil
	}

	family, err := c.familyLocked(font)
	if err != nil {
		return nil, err
	}
	entry := &faceEntry{
		face: family.Face(layout.FontPointSize(px), canvas.Black, canvas.FontRegular, canvas.FontNormal),
	}
	c.faces[key] = entry
	logDebug("canvasrenderer: cached face %s@%dpx", font, px)
	return entry, nil
}

func (c *Compositor) familyLocked(font string) (*canvas.FontFamily, error) {
	if family, ok := c.families[font]; ok {
		return family, nil
	}

	data, src, err := c.loadFontBytes(font)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(font)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, &fonts.LoadError{Ref: font, Tried: []string{src}, Err: err}
	}
	c.families[font] = family
	logDebug("canvasrenderer: loaded font %s from %s", font, src)
	return family, nil
}

func (c *Compositor) loadFontBytes(font string) ([]byte, string, error) {
	if blob, ok := c.fontBlobs[font]; ok {
		return blob, "injected:" + font, nil
	}
	if path, ok := c.fontPaths[font]; ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", &fonts.LoadError{Ref: font, Tried: []string{path}, Err: err}
		}
		if len(data) == 0 {
			return nil, "", &fonts.LoadError{Ref: font, Tried: []string{path}, Err: errors.New("empty font file")}
		}
		return data, path, nil
	}
	return fonts.Load(font, c.fontDir)
}

// Composite 返回烧录了字幕的 src 副本，src 本身不会被修改。
// 仅含空白的字幕直接返回原样副本。
func (c *Compositor) Composite(src image.Image, text string, cfg style.Config) (*image.NRGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New("source image is nil")
	}
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("source image is empty (%dx%d)", width, height)
	}
	if strings.TrimSpace(text) == "" {
		return imaging.Clone(src), nil
	}

	block, lines, err := c.shape(width, height, text, cfg)
	if err != nil {
		return nil, err
	}
	logDebug("canvasrenderer: %dx%d x%d, %dpx font, %d line(s), block %.1f-%.1f",
		width, height, block.Scale, block.FontSize, len(block.Lines), block.Top, block.Bottom())

	work := upscale(src, block.Scale)
	layer := renderLayer(block, lines, cfg.ScaledStrokeWidth(), cfg.StrokeColor.NRGBA(), cfg.FillColor.NRGBA())
	work = imaging.Overlay(work, layer, image.Pt(0, 0), 1.0)
	return downscale(work, width, height, block.Scale), nil
}

// Layout 计算 Composite 在 width×height 图片上的排版结果（超采样画布坐标）。
func (c *Compositor) Layout(width, height int, text string, cfg style.Config) (*layout.Block, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %dx%d", width, height)
	}
	block, _, err := c.shape(width, height, text, cfg)
	return block, err
}

// upscale 返回放大 scale 倍的工作副本；scale 为 1 时仅复制，不做重采样。
func upscale(src image.Image, scale int) *image.NRGBA {
	if scale <= 1 {
		return imaging.Clone(src)
	}
	b := src.Bounds()
	return imaging.Resize(src, b.Dx()*scale, b.Dy()*scale, imaging.Lanczos)
}

// downscale 用 Lanczos 滤波将工作图缩回 width×height。
func downscale(work *image.NRGBA, width, height, scale int) *image.NRGBA {
	if scale <= 1 {
		return work
	}
	return imaging.Resize(work, width, height, imaging.Lanczos)
}

// glyphLine 是一行已转为轮廓的字幕，坐标位于超采样画布上。
type glyphLine struct {
	path     *canvas.Path
	x        float64
	baseline float64 // 基线 y 坐标，自顶部向下
}

// shape 排版文本，并将每一行转换为字形轮廓。
func (c *Compositor) shape(width, height int, text string, cfg style.Config) (*layout.Block, []glyphLine, error) {
	entry, err := c.face(cfg.Font, cfg.FontPixelSize(width))
	if err != nil {
		return nil, nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	block, err := layout.Build(width, height, text, cfg, entry.face)
	if err != nil {
		return nil, nil, err
	}
	ascent := entry.face.Metrics().Ascent

	lines := make([]glyphLine, 0, len(block.Lines))
	for _, line := range block.Lines {
		if strings.TrimSpace(line.Content) == "" {
			continue
		}
		path, _, err := entry.face.ToPath(line.Content)
		if err != nil {
			return nil, nil, fmt.Errorf("shape line %q: %w", line.Content, err)
		}
		lines = append(lines, glyphLine{
			// 字形轮廓为 y 向上；CartesianIV 只翻转落点坐标，路径本身需要翻转
			path:     path.Transform(canvas.Identity.ReflectY()),
			x:        line.X,
			baseline: line.Y + ascent,
		})
	}
	return block, lines, nil
}

// renderLayer 在透明画布上绘制字幕：逐行先描边、再填充。
func renderLayer(block *layout.Block, lines []glyphLine, stroke float64, strokeColor, fillColor color.Color) *image.RGBA {
	w, h := float64(block.CanvasWidth), float64(block.CanvasHeight)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	transparent := color.RGBA{0, 0, 0, 0}

	for _, line := range lines {
		if line.path == nil || line.path.Empty() {
			continue
		}
		y := line.baseline
		if stroke > 0 {
			ctx.SetFillColor(transparent)
			ctx.SetStrokeColor(strokeColor)
			// 描边以轮廓为中心，宽度取两倍，使其向外延伸 stroke 像素
			ctx.SetStrokeWidth(2 * stroke)
			ctx.SetStrokeJoiner(canvas.RoundJoin)
			ctx.SetStrokeCapper(canvas.RoundCap)
			ctx.DrawPath(line.x, y, line.path)
		}
		ctx.SetFillColor(fillColor)
		ctx.SetStrokeColor(transparent)
		ctx.SetStrokeWidth(0)
		ctx.DrawPath(line.x, y, line.path)
	}
	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
}

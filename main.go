package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/slidecap/batch"
	"github.com/ByLCY/slidecap/binding"
	"github.com/ByLCY/slidecap/fonts"
	"github.com/ByLCY/slidecap/layout"
	"github.com/ByLCY/slidecap/renderer"
	canvasrenderer "github.com/ByLCY/slidecap/renderer/canvas"
	"github.com/ByLCY/slidecap/style"
	"github.com/ByLCY/slidecap/watch"
)

const usage = `用法: slidecap <命令> [参数]

命令:
  burn     为单张图片烧录字幕
  preview  在纯色 9:16 画布上预览字幕样式
  batch    按 YAML 清单批量烧录
  watch    监听预设/清单文件，变更后重新生成

使用 "slidecap <命令> -h" 查看各命令参数。`

func main() {
	if err := dispatch(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("slidecap: %v", err)
	}
}

// dispatch 根据子命令解析参数并执行。
func dispatch(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stdout, usage)
		return fmt.Errorf("缺少命令")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "burn":
		return burnCmd(rest, stdout)
	case "preview":
		return previewCmd(rest, stdout)
	case "batch":
		return batchCmd(rest, stdout)
	case "watch":
		return watchCmd(rest, stdout)
	case "-h", "-help", "--help", "help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		fmt.Fprintln(stdout, usage)
		return fmt.Errorf("未知命令 %q", cmd)
	}
}

// styleFlags 是各子命令共享的样式参数；未设置的参数保留预设值。
type styleFlags struct {
	presetFile  string
	preset      string
	position    string
	font        string
	fontDir     string
	supersample int
	fill        string
	align       string
	verbose     bool
}

func (s *styleFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.presetFile, "preset-file", "", "预设 DSL 文件路径")
	fs.StringVar(&s.preset, "preset", style.BuiltinPreset, "预设名称")
	fs.StringVar(&s.position, "position", "", "字幕位置：upper | center | bottom")
	fs.StringVar(&s.font, "font", "", "字体：tiktok-sans、builtin:go-medium 或字体文件路径")
	fs.StringVar(&s.fontDir, "font-dir", fonts.DefaultDir, "内置 TikTok Sans 字体目录")
	fs.IntVar(&s.supersample, "supersample", 0, "超采样倍数（0 表示使用预设值）")
	fs.StringVar(&s.fill, "fill", "", "填充色，如 #F0F0F0")
	fs.StringVar(&s.align, "align", "", "水平对齐：center | left | right")
	fs.BoolVar(&s.verbose, "v", false, "输出渲染调试日志")
}

// overrides 将命令行参数转换为样式覆盖项。
func (s *styleFlags) overrides() (style.Overrides, error) {
	var o style.Overrides
	if s.position != "" {
		p, err := style.ParsePosition(s.position)
		if err != nil {
			return o, err
		}
		o.Position = &p
	}
	if s.font != "" {
		o.Font = &s.font
	}
	if s.supersample != 0 {
		o.Supersample = &s.supersample
	}
	if s.fill != "" {
		c, err := style.ParseColor(s.fill)
		if err != nil {
			return o, err
		}
		o.FillColor = &c
	}
	if s.align != "" {
		a, err := style.ParseAlign(s.align)
		if err != nil {
			return o, err
		}
		o.Align = &a
	}
	return o, nil
}

// resolve 依次应用预设与命令行覆盖项，并校验结果。
func (s *styleFlags) resolve() (style.Config, error) {
	presets := style.Presets{}
	if s.presetFile != "" {
		loaded, err := style.LoadPresets(s.presetFile)
		if err != nil {
			return style.Config{}, err
		}
		presets = loaded
	}
	cfg, err := presets.Lookup(s.preset)
	if err != nil {
		return style.Config{}, err
	}
	o, err := s.overrides()
	if err != nil {
		return style.Config{}, err
	}
	cfg = o.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return style.Config{}, err
	}
	return cfg, nil
}

func (s *styleFlags) compositor() *canvasrenderer.Compositor {
	canvasrenderer.SetDebugLogging(s.verbose)
	if s.verbose {
		log.Printf("字体目录 %s 中的 TikTok Sans 文件: %v", s.fontDir, fonts.Available(s.fontDir))
	}
	return canvasrenderer.NewCompositor(s.fontDir)
}

// burnOptions 对应 burn 子命令的参数。
type burnOptions struct {
	in        string
	out       string
	text      string
	debugPath string
	data      any
}

func burnCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("burn", flag.ContinueOnError)
	var sf styleFlags
	sf.register(fs)
	var opts burnOptions
	fs.StringVar(&opts.in, "in", "", "输入图片路径")
	fs.StringVar(&opts.out, "out", "", "输出图片路径（默认 <名称>-captioned<扩展名>）")
	fs.StringVar(&opts.text, "text", "", "字幕文本，支持 \\n 换行与 ${path} 占位符")
	fs.StringVar(&opts.debugPath, "debug", "", "排版调试 JSON 输出路径")
	dataJSON := fs.String("data", "", "绑定到字幕占位符的 JSON 数据")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.in == "" {
		return fmt.Errorf("burn 需要 -in")
	}
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &opts.data); err != nil {
			return fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	cfg, err := sf.resolve()
	if err != nil {
		return err
	}
	out, err := runBurn(opts, cfg, sf.compositor())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "已生成：%s\n", out)
	return nil
}

// runBurn 串联插值、合成与保存，返回输出路径。
func runBurn(opts burnOptions, cfg style.Config, c renderer.Compositor) (string, error) {
	if c == nil {
		return "", fmt.Errorf("compositor 不能为空")
	}
	text := binding.Interpolate(unescape(opts.text), opts.data)
	out, err := batch.Burn(c, opts.in, opts.out, text, cfg)
	if err != nil {
		return "", fmt.Errorf("烧录字幕失败: %w", err)
	}
	if opts.debugPath != "" {
		img, err := imaging.Open(out)
		if err != nil {
			return "", fmt.Errorf("读取输出图片失败: %w", err)
		}
		if err := writeDebug(c, img.Bounds(), text, cfg, opts.debugPath); err != nil {
			return "", err
		}
	}
	return out, nil
}

// previewOptions 对应 preview 子命令的参数。
type previewOptions struct {
	out       string
	text      string
	width     int
	height    int
	debugPath string
}

func previewCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	var sf styleFlags
	sf.register(fs)
	opts := previewOptions{}
	fs.StringVar(&opts.out, "out", "preview.png", "预览图片输出路径")
	fs.StringVar(&opts.text, "text", "", "字幕文本，支持 \\n 换行")
	fs.IntVar(&opts.width, "width", canvasrenderer.PreviewWidth, "画布宽度")
	fs.IntVar(&opts.height, "height", canvasrenderer.PreviewHeight, "画布高度")
	fs.StringVar(&opts.debugPath, "debug", "", "排版调试 JSON 输出路径")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := sf.resolve()
	if err != nil {
		return err
	}
	if err := runPreview(opts, cfg, sf.compositor()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "已生成预览：%s\n", opts.out)
	return nil
}

type previewer interface {
	Preview(text string, cfg style.Config, opts canvasrenderer.PreviewOptions) (*image.NRGBA, error)
}

func runPreview(opts previewOptions, cfg style.Config, c renderer.Compositor) error {
	text := unescape(opts.text)
	pv, ok := c.(previewer)
	if !ok {
		return fmt.Errorf("compositor 未实现预览接口")
	}
	img, err := pv.Preview(text, cfg, canvasrenderer.PreviewOptions{Width: opts.width, Height: opts.height})
	if err != nil {
		return fmt.Errorf("生成预览失败: %w", err)
	}
	if dir := filepath.Dir(opts.out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := imaging.Save(img, opts.out); err != nil {
		return fmt.Errorf("保存预览失败: %w", err)
	}
	if opts.debugPath != "" {
		return writeDebug(c, img.Bounds(), text, cfg, opts.debugPath)
	}
	return nil
}

func batchCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	manifest := fs.String("manifest", "", "批量清单 YAML 路径")
	fontDir := fs.String("font-dir", fonts.DefaultDir, "内置 TikTok Sans 字体目录")
	verbose := fs.Bool("v", false, "输出渲染调试日志")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *manifest == "" {
		return fmt.Errorf("batch 需要 -manifest")
	}
	canvasrenderer.SetDebugLogging(*verbose)
	return runBatch(context.Background(), *manifest, canvasrenderer.NewCompositor(*fontDir), stdout)
}

// runBatch 执行清单中的全部任务；任一任务失败时返回错误，但不会中断其他任务。
func runBatch(ctx context.Context, manifestPath string, c renderer.Compositor, stdout io.Writer) error {
	m, err := batch.Load(manifestPath)
	if err != nil {
		return err
	}
	results, err := batch.Run(ctx, c, m)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			log.Printf("任务 %d (%s) 失败: %v", r.Index, r.In, r.Err)
			continue
		}
		fmt.Fprintf(stdout, "已生成：%s (%s)\n", r.Out, r.Duration.Round(time.Millisecond))
	}
	if n := batch.Failed(results); n > 0 {
		return fmt.Errorf("%d/%d 个任务失败", n, len(results))
	}
	return nil
}

func watchCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	var sf styleFlags
	sf.register(fs)
	manifest := fs.String("manifest", "", "批量清单 YAML 路径；为空时重新生成预览")
	opts := previewOptions{width: canvasrenderer.PreviewWidth, height: canvasrenderer.PreviewHeight}
	fs.StringVar(&opts.out, "out", "preview.png", "预览图片输出路径")
	fs.StringVar(&opts.text, "text", "", "预览字幕文本")
	fs.StringVar(&opts.debugPath, "debug", "", "排版调试 JSON 输出路径")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var files []string
	if sf.presetFile != "" {
		files = append(files, sf.presetFile)
	}
	if *manifest != "" {
		files = append(files, *manifest)
	}
	if len(files) == 0 {
		return fmt.Errorf("watch 需要 -preset-file 或 -manifest")
	}

	c := sf.compositor()
	rebuild := func() error {
		if *manifest != "" {
			return runBatch(context.Background(), *manifest, c, stdout)
		}
		cfg, err := sf.resolve()
		if err != nil {
			return err
		}
		if err := runPreview(opts, cfg, c); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "已更新预览：%s\n", opts.out)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runWatch(ctx, files, rebuild)
}

// runWatch 先生成一次，然后在文件变更后重新生成；单次失败只记录日志。
func runWatch(ctx context.Context, files []string, rebuild func() error) error {
	if err := rebuild(); err != nil {
		log.Printf("生成失败: %v", err)
	}
	w, err := watch.New(files, watch.DefaultDebounce, func(path string) {
		log.Printf("检测到变更：%s", path)
		if err := rebuild(); err != nil {
			log.Printf("生成失败: %v", err)
		}
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

type layouter interface {
	Layout(width, height int, text string, cfg style.Config) (*layout.Block, error)
}

func writeDebug(c renderer.Compositor, bounds image.Rectangle, text string, cfg style.Config, debugPath string) error {
	lt, ok := c.(layouter)
	if !ok {
		return fmt.Errorf("compositor 未实现排版接口")
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	block, err := lt.Layout(bounds.Dx(), bounds.Dy(), text, cfg)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	// 排版结果（超采样坐标）用于与目标平台截图逐像素比对
	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return fmt.Errorf("编码调试 JSON 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := os.WriteFile(debugPath, data, 0o644); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// unescape 让命令行中的字面量 \n 成为换行。
func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

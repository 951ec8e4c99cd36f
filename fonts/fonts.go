// Package fonts 将字幕字体引用解析为字体文件字节。
//
// 引用可以是：
//   - 内置 TikTok Sans 标识（tiktok-sans、tiktok-sans-bold、tiktok-sans-small），按文件名在字体目录中查找；
//   - builtin:<name>（或 embed:<name>），编译进二进制的 Go 字体；
//   - 文件路径，非绝对路径时相对字体目录。
package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultDir 为随附字体文件所在目录，相对工作目录。
const DefaultDir = "fonts"

// 随附的 TikTok Sans 字体文件（v4.000，OFL 授权）。
const (
	SemiBold36 = "TikTokSans36pt-SemiBold.ttf"
	Bold36     = "TikTokSans36pt-Bold.ttf"
	SemiBold16 = "TikTokSans16pt-SemiBold.ttf"
)

// named 将标识映射到按顺序尝试的候选文件。
var named = map[string][]string{
	"tiktok-sans":          {SemiBold36, Bold36, SemiBold16},
	"tiktok-sans-semibold": {SemiBold36},
	"tiktok-sans-bold":     {Bold36},
	"tiktok-sans-small":    {SemiBold16},
}

var builtin = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-medium":  gomedium.TTF,
	"go-bold":    gobold.TTF,
}

// LoadError 表示字体资源缺失或无法读取。
type LoadError struct {
	Ref   string
	Tried []string
	Err   error
}

func (e *LoadError) Error() string {
	if len(e.Tried) > 0 {
		return fmt.Sprintf("load font %s (tried %s): %v", e.Ref, strings.Join(e.Tried, ", "), e.Err)
	}
	return fmt.Sprintf("load font %s: %v", e.Ref, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load 返回 ref 指向的字体字节及其来源，并校验其为 OpenType/TrueType 字体。
// 失败时返回 *LoadError。
func Load(ref, dir string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, "", &LoadError{Ref: ref, Err: errors.New("empty font reference")}
	}

	if name, ok := builtinName(ref); ok {
		data, ok := builtin[name]
		if !ok {
			return nil, "", &LoadError{Ref: ref, Err: fmt.Errorf("unknown built-in font %q (have %s)", name, strings.Join(BuiltinNames(), ", "))}
		}
		return data, "builtin:" + name, nil
	}

	if files, ok := named[strings.ToLower(ref)]; ok {
		var tried []string
		var lastErr error
		for _, file := range files {
			path := filepath.Join(dir, file)
			tried = append(tried, path)
			data, err := readFont(path)
			if err != nil {
				lastErr = err
				continue
			}
			return data, path, nil
		}
		return nil, "", &LoadError{Ref: ref, Tried: tried, Err: lastErr}
	}

	path := ref
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}
	data, err := readFont(path)
	if err != nil {
		return nil, "", &LoadError{Ref: ref, Tried: []string{path}, Err: err}
	}
	return data, path, nil
}

// BuiltinNames 列出可用 builtin:<name> 引用的字体。
func BuiltinNames() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Available 返回 dir 中存在的 TikTok Sans 字体文件。
func Available(dir string) []string {
	var found []string
	for _, file := range []string{SemiBold36, Bold36, SemiBold16} {
		if _, err := os.Stat(filepath.Join(dir, file)); err == nil {
			found = append(found, file)
		}
	}
	return found
}

func builtinName(ref string) (string, bool) {
	for _, prefix := range []string{"builtin:", "built-in:", "embed:"} {
		if strings.HasPrefix(ref, prefix) {
			return strings.ToLower(strings.TrimPrefix(ref, prefix)), true
		}
	}
	return "", false
}

func readFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
		}
		return nil, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if parsed.NumGlyphs() == 0 {
		return nil, fmt.Errorf("parse %s: font has no glyphs", path)
	}
	return data, nil
}

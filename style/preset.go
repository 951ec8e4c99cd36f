package style

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/slidecap/dsl"
)

// BuiltinPreset 始终可用（即使没有预设文件），等同于 Default()。
const BuiltinPreset = "tiktok"

// Presets 将预设名映射到完整解析后的配置。
type Presets map[string]Config

// Lookup 返回指定预设；文件未定义内置预设时返回默认值。
func (p Presets) Lookup(name string) (Config, error) {
	if name == "" {
		name = BuiltinPreset
	}
	if cfg, ok := p[name]; ok {
		return cfg, nil
	}
	if name == BuiltinPreset {
		return Default(), nil
	}
	return Config{}, fmt.Errorf("preset %q not defined", name)
}

// LoadPresets 从磁盘解析预设文件。
func LoadPresets(path string) (Presets, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open preset file %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(path, file)
	if err != nil {
		return nil, fmt.Errorf("parse preset file %s: %w", path, err)
	}
	return ResolvePresets(doc)
}

// ResolvePresets 将解析后的文档转换为配置。未声明 extends 的预设以 Default() 为基础，
// 继承的值逐键覆盖，每个结果配置都会校验。
func ResolvePresets(doc *dsl.Document) (Presets, error) {
	declared := map[string]*dsl.Preset{}
	if doc != nil {
		for _, p := range doc.Presets {
			if _, dup := declared[p.Name]; dup {
				return nil, fmt.Errorf("preset %s declared twice", p.Name)
			}
			declared[p.Name] = p
		}
	}

	resolved := Presets{}
	visiting := map[string]bool{}

	var dfs func(name string) (Config, error)
	dfs = func(name string) (Config, error) {
		if cfg, ok := resolved[name]; ok {
			return cfg, nil
		}
		preset, ok := declared[name]
		if !ok {
			if name == BuiltinPreset {
				return Default(), nil
			}
			return Config{}, fmt.Errorf("preset %s not defined", name)
		}
		if visiting[name] {
			return Config{}, fmt.Errorf("preset inheritance cycle at %s", name)
		}
		visiting[name] = true

		base := Default()
		if preset.Extends != "" {
			parent, err := dfs(preset.Extends)
			if err != nil {
				return Config{}, err
			}
			base = parent
		}
		overrides, err := overridesFromEntries(preset.Entries)
		if err != nil {
			return Config{}, fmt.Errorf("preset %s: %w", name, err)
		}
		cfg := overrides.Apply(base)
		if err := cfg.Validate(); err != nil {
			return Config{}, fmt.Errorf("preset %s: %w", name, err)
		}
		resolved[name] = cfg
		delete(visiting, name)
		return cfg, nil
	}

	for name := range declared {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func overridesFromEntries(entries []*dsl.Assignment) (Overrides, error) {
	var o Overrides
	for _, entry := range entries {
		raw := entry.Value.Raw()
		key := strings.ToLower(entry.Key)
		var err error
		switch key {
		case "font":
			v := raw
			o.Font = &v
		case "size_ratio":
			o.SizeRatio, err = ratioValue(key, raw)
		case "font_size_min":
			o.FontSizeMin, err = intValue(key, raw)
		case "font_size_max":
			o.FontSizeMax, err = intValue(key, raw)
		case "line_height_ratio", "line_height":
			o.LineHeightRatio, err = ratioValue(key, raw)
		case "stroke_width":
			o.StrokeWidth, err = intValue(key, raw)
		case "stroke_color":
			o.StrokeColor, err = colorValue(raw)
		case "fill_color":
			o.FillColor, err = colorValue(raw)
		case "max_width_ratio":
			o.MaxWidthRatio, err = ratioValue(key, raw)
		case "position":
			var p Position
			p, err = ParsePosition(raw)
			o.Position = &p
		case "anchor_ratio":
			o.AnchorRatio, err = ratioValue(key, raw)
		case "supersample":
			o.Supersample, err = intValue(key, raw)
		case "align":
			var a Align
			a, err = ParseAlign(raw)
			o.Align = &a
		default:
			return Overrides{}, invalid(entry.Key, nil, fmt.Sprintf("unknown style key (line %d)", entry.Pos.Line))
		}
		if err != nil {
			return Overrides{}, fmt.Errorf("line %d: %s value %q: %w", entry.Pos.Line, entry.Value.Kind(), raw, err)
		}
	}
	return o, nil
}

// ratioValue 接受小数（0.051）与百分比（5.1%）。
func ratioValue(key, raw string) (*float64, error) {
	v := strings.TrimSpace(raw)
	percent := strings.HasSuffix(v, "%")
	v = strings.TrimSuffix(strings.TrimSuffix(v, "%"), "x")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, invalid(key, raw, "not a number")
	}
	if percent {
		f /= 100
	}
	return &f, nil
}

// intValue 接受可带 px 或 x 后缀的整数（4px、2x）。
func intValue(key, raw string) (*int, error) {
	v := strings.TrimSpace(raw)
	v = strings.TrimSuffix(strings.TrimSuffix(v, "px"), "x")
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, invalid(key, raw, "not an integer")
	}
	return &n, nil
}

func colorValue(raw string) (*Color, error) {
	c, err := ParseColor(raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

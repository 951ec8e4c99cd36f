// Package batch 按 YAML 清单批量为图片烧录字幕。
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/slidecap/style"
)

// Manifest 描述一批字幕任务。
type Manifest struct {
	PresetFile string          `yaml:"preset_file"`
	Preset     string          `yaml:"preset"`
	Overrides  style.Overrides `yaml:"overrides"`
	Data       map[string]any  `yaml:"data"`
	Workers    int             `yaml:"workers"`
	Jobs       []Job           `yaml:"jobs"`

	// 相对路径的基准目录，由 Load 设置
	dir string
}

// Job 是一张待加字幕的图片。
type Job struct {
	In        string          `yaml:"in"`
	Out       string          `yaml:"out"`
	Caption   string          `yaml:"caption"`
	Position  *style.Position `yaml:"position"`
	Preset    string          `yaml:"preset"`
	Overrides style.Overrides `yaml:"overrides"`
	Data      map[string]any  `yaml:"data"`
}

// Load 读取并校验清单文件。
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse 解码并校验清单 YAML，相对路径保持相对工作目录。
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}

// Validate 检查每个任务都指定了输入图片。
func (m *Manifest) Validate() error {
	if len(m.Jobs) == 0 {
		return errors.New("no jobs")
	}
	if m.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", m.Workers)
	}
	for i, job := range m.Jobs {
		if job.In == "" {
			return fmt.Errorf("jobs[%d].in is required", i)
		}
	}
	return nil
}

// Resolve 将 p 解析为相对清单目录的路径；绝对路径与空串原样返回。
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.dir == "" {
		return p
	}
	return filepath.Join(m.dir, p)
}

// Styles 解析每个任务的样式：依次应用预设、清单覆盖项、任务自身的预设（如有）、
// 位置与覆盖项，并校验每个结果。
func (m *Manifest) Styles() ([]style.Config, error) {
	presets := style.Presets{}
	if m.PresetFile != "" {
		loaded, err := style.LoadPresets(m.Resolve(m.PresetFile))
		if err != nil {
			return nil, err
		}
		presets = loaded
	}

	base, err := presets.Lookup(m.Preset)
	if err != nil {
		return nil, err
	}
	base = m.Overrides.Apply(base)

	styles := make([]style.Config, len(m.Jobs))
	for i, job := range m.Jobs {
		cfg := base
		if job.Preset != "" {
			if cfg, err = presets.Lookup(job.Preset); err != nil {
				return nil, fmt.Errorf("jobs[%d]: %w", i, err)
			}
			cfg = m.Overrides.Apply(cfg)
		}
		cfg = job.Overrides.Apply(cfg)
		if job.Position != nil {
			cfg = style.Overrides{Position: job.Position}.Apply(cfg)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("jobs[%d]: %w", i, err)
		}
		styles[i] = cfg
	}
	return styles, nil
}

// data 合并清单级数据与任务数据，同名键以任务为准。
func (m *Manifest) data(job Job) map[string]any {
	if len(m.Data) == 0 {
		return job.Data
	}
	merged := make(map[string]any, len(m.Data)+len(job.Data))
	for k, v := range m.Data {
		merged[k] = v
	}
	for k, v := range job.Data {
		merged[k] = v
	}
	return merged
}

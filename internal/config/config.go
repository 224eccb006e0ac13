// Package config loads benchmark configuration from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"iobench/internal/bench"

	"gopkg.in/yaml.v3"
)

// クライアント種別
const (
	ClientLocalFS = "localfs"
	ClientMem     = "mem"
)

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Bench BenchConfig `yaml:"bench" json:"bench"`
}

// BenchConfig はベンチマーク設定
type BenchConfig struct {
	PayloadSize int    `yaml:"payload_size" json:"payload_size"`
	Rates       []int  `yaml:"rates" json:"rates"`
	Duration    string `yaml:"duration" json:"duration"`
	Client      string `yaml:"client" json:"client"`
	Root        string `yaml:"root" json:"root"`
	OutDir      string `yaml:"out_dir" json:"out_dir"`
	Charts      *bool  `yaml:"charts" json:"charts"`
	LogLevel    string `yaml:"log_level" json:"log_level"`
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// ToBenchConfig はFileConfigをbench.Configに変換する
// 未指定の項目はデフォルト設定の値を使う
func (f *FileConfig) ToBenchConfig() (bench.Config, error) {
	bc := f.Bench

	config := bench.DefaultConfig()

	if bc.PayloadSize > 0 {
		config.PayloadSize = bc.PayloadSize
	}
	if len(bc.Rates) > 0 {
		config.Rates = bc.Rates
	}
	if bc.Duration != "" {
		d, err := time.ParseDuration(bc.Duration)
		if err != nil {
			return config, fmt.Errorf("invalid duration: %w", err)
		}
		config.Duration = d
	}
	if bc.OutDir != "" {
		config.OutDir = bc.OutDir
	}
	if bc.Charts != nil {
		config.RenderCharts = *bc.Charts
	}

	return config, nil
}

// Client は選択されたクライアント種別を返す（デフォルトはlocalfs）
func (f *FileConfig) Client() string {
	if f.Bench.Client == "" {
		return ClientLocalFS
	}
	return f.Bench.Client
}

// Root はlocalfsクライアントのルートディレクトリを返す
func (f *FileConfig) Root() string {
	if f.Bench.Root == "" {
		return os.TempDir()
	}
	return f.Bench.Root
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	bc := f.Bench

	if bc.PayloadSize < 0 {
		return fmt.Errorf("payload_size must be non-negative")
	}

	for _, r := range bc.Rates {
		if r <= 0 {
			return fmt.Errorf("rates must be positive, got %d", r)
		}
	}

	if bc.Duration != "" {
		d, err := time.ParseDuration(bc.Duration)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("duration must be positive")
		}
	}

	switch bc.Client {
	case "", ClientLocalFS, ClientMem:
	default:
		return fmt.Errorf("unknown client: %s (available: %s, %s)", bc.Client, ClientLocalFS, ClientMem)
	}

	if bc.LogLevel != "" {
		switch bc.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("unknown log_level: %s", bc.LogLevel)
		}
	}

	return nil
}

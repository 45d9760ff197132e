package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig は設定値が不正な場合に返されるエラー
var ErrInvalidConfig = errors.New("invalid config")

// AppConfig は差分領域検出のための設定を保持する構造体
type AppConfig struct {
	// 領域検出の設定
	Tolerance int // 差分ピクセル同士を同じ領域とみなす最大距離（ピクセル単位）

	// 描画の設定
	GrayAlpha    float64    // 変化のないピクセルを白へ寄せる係数 (0.0～1.0)
	OverlayColor color.RGBA // 差分領域を囲む枠の色

	// 並列処理のための設定
	NumCPU int // 差分判定に使用するワーカー数

	// 出力の設定
	OutputFormat string // 出力形式 (空の場合は拡張子から判定)
	JPEGQuality  int    // JPEG出力時の品質 (1-100)
}

// fileConfig は設定ファイルの内容を表す。未指定の項目はデフォルト値を維持する
type fileConfig struct {
	Tolerance    *int     `toml:"tolerance" yaml:"tolerance"`
	GrayAlpha    *float64 `toml:"gray_alpha" yaml:"gray_alpha"`
	OverlayColor *string  `toml:"overlay_color" yaml:"overlay_color"`
	NumCPU       *int     `toml:"num_cpu" yaml:"num_cpu"`
	OutputFormat *string  `toml:"output_format" yaml:"output_format"`
	JPEGQuality  *int     `toml:"jpeg_quality" yaml:"jpeg_quality"`
}

// NewDefaultConfig はデフォルト設定を持つ新しいAppConfigを返す
func NewDefaultConfig() *AppConfig {
	return &AppConfig{
		Tolerance:    5,
		GrayAlpha:    0.5,
		OverlayColor: color.RGBA{255, 0, 0, 255}, // 赤枠
		NumCPU:       runtime.NumCPU(),
		OutputFormat: "",
		JPEGQuality:  90,
	}
}

// Validate は設定値の範囲をチェックする
func (c *AppConfig) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must not be negative: %d", ErrInvalidConfig, c.Tolerance)
	}
	if c.GrayAlpha < 0 || c.GrayAlpha > 1 {
		return fmt.Errorf("%w: gray alpha must be within [0, 1]: %v", ErrInvalidConfig, c.GrayAlpha)
	}
	if c.NumCPU <= 0 {
		return fmt.Errorf("%w: number of workers must be positive: %d", ErrInvalidConfig, c.NumCPU)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg quality must be within [1, 100]: %d", ErrInvalidConfig, c.JPEGQuality)
	}
	switch c.OutputFormat {
	case "", "png", "jpeg", "bmp", "tiff":
	default:
		return fmt.Errorf("%w: unsupported output format: %s", ErrInvalidConfig, c.OutputFormat)
	}
	return nil
}

// LoadFile は設定ファイル (TOML または YAML) を読み込み、デフォルト設定に上書きした結果を返す
func LoadFile(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return nil, fmt.Errorf("failed to parse toml config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidConfig, ext)
	}

	cfg := NewDefaultConfig()
	if err := fc.applyTo(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyTo はファイルで指定された項目だけを cfg に反映する
func (fc *fileConfig) applyTo(cfg *AppConfig) error {
	if fc.Tolerance != nil {
		cfg.Tolerance = *fc.Tolerance
	}
	if fc.GrayAlpha != nil {
		cfg.GrayAlpha = *fc.GrayAlpha
	}
	if fc.OverlayColor != nil {
		c, err := ParseHexColor(*fc.OverlayColor)
		if err != nil {
			return err
		}
		cfg.OverlayColor = c
	}
	if fc.NumCPU != nil {
		cfg.NumCPU = *fc.NumCPU
	}
	if fc.OutputFormat != nil {
		cfg.OutputFormat = strings.ToLower(*fc.OutputFormat)
	}
	if fc.JPEGQuality != nil {
		cfg.JPEGQuality = *fc.JPEGQuality
	}
	return nil
}

// ParseHexColor は "#rrggbb" 形式の文字列を不透明な色に変換する
// 先頭の "#" は省略できる
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: invalid color %q: %v", ErrInvalidConfig, s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// FormatHexColor は色を "#rrggbb" 形式の文字列に変換する
func FormatHexColor(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

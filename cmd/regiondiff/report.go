package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xshoji/go-region-diff/config"
	"github.com/xshoji/go-region-diff/imageutil"
)

// comparisonReport はレポートファイルに書き出す比較結果
type comparisonReport struct {
	ImageA            string                `json:"imageA" yaml:"imageA"`
	ImageB            string                `json:"imageB" yaml:"imageB"`
	Output            string                `json:"output" yaml:"output"`
	Width             int                   `json:"width" yaml:"width"`
	Height            int                   `json:"height" yaml:"height"`
	Tolerance         int                   `json:"tolerance" yaml:"tolerance"`
	ChangedPixelCount int                   `json:"changedPixelCount" yaml:"changedPixelCount"`
	Similarity        float64               `json:"similarity" yaml:"similarity"`
	Rectangles        []imageutil.Rectangle `json:"rectangles" yaml:"rectangles"`
}

func newComparisonReport(pathA, pathB, output string, cfg *config.AppConfig, result *imageutil.ComparisonResult) *comparisonReport {
	return &comparisonReport{
		ImageA:            pathA,
		ImageB:            pathB,
		Output:            output,
		Width:             result.Output.Width,
		Height:            result.Output.Height,
		Tolerance:         cfg.Tolerance,
		ChangedPixelCount: result.ChangedPixelCount,
		Similarity:        result.Similarity(),
		Rectangles:        result.Rectangles,
	}
}

// reportFormat は拡張子からレポートの形式 (json, yaml) を判定する
func reportFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", ext)
	}
}

// writeReport は拡張子に応じて JSON または YAML でレポートを書き出す
func writeReport(path string, report *comparisonReport) error {
	format, err := reportFormat(path)
	if err != nil {
		return err
	}

	var data []byte
	if format == "json" {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = yaml.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

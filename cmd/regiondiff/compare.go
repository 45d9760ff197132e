package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xshoji/go-region-diff/config"
	"github.com/xshoji/go-region-diff/imageutil"
	"github.com/xshoji/go-region-diff/utils"
)

// compareOptions は compare コマンドのオプション
type compareOptions struct {
	configPath   string
	output       string
	report       string
	tolerance    int
	grayAlpha    float64
	overlayColor string
	workers      int
	format       string
	jpegQuality  int
}

func newCompareCmd() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <imageA> <imageB>",
		Short: "Compare two images and write an annotated diff image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			// 比較を始める前に出力とレポートの形式を確認する
			if _, err := imageutil.ResolveOutputFormat(opts.output, cfg.OutputFormat); err != nil {
				return err
			}
			if opts.report != "" {
				if _, err := reportFormat(opts.report); err != nil {
					return err
				}
			}
			return runCompare(cmd.OutOrStdout(), cfg, opts, args[0], args[1])
		},
	}

	addCompareFlags(cmd.Flags(), opts)
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// addCompareFlags は compare コマンドのフラグを登録する
func addCompareFlags(fs *pflag.FlagSet, opts *compareOptions) {
	defaults := config.NewDefaultConfig()

	fs.StringVarP(&opts.output, "out", "o", "", "Output diff image path (required)")
	fs.StringVarP(&opts.configPath, "config", "c", "", "Config file (.toml, .yaml)")
	fs.StringVarP(&opts.report, "report", "r", "", "Write rectangles and counts to a report file (.json, .yaml)")
	fs.IntVarP(&opts.tolerance, "tolerance", "t", defaults.Tolerance, "Maximum gap in pixels bridged when grouping changed pixels")
	fs.Float64Var(&opts.grayAlpha, "gray-alpha", defaults.GrayAlpha, "Strength of unchanged pixels (0.0=white, 1.0=full luminance)")
	fs.StringVar(&opts.overlayColor, "overlay-color", config.FormatHexColor(defaults.OverlayColor), "Rectangle border color (#rrggbb)")
	fs.IntVarP(&opts.workers, "workers", "w", defaults.NumCPU, "Number of workers for pixel classification")
	fs.StringVar(&opts.format, "format", defaults.OutputFormat, "Output format (png, jpeg, bmp, tiff); inferred from extension when empty")
	fs.IntVar(&opts.jpegQuality, "jpeg-quality", defaults.JPEGQuality, "JPEG quality (1-100)")
}

// buildConfig は設定ファイルとコマンドラインの値から設定を組み立てる
// 明示的に指定されたフラグだけが設定ファイルの値を上書きする
func buildConfig(fs *pflag.FlagSet, opts *compareOptions) (*config.AppConfig, error) {
	cfg := config.NewDefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if fs.Changed("tolerance") {
		cfg.Tolerance = opts.tolerance
	}
	if fs.Changed("gray-alpha") {
		cfg.GrayAlpha = opts.grayAlpha
	}
	if fs.Changed("overlay-color") {
		c, err := config.ParseHexColor(opts.overlayColor)
		if err != nil {
			return nil, err
		}
		cfg.OverlayColor = c
	}
	if fs.Changed("workers") {
		cfg.NumCPU = opts.workers
	}
	if fs.Changed("format") {
		cfg.OutputFormat = opts.format
	}
	if fs.Changed("jpeg-quality") {
		cfg.JPEGQuality = opts.jpegQuality
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runCompare は画像を読み込んで比較し、差分画像とレポートを保存する
func runCompare(w io.Writer, cfg *config.AppConfig, opts *compareOptions, pathA, pathB string) error {
	startTime := time.Now()

	imgA, imgB, err := loadImages(pathA, pathB)
	if err != nil {
		return err
	}
	slog.Info("Loaded images",
		"imageA", pathA, "sizeA", fmt.Sprintf("%dx%d", imgA.Width, imgA.Height),
		"imageB", pathB, "sizeB", fmt.Sprintf("%dx%d", imgB.Width, imgB.Height))

	analyzer := imageutil.NewDiffAnalyzer(cfg)
	analyzer.SetLogger(slog.Default())

	result, err := analyzer.Compare(imgA, imgB)
	if err != nil {
		return fmt.Errorf("failed to compare images: %w", err)
	}

	if err := imageutil.SaveDiffImage(result.Output.Image(), opts.output, cfg.OutputFormat, cfg.JPEGQuality); err != nil {
		return fmt.Errorf("failed to save diff image: %w", err)
	}

	if opts.report != "" {
		report := newComparisonReport(pathA, pathB, opts.output, cfg, result)
		if err := writeReport(opts.report, report); err != nil {
			return err
		}
	}

	slog.Info("Comparison complete",
		"changed_pixels", result.ChangedPixelCount,
		"regions", result.RegionCount(),
		"elapsed", time.Since(startTime))

	printSummary(w, result, opts.output)
	return nil
}

// loadImages は入力画像を読み込む
func loadImages(pathA, pathB string) (imgA, imgB *imageutil.PixelBuffer, err error) {
	imgA, err = imageutil.LoadPixelBuffer(pathA)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load image A: %w", err)
	}

	imgB, err = imageutil.LoadPixelBuffer(pathB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load image B: %w", err)
	}

	return imgA, imgB, nil
}

// printSummary は比較結果を端末向けに表示する
func printSummary(w io.Writer, result *imageutil.ComparisonResult, outputPath string) {
	labelStyle := lipgloss.NewStyle().Bold(true)
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("pixel count:"), countStyle.Render(strconv.Itoa(result.ChangedPixelCount)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("regions:"), countStyle.Render(strconv.Itoa(result.RegionCount())))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("similarity:"), countStyle.Render(fmt.Sprintf("%.2f%%", utils.ClampFloat64(result.Similarity()*100, 0, 100))))
	fmt.Fprintf(w, "%s\n", okStyle.Render("Diff image saved to "+outputPath))
}

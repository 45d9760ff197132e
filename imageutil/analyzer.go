package imageutil

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/xshoji/go-region-diff/config"
)

// ErrSizeMismatch は比較する2つのバッファのバイト長が異なる場合に返される
var ErrSizeMismatch = errors.New("image size not match")

// ComparisonResult は1回の比較結果
type ComparisonResult struct {
	Output            *PixelBuffer // 注釈付きの差分画像
	Rectangles        []Rectangle  // 領域IDの昇順（行優先走査で最初に見つかった順）
	ChangedPixelCount int          // 差分と判定されたピクセル数
}

// stages は比較処理の各段階。テストで差し替えられるよう関数として保持する
type stages struct {
	classify  func(a, b *PixelBuffer, workers int) (*LabelMatrix, int)
	label     func(m *LabelMatrix, tolerance int) int
	extract   func(m *LabelMatrix, regionCount int) []Rectangle
	composite func(a, b *PixelBuffer, m *LabelMatrix, rects []Rectangle, grayAlpha float64, overlay color.RGBA) *PixelBuffer
}

var defaultStages = stages{
	classify:  classifyPixels,
	label:     labelRegions,
	extract:   extractRectangles,
	composite: renderDiffImage,
}

// DiffAnalyzer は画像差分の検出とビジュアル化を行う構造体
type DiffAnalyzer struct {
	cfg    *config.AppConfig
	logger *slog.Logger
	stages stages
}

// NewDiffAnalyzer 設定をもとに新しいDiffAnalyzerインスタンスを作成
// cfg が nil の場合はデフォルト設定を使う
func NewDiffAnalyzer(cfg *config.AppConfig) *DiffAnalyzer {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &DiffAnalyzer{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
		stages: defaultStages,
	}
}

// SetLogger はデバッグ出力先のロガーを設定する。nil の場合は何も出力しない
func (da *DiffAnalyzer) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	da.logger = logger
}

// Compare は2つのバッファを比較し、差分領域と差分画像を返す
//
// バイト長が異なる場合はピクセル処理を一切行わずに ErrSizeMismatch を返す。
// 寸法は imgA のものを使う。nil のバッファには ErrInvalidBuffer を返す。
func (da *DiffAnalyzer) Compare(imgA, imgB *PixelBuffer) (*ComparisonResult, error) {
	if imgA == nil || imgB == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if len(imgA.Data) != len(imgB.Data) {
		return nil, fmt.Errorf("%w: %d bytes vs %d bytes", ErrSizeMismatch, len(imgA.Data), len(imgB.Data))
	}
	if err := da.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := imgA.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	da.logger.Debug("comparing images", "width", imgA.Width, "height", imgA.Height, "tolerance", da.cfg.Tolerance)

	// 1. ピクセル単位の差分判定
	matrix, changed := da.stages.classify(imgA, imgB, da.cfg.NumCPU)
	da.logger.Debug("classified pixels", "changed", changed, "elapsed", time.Since(startTime))

	// 2. 差分ピクセルの領域分け
	regionCount := da.stages.label(matrix, da.cfg.Tolerance)
	da.logger.Debug("labeled regions", "regions", regionCount, "elapsed", time.Since(startTime))

	// 3. 外接矩形の抽出
	rects := da.stages.extract(matrix, regionCount)

	// 4. 差分画像の描画
	output := da.stages.composite(imgA, imgB, matrix, rects, da.cfg.GrayAlpha, da.cfg.OverlayColor)
	da.logger.Debug("comparison completed", "rectangles", len(rects), "elapsed", time.Since(startTime))

	return &ComparisonResult{
		Output:            output,
		Rectangles:        rects,
		ChangedPixelCount: changed,
	}, nil
}

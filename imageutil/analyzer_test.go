package imageutil

import (
	"bytes"
	"errors"
	"image/color"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/xshoji/go-region-diff/config"
)

// newTestAnalyzer はテスト用の設定で DiffAnalyzer を作成する
func newTestAnalyzer(tolerance, workers int) *DiffAnalyzer {
	cfg := config.NewDefaultConfig()
	cfg.Tolerance = tolerance
	cfg.NumCPU = workers
	return NewDiffAnalyzer(cfg)
}

func TestCompare_SinglePixel(t *testing.T) {
	// 4x4 の黒画像で (1, 1) だけ白い
	black := color.NRGBA{0, 0, 0, 255}
	imgA := newFilledBuffer(4, 4, black)
	imgB := newFilledBuffer(4, 4, black)
	imgB.SetPixel(1, 1, color.NRGBA{255, 255, 255, 255})

	result, err := newTestAnalyzer(5, 1).Compare(imgA, imgB)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if result.ChangedPixelCount != 1 {
		t.Errorf("ChangedPixelCount = %d, want 1", result.ChangedPixelCount)
	}
	want := []Rectangle{{MinX: 1, MaxX: 1, MinY: 1, MaxY: 1, PixelCount: 1}}
	if !reflect.DeepEqual(result.Rectangles, want) {
		t.Errorf("Rectangles = %v, want %v", result.Rectangles, want)
	}

	// 1ピクセルの矩形は枠で上書きされて赤になる
	if got := result.Output.PixelAt(1, 1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("output (1, 1) = %v, want red border", got)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x == 1 && y == 1 {
				continue
			}
			if got := result.Output.PixelAt(x, y); got != (color.NRGBA{127, 127, 127, 255}) {
				t.Errorf("output (%d, %d) = %v, want blended black", x, y, got)
			}
		}
	}
}

func TestCompare_ChangedPixelKeepsColor(t *testing.T) {
	// 枠が差分ピクセルに重ならない場合は imgB の色が残る
	black := color.NRGBA{0, 0, 0, 255}
	imgA := newFilledBuffer(5, 1, black)
	imgB := newFilledBuffer(5, 1, black)
	for x := 0; x < 5; x++ {
		imgB.SetPixel(x, 0, color.NRGBA{255, 255, 255, 255})
	}

	cfg := config.NewDefaultConfig()
	cfg.OverlayColor = color.RGBA{0, 255, 0, 255}
	result, err := NewDiffAnalyzer(cfg).Compare(imgA, imgB)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	// 1行の画像では全ピクセルが枠になる
	if got := result.Output.PixelAt(2, 0); got != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("output (2, 0) = %v, want overlay color", got)
	}

	imgA = newFilledBuffer(5, 5, black)
	imgB = newFilledBuffer(5, 5, black)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			imgB.SetPixel(x, y, color.NRGBA{200, 100, 50, 255})
		}
	}
	result, err = NewDiffAnalyzer(cfg).Compare(imgA, imgB)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if got := result.Output.PixelAt(2, 2); got != (color.NRGBA{200, 100, 50, 255}) {
		t.Errorf("output (2, 2) = %v, want original color of image B", got)
	}
}

func TestCompare_Tolerance(t *testing.T) {
	black := color.NRGBA{0, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}
	imgA := newFilledBuffer(4, 4, black)
	imgB := newFilledBuffer(4, 4, black)
	imgB.SetPixel(0, 0, white)
	imgB.SetPixel(3, 0, white)

	tests := []struct {
		name      string
		tolerance int
		expected  []Rectangle
	}{
		{
			name:      "許容距離5で1つの領域",
			tolerance: 5,
			expected:  []Rectangle{{MinX: 0, MaxX: 3, MinY: 0, MaxY: 0, PixelCount: 2}},
		},
		{
			name:      "許容距離1で2つの領域",
			tolerance: 1,
			expected: []Rectangle{
				{MinX: 0, MaxX: 0, MinY: 0, MaxY: 0, PixelCount: 1},
				{MinX: 3, MaxX: 3, MinY: 0, MaxY: 0, PixelCount: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestAnalyzer(tt.tolerance, 2).Compare(imgA, imgB)
			if err != nil {
				t.Fatalf("Compare() error = %v", err)
			}
			if !reflect.DeepEqual(result.Rectangles, tt.expected) {
				t.Errorf("Rectangles = %v, want %v", result.Rectangles, tt.expected)
			}
			if result.ChangedPixelCount != 2 {
				t.Errorf("ChangedPixelCount = %d, want 2", result.ChangedPixelCount)
			}
		})
	}
}

func TestCompare_IdenticalImages(t *testing.T) {
	imgA, _ := newRandomPair(20, 10, 7)
	imgB := &PixelBuffer{Width: imgA.Width, Height: imgA.Height, Data: append([]byte(nil), imgA.Data...)}

	result, err := newTestAnalyzer(5, 4).Compare(imgA, imgB)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.ChangedPixelCount != 0 || len(result.Rectangles) != 0 {
		t.Errorf("expected no differences, got count=%d rects=%d", result.ChangedPixelCount, len(result.Rectangles))
	}

	// すべてのピクセルがグレースケール変換されている
	for y := 0; y < imgA.Height; y++ {
		for x := 0; x < imgA.Width; x++ {
			src := imgA.PixelAt(x, y)
			v := grayValue(src.R, src.G, src.B, src.A, 0.5)
			if got := result.Output.PixelAt(x, y); got != (color.NRGBA{v, v, v, 255}) {
				t.Fatalf("output (%d, %d) = %v, want gray %d", x, y, got, v)
			}
		}
	}
}

func TestCompare_SizeMismatch(t *testing.T) {
	calls := 0
	da := newTestAnalyzer(5, 1)
	da.stages = stages{
		classify: func(a, b *PixelBuffer, workers int) (*LabelMatrix, int) {
			calls++
			return classifyPixels(a, b, workers)
		},
		label: func(m *LabelMatrix, tolerance int) int {
			calls++
			return labelRegions(m, tolerance)
		},
		extract: func(m *LabelMatrix, regionCount int) []Rectangle {
			calls++
			return extractRectangles(m, regionCount)
		},
		composite: func(a, b *PixelBuffer, m *LabelMatrix, rects []Rectangle, grayAlpha float64, overlay color.RGBA) *PixelBuffer {
			calls++
			return renderDiffImage(a, b, m, rects, grayAlpha, overlay)
		},
	}

	result, err := da.Compare(NewPixelBuffer(4, 4), NewPixelBuffer(4, 5))
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("Compare() error = %v, want ErrSizeMismatch", err)
	}
	if result != nil {
		t.Errorf("Compare() result = %v, want nil", result)
	}
	if calls != 0 {
		t.Errorf("stages were called %d times, want 0", calls)
	}

	// 同じ長さであれば各段階がちょうど1回ずつ呼ばれる
	if _, err := da.Compare(NewPixelBuffer(4, 4), NewPixelBuffer(4, 4)); err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if calls != 4 {
		t.Errorf("stages were called %d times, want 4", calls)
	}
}

func TestCompare_SameLengthDifferentShape(t *testing.T) {
	// バイト長が同じなら imgA の寸法で比較する
	imgA := NewPixelBuffer(2, 8)
	imgB := NewPixelBuffer(4, 4)
	imgB.Data[0] = 1

	result, err := newTestAnalyzer(5, 1).Compare(imgA, imgB)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.Output.Width != 2 || result.Output.Height != 8 {
		t.Errorf("output size = %dx%d, want 2x8", result.Output.Width, result.Output.Height)
	}
	if result.ChangedPixelCount != 1 {
		t.Errorf("ChangedPixelCount = %d, want 1", result.ChangedPixelCount)
	}
}

func TestCompare_InvalidInput(t *testing.T) {
	t.Run("不正なバッファ", func(t *testing.T) {
		bad := &PixelBuffer{Width: 3, Height: 3, Data: make([]byte, 16)}
		_, err := newTestAnalyzer(5, 1).Compare(bad, &PixelBuffer{Width: 2, Height: 2, Data: make([]byte, 16)})
		if !errors.Is(err, ErrInvalidBuffer) {
			t.Errorf("Compare() error = %v, want ErrInvalidBuffer", err)
		}
	})

	t.Run("nilのバッファ", func(t *testing.T) {
		analyzer := newTestAnalyzer(5, 1)
		if _, err := analyzer.Compare(nil, NewPixelBuffer(1, 1)); !errors.Is(err, ErrInvalidBuffer) {
			t.Errorf("Compare(nil, b) error = %v, want ErrInvalidBuffer", err)
		}
		if _, err := analyzer.Compare(NewPixelBuffer(1, 1), nil); !errors.Is(err, ErrInvalidBuffer) {
			t.Errorf("Compare(a, nil) error = %v, want ErrInvalidBuffer", err)
		}
	})

	t.Run("不正な設定", func(t *testing.T) {
		_, err := newTestAnalyzer(-1, 1).Compare(NewPixelBuffer(1, 1), NewPixelBuffer(1, 1))
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("Compare() error = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestCompare_Deterministic(t *testing.T) {
	imgA, imgB := newRandomPair(64, 48, 42)

	first, err := newTestAnalyzer(3, 1).Compare(imgA, imgB)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	second, err := newTestAnalyzer(3, 1).Compare(imgA, imgB)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	parallel, err := newTestAnalyzer(3, 8).Compare(imgA, imgB)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated comparisons differ")
	}
	if !reflect.DeepEqual(first, parallel) {
		t.Errorf("parallel comparison differs from sequential")
	}
}

func TestCompare_RegionInvariants(t *testing.T) {
	imgA, imgB := newRandomPair(50, 40, 3)

	da := newTestAnalyzer(2, 1)
	matrix, changed := classifyPixels(imgA, imgB, 1)
	regions := labelRegions(matrix, 2)
	rects := extractRectangles(matrix, regions)

	result, err := da.Compare(imgA, imgB)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !reflect.DeepEqual(result.Rectangles, rects) {
		t.Fatalf("Compare() rectangles differ from the individual stages")
	}

	total := 0
	for _, r := range rects {
		if r.MinX > r.MaxX || r.MinY > r.MaxY {
			t.Errorf("invalid rectangle %v", r)
		}
		total += r.PixelCount
	}
	if total != changed || result.ChangedPixelCount != changed {
		t.Errorf("pixel counts: rects=%d classified=%d result=%d", total, changed, result.ChangedPixelCount)
	}

	// すべての差分ピクセルはラベルを持ち、その領域の矩形内にある
	for y := 0; y < matrix.Height; y++ {
		for x := 0; x < matrix.Width; x++ {
			id, ok := matrix.Label(x, y)
			if ok != matrix.Changed(x, y) {
				t.Fatalf("(%d, %d): labeled=%v changed=%v", x, y, ok, matrix.Changed(x, y))
			}
			if ok && !rects[id-1].Contains(x, y) {
				t.Errorf("(%d, %d) with label %d lies outside %v", x, y, id, rects[id-1])
			}
		}
	}
}

func TestCompare_Logging(t *testing.T) {
	var buf bytes.Buffer
	da := newTestAnalyzer(5, 1)
	da.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	if _, err := da.Compare(NewPixelBuffer(2, 2), NewPixelBuffer(2, 2)); err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !strings.Contains(buf.String(), "comparison completed") {
		t.Errorf("expected debug log output, got %q", buf.String())
	}

	// nil を渡すと出力しない
	da.SetLogger(nil)
	if _, err := da.Compare(NewPixelBuffer(2, 2), NewPixelBuffer(2, 2)); err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
}

func TestNewDiffAnalyzer_NilConfig(t *testing.T) {
	da := NewDiffAnalyzer(nil)
	if da.cfg.Tolerance != 5 {
		t.Errorf("default tolerance = %d, want 5", da.cfg.Tolerance)
	}
}

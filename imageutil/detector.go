package imageutil

import (
	"sync"

	"github.com/xshoji/go-region-diff/utils"
)

// pixelDelta は2つのバッファの同じ位置 pos のピクセルが異なるかを判定する
// R, G, B, A のいずれかのバイトが一致しなければ差分とみなす
func pixelDelta(a, b []byte, pos int) bool {
	return a[pos+0] != b[pos+0] ||
		a[pos+1] != b[pos+1] ||
		a[pos+2] != b[pos+2] ||
		a[pos+3] != b[pos+3]
}

// rowBand は差分判定を担当する行の範囲 [start, end)
type rowBand struct {
	start, end int
}

// classifyPixels は全ピクセルの差分判定を行い、ラベル付け前の行列と差分ピクセル数を返す
// workers が2以上の場合は行単位で分割して並列に判定する
func classifyPixels(a, b *PixelBuffer, workers int) (*LabelMatrix, int) {
	width, height := a.Width, a.Height
	matrix := newLabelMatrix(width, height)

	numWorkers := utils.Clamp(workers, 1, utils.Max(height, 1))
	if numWorkers == 1 {
		return matrix, classifyRows(a.Data, b.Data, matrix, rowBand{0, height})
	}

	// 行を均等に分割する
	bandHeight := (height + numWorkers - 1) / numWorkers
	bands := make(chan rowBand, numWorkers)
	for start := 0; start < height; start += bandHeight {
		bands <- rowBand{start, utils.Min(start+bandHeight, height)}
	}
	close(bands)

	counts := make(chan int, numWorkers)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for band := range bands {
				counts <- classifyRows(a.Data, b.Data, matrix, band)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(counts)
	}()

	total := 0
	for c := range counts {
		total += c
	}
	return matrix, total
}

// classifyRows は band の範囲の行を判定し、差分ピクセル数を返す
// 各 band は行列の互いに重ならない領域だけに書き込む
func classifyRows(a, b []byte, matrix *LabelMatrix, band rowBand) int {
	count := 0
	for y := band.start; y < band.end; y++ {
		for x := 0; x < matrix.Width; x++ {
			idx := y*matrix.Width + x
			if pixelDelta(a, b, idx*BytesPerPixel) {
				matrix.changed[idx] = true
				count++
			}
		}
	}
	return count
}

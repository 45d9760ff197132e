package imageutil

import (
	"fmt"
)

// HasDifferences は2つのバッファに差分が1ピクセルでもあるかを判定する
// 最初の差分ピクセルを見つけた時点で打ち切る
func HasDifferences(imgA, imgB *PixelBuffer) (bool, error) {
	if len(imgA.Data) != len(imgB.Data) {
		return false, fmt.Errorf("%w: %d bytes vs %d bytes", ErrSizeMismatch, len(imgA.Data), len(imgB.Data))
	}

	for pos := 0; pos+BytesPerPixel <= len(imgA.Data); pos += BytesPerPixel {
		if pixelDelta(imgA.Data, imgB.Data, pos) {
			return true, nil
		}
	}
	return false, nil
}

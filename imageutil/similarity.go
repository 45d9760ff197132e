package imageutil

// Similarity は変化のなかったピクセルの割合を返す
// スコアは0.0～1.0の範囲（1.0が完全一致）。ピクセルがない場合は1.0
func (r *ComparisonResult) Similarity() float64 {
	if r.Output == nil {
		return 1.0
	}
	total := r.Output.Width * r.Output.Height
	if total == 0 {
		return 1.0
	}
	return float64(total-r.ChangedPixelCount) / float64(total)
}

// RegionCount は検出された差分領域の数
func (r *ComparisonResult) RegionCount() int {
	return len(r.Rectangles)
}

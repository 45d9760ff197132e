package imageutil

import (
	"image"
)

// Rectangle は1つの差分領域の外接矩形。座標はすべて両端を含む
type Rectangle struct {
	MinX       int `json:"minX" yaml:"minX"`
	MaxX       int `json:"maxX" yaml:"maxX"`
	MinY       int `json:"minY" yaml:"minY"`
	MaxY       int `json:"maxY" yaml:"maxY"`
	PixelCount int `json:"pixelCount" yaml:"pixelCount"`
}

// Width は矩形の幅（ピクセル数）
func (r Rectangle) Width() int {
	return r.MaxX - r.MinX + 1
}

// Height は矩形の高さ（ピクセル数）
func (r Rectangle) Height() int {
	return r.MaxY - r.MinY + 1
}

// Contains は座標 (x, y) が矩形の内側（枠を含む）にあるかを返す
func (r Rectangle) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Bounds は終端を含まない image.Rectangle に変換する
func (r Rectangle) Bounds() image.Rectangle {
	return image.Rect(r.MinX, r.MinY, r.MaxX+1, r.MaxY+1)
}

// extractRectangles は領域IDごとの外接矩形を領域IDの昇順で返す
// メンバーのいない領域IDは矩形を生成しない
func extractRectangles(m *LabelMatrix, regionCount int) []Rectangle {
	if regionCount <= 0 {
		return []Rectangle{}
	}

	rects := make([]Rectangle, regionCount)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			id := m.labels[y*m.Width+x]
			if id == 0 || int(id) > regionCount {
				continue
			}

			r := &rects[id-1]
			if r.PixelCount == 0 {
				*r = Rectangle{MinX: x, MaxX: x, MinY: y, MaxY: y}
			} else {
				r.MinX = min(r.MinX, x)
				r.MaxX = max(r.MaxX, x)
				r.MinY = min(r.MinY, y)
				r.MaxY = max(r.MaxY, y)
			}
			r.PixelCount++
		}
	}

	result := make([]Rectangle, 0, regionCount)
	for _, r := range rects {
		if r.PixelCount > 0 {
			result = append(result, r)
		}
	}
	return result
}

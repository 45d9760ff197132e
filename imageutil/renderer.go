package imageutil

import (
	"image/color"
)

// renderDiffImage は差分画像を描画する
// 変化のないピクセルは imgA のグレースケール、差分ピクセルは imgB の元の色で描き、
// 最後に各矩形の枠を overlay 色で上書きする
func renderDiffImage(imgA, imgB *PixelBuffer, m *LabelMatrix, rects []Rectangle, grayAlpha float64, overlay color.RGBA) *PixelBuffer {
	output := NewPixelBuffer(m.Width, m.Height)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			idx := y*m.Width + x
			pos := idx * BytesPerPixel
			if m.changed[idx] {
				output.setAt(pos, imgB.Data[pos+0], imgB.Data[pos+1], imgB.Data[pos+2], 255)
				continue
			}
			v := grayValue(imgA.Data[pos+0], imgA.Data[pos+1], imgA.Data[pos+2], imgA.Data[pos+3], grayAlpha)
			output.setAt(pos, v, v, v, 255)
		}
	}

	drawBorders(output, rects, color.NRGBA{overlay.R, overlay.G, overlay.B, 255})
	return output
}

// drawBorders は各矩形の4辺を1ピクセル幅で描画する
func drawBorders(img *PixelBuffer, rects []Rectangle, c color.NRGBA) {
	for _, rect := range rects {
		// 左辺と右辺を描画
		drawVLine(img, rect.MinX, rect.MinY, rect.MaxY, c)
		drawVLine(img, rect.MaxX, rect.MinY, rect.MaxY, c)

		// 上辺と下辺を描画
		drawHLine(img, rect.MinY, rect.MinX, rect.MaxX, c)
		drawHLine(img, rect.MaxY, rect.MinX, rect.MaxX, c)
	}
}

// drawVLine は x 列の y1 から y2 までを塗る。範囲外は SetPixel が無視する
func drawVLine(img *PixelBuffer, x, y1, y2 int, c color.NRGBA) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		img.SetPixel(x, y, c)
	}
}

// drawHLine は y 行の x1 から x2 までを塗る
func drawHLine(img *PixelBuffer, y, x1, x2 int, c color.NRGBA) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		img.SetPixel(x, y, c)
	}
}

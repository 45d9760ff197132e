package imageutil

import (
	"github.com/xshoji/go-region-diff/utils"
)

// 輝度変換の係数
const (
	lumaR = 0.29889531
	lumaG = 0.58662247
	lumaB = 0.11448223
)

// rgbToLuma はRGBを輝度に変換する
func rgbToLuma(r, g, b uint8) float64 {
	return float64(r)*lumaR + float64(g)*lumaG + float64(b)*lumaB
}

// blendToWhite は値 c を係数 a で白に向けて混合する
// a=0 で白、a=1 で c そのもの
func blendToWhite(c, a float64) float64 {
	return 255 + (c-255)*a
}

// grayValue は変化のないピクセルの描画値を計算する
// 輝度をアルファと grayAlpha に応じて白へ寄せる
func grayValue(r, g, b, a uint8, grayAlpha float64) uint8 {
	v := blendToWhite(rgbToLuma(r, g, b), grayAlpha*float64(a)/255)
	return uint8(utils.ClampFloat64(v, 0, 255))
}

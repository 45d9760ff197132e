package imageutil

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/xshoji/go-region-diff/utils"
)

// BytesPerPixel は1ピクセルあたりのバイト数 (R, G, B, A)
const BytesPerPixel = 4

// ErrInvalidBuffer はバッファ長が幅×高さ×4と一致しない場合に返される
var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// PixelBuffer は行優先・パディングなしのRGBA8ピクセル列を保持する
// アルファは乗算済みではない
type PixelBuffer struct {
	Width  int
	Height int
	Data   []byte
}

// NewPixelBuffer は全ピクセルが0の新しいバッファを作成する
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height*BytesPerPixel),
	}
}

// NewPixelBufferFromImage は任意の image.Image を非乗算RGBAのバッファに変換する
func NewPixelBufferFromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// すでに原点から始まるNRGBAであればそのまま使う
	if nrgba, ok := img.(*image.NRGBA); ok && bounds.Min == (image.Point{}) && nrgba.Stride == width*BytesPerPixel {
		return &PixelBuffer{Width: width, Height: height, Data: nrgba.Pix[:width*height*BytesPerPixel]}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return &PixelBuffer{Width: width, Height: height, Data: dst.Pix}
}

// Validate はバッファ長と寸法が一致しているかをチェックする
func (pb *PixelBuffer) Validate() error {
	if pb.Width < 0 || pb.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidBuffer, pb.Width, pb.Height)
	}
	if want := pb.Width * pb.Height * BytesPerPixel; len(pb.Data) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrInvalidBuffer, pb.Width, pb.Height, want, len(pb.Data))
	}
	return nil
}

// offset は座標 (x, y) のピクセルの先頭バイト位置を返す
func (pb *PixelBuffer) offset(x, y int) int {
	return (y*pb.Width + x) * BytesPerPixel
}

// PixelAt は座標 (x, y) の色を返す。範囲外の場合は透明色を返す
func (pb *PixelBuffer) PixelAt(x, y int) color.NRGBA {
	if !utils.InBounds(x, y, pb.Width, pb.Height) {
		return color.NRGBA{}
	}
	i := pb.offset(x, y)
	return color.NRGBA{pb.Data[i], pb.Data[i+1], pb.Data[i+2], pb.Data[i+3]}
}

// SetPixel は座標 (x, y) に色を書き込む。範囲外の座標は無視する
func (pb *PixelBuffer) SetPixel(x, y int, c color.NRGBA) {
	if !utils.InBounds(x, y, pb.Width, pb.Height) {
		return
	}
	pb.setAt(pb.offset(x, y), c.R, c.G, c.B, c.A)
}

func (pb *PixelBuffer) setAt(pos int, r, g, b, a uint8) {
	pb.Data[pos+0] = r
	pb.Data[pos+1] = g
	pb.Data[pos+2] = b
	pb.Data[pos+3] = a
}

// Image はバッファを共有する *image.NRGBA を返す
func (pb *PixelBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    pb.Data,
		Stride: pb.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, pb.Width, pb.Height),
	}
}

package imageutil

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat は対応していない画像形式の場合に返される
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatFromPath は拡張子から画像形式名を判定する
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".gif":
		return "gif", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	case ".webp":
		return "webp", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// DecodeImage は指定された形式で画像をデコードする
func DecodeImage(r io.Reader, format string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case "png":
		img, err = png.Decode(r)
	case "jpeg":
		img, err = jpeg.Decode(r)
	case "gif":
		img, err = gif.Decode(r)
	case "bmp":
		img, err = bmp.Decode(r)
	case "tiff":
		img, err = tiff.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// CanEncode は EncodeImage が書き出せる形式かどうかを返す
func CanEncode(format string) bool {
	switch format {
	case "png", "jpeg", "bmp", "tiff":
		return true
	default:
		return false
	}
}

// ResolveOutputFormat は出力形式を決める
// format が空の場合は拡張子から判定し、書き出せない形式はエラーにする
func ResolveOutputFormat(outputPath, format string) (string, error) {
	if format == "" {
		var err error
		if format, err = FormatFromPath(outputPath); err != nil {
			return "", err
		}
	}
	if !CanEncode(format) {
		return "", fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, format)
	}
	return format, nil
}

// EncodeImage は指定された形式で画像をエンコードする
// jpegQuality は jpeg の場合のみ使われる
func EncodeImage(w io.Writer, img image.Image, format string, jpegQuality int) error {
	var err error
	switch format {
	case "png":
		err = png.Encode(w, img)
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// LoadImage 指定されたパスから画像を読み込む
func LoadImage(filePath string) (image.Image, error) {
	format, err := FormatFromPath(filePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return DecodeImage(file, format)
}

// LoadPixelBuffer は画像を読み込み、RGBA8のピクセルバッファに変換する
func LoadPixelBuffer(filePath string) (*PixelBuffer, error) {
	img, err := LoadImage(filePath)
	if err != nil {
		return nil, err
	}
	pb := NewPixelBufferFromImage(img)
	slog.Debug("loaded image", "path", filePath, "width", pb.Width, "height", pb.Height)
	return pb, nil
}

// SaveDiffImage 差分画像をファイルに保存する
// format が空の場合は拡張子から判定する
// 形式が書き出せない場合はファイルを作成しない
func SaveDiffImage(img image.Image, outputPath, format string, jpegQuality int) error {
	startTime := time.Now()

	format, err := ResolveOutputFormat(outputPath, format)
	if err != nil {
		return err
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := encodeAndClose(file, img, format, jpegQuality); err != nil {
		return err
	}

	slog.Debug("saved diff image", "path", outputPath, "format", format, "elapsed", time.Since(startTime))
	return nil
}

// encodeAndClose はエンコード後に wc を閉じる。Close の失敗もエラーとして返す
func encodeAndClose(wc io.WriteCloser, img image.Image, format string, jpegQuality int) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	return EncodeImage(wc, img, format, jpegQuality)
}

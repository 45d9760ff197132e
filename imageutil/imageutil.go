// imageutil パッケージは2枚の画像の差分領域を検出し、注釈付きの差分画像を生成します
package imageutil

// このファイルは、imageutil パッケージのエントリーポイントとして機能し、
// 各ファイルに分割された機能へのアクセスポイントを提供します。
//
// 機能は以下のファイルに分割されています：
// - buffer.go: RGBAピクセルバッファ
// - detector.go: ピクセル単位の差分判定
// - labeler.go: 差分ピクセルの領域分け（許容距離付きの塗りつぶし）
// - rectangles.go: 領域ごとの外接矩形の抽出
// - renderer.go: 差分画像の描画
// - analyzer.go: 上記を順に実行する比較処理
// - diff_analyzer.go: 差分の有無だけを高速に判定
// - similarity.go: 比較結果の一致率
// - imageloader.go: 画像の読み込み・保存

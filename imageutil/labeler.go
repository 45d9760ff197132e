package imageutil

import (
	"image"

	"github.com/xshoji/go-region-diff/utils"
)

// LabelMatrix は各ピクセルの差分有無と所属する領域IDを保持する
// 領域IDは1から始まり、0は未ラベルを表す
type LabelMatrix struct {
	Width  int
	Height int

	changed []bool
	labels  []uint32
}

func newLabelMatrix(width, height int) *LabelMatrix {
	return &LabelMatrix{
		Width:   width,
		Height:  height,
		changed: make([]bool, width*height),
		labels:  make([]uint32, width*height),
	}
}

// Changed は座標 (x, y) が差分ピクセルかどうかを返す
func (m *LabelMatrix) Changed(x, y int) bool {
	if !utils.InBounds(x, y, m.Width, m.Height) {
		return false
	}
	return m.changed[y*m.Width+x]
}

// Label は座標 (x, y) の領域IDを返す。ラベルがない場合は false を返す
func (m *LabelMatrix) Label(x, y int) (uint32, bool) {
	if !utils.InBounds(x, y, m.Width, m.Height) {
		return 0, false
	}
	id := m.labels[y*m.Width+x]
	return id, id != 0
}

// probeOffsets は1ピクセルから探索する相対座標を列挙する
//
// 各ステップ i (0 <= i < tolerance) で右、左、下、上、右上、左下、右下の7方向を調べる。
// 左と上は (x-1+i) のように原点を通り越して右・下へ戻るため、実質の到達距離は1になる。
// 右上・左下・右下は対角線上を i+1 だけ進む。
// 重複と原点 (0, 0) は取り除き、最初に現れた順を保つ。
func probeOffsets(tolerance int) []image.Point {
	seen := make(map[image.Point]bool)
	var offsets []image.Point
	add := func(dx, dy int) {
		p := image.Point{X: dx, Y: dy}
		if p == (image.Point{}) || seen[p] {
			return
		}
		seen[p] = true
		offsets = append(offsets, p)
	}

	for i := 0; i < tolerance; i++ {
		add(1+i, 0)
		add(-1+i, 0)
		add(0, 1+i)
		add(0, -1+i)
		add(1+i, -1-i)
		add(-1-i, 1+i)
		add(1+i, 1+i)
	}
	return offsets
}

// labelRegions は差分ピクセルを領域に分け、割り当てた領域数を返す
//
// 行優先で走査し、未ラベルの差分ピクセルを見つけるたびに新しいIDを割り当て、
// probeOffsets で到達できる未ラベルの差分ピクセルへ同じIDを広げていく。
// 再帰は使わず明示的なスタックで探索するため、大きな領域でもスタックは伸びない。
func labelRegions(m *LabelMatrix, tolerance int) int {
	offsets := probeOffsets(tolerance)
	var stack []int
	region := uint32(0)

	for seed := range m.changed {
		if !m.changed[seed] || m.labels[seed] != 0 {
			continue
		}

		region++
		m.labels[seed] = region
		stack = append(stack[:0], seed)

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := idx%m.Width, idx/m.Width

			for _, off := range offsets {
				nx, ny := x+off.X, y+off.Y
				if !utils.InBounds(nx, ny, m.Width, m.Height) {
					continue
				}
				n := ny*m.Width + nx
				// 差分でないピクセル、ラベル済みのピクセルは何もしない
				if !m.changed[n] || m.labels[n] != 0 {
					continue
				}
				m.labels[n] = region
				stack = append(stack, n)
			}
		}
	}

	return int(region)
}

package animation

import (
	"image"
	"image/color"
	"sort"
)

// TransparentIndex 输出调色板中透明色的位置
const TransparentIndex = 0

// maxOpaqueColors 除透明色外调色板最多容纳的颜色数
const maxOpaqueColors = 255

// Quantize 把 NRGBA 帧转换为调色板图像
//
//	alpha 为 0 的像素映射到索引 0（透明）
//	不同颜色不超过 255 种时调色板精确保留原色，否则取出现次数最多的 255 种颜色并按最近色映射
func Quantize(img *image.NRGBA) *image.Paletted {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	counts := map[uint32]int{}
	var order []uint32
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] == 0 {
				continue
			}
			key := rgbKey(row[i], row[i+1], row[i+2])
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	if len(order) > maxOpaqueColors {
		sort.SliceStable(order, func(i, j int) bool {
			return counts[order[i]] > counts[order[j]]
		})
		order = order[:maxOpaqueColors]
	}

	pal := make(color.Palette, 0, len(order)+1)
	pal = append(pal, color.NRGBA{})
	index := make(map[uint32]uint8, len(counts))
	for i, key := range order {
		pal = append(pal, keyColor(key))
		index[key] = uint8(i + 1)
	}

	dst := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	opaque := pal[1:]
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			if p[3] == 0 {
				out[x] = TransparentIndex
				continue
			}
			key := rgbKey(p[0], p[1], p[2])
			idx, ok := index[key]
			if !ok {
				idx = uint8(opaque.Index(keyColor(key)) + 1)
				index[key] = idx
			}
			out[x] = idx
		}
	}
	return dst
}

func rgbKey(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func keyColor(key uint32) color.NRGBA {
	return color.NRGBA{R: uint8(key >> 16), G: uint8(key >> 8), B: uint8(key), A: 0xff}
}

package bgremove

import (
	"image"
	"image/color"

	"github.com/chaos-io/gifbg/animation"
)

// DefaultTolerance 默认颜色距离阈值
const DefaultTolerance = 30

// Distance RGB 曼哈顿距离，忽略 alpha
func Distance(c, ref color.NRGBA) int {
	return absDiff(c.R, ref.R) + absDiff(c.G, ref.G) + absDiff(c.B, ref.B)
}

// ReferenceColor 左上角像素 (Rect.Min) 的颜色，作为该帧的背景色
func ReferenceColor(img *image.NRGBA) color.NRGBA {
	if img.Rect.Empty() {
		return color.NRGBA{}
	}
	return img.NRGBAAt(img.Rect.Min.X, img.Rect.Min.Y)
}

// ClassifyAndStrip 移除单帧背景
//
//	以 (0,0) 像素的 RGB 为背景色，与背景色距离严格小于 tolerance 的像素置为 (0,0,0,0)，
//	其余像素保留原始 RGBA（无 alpha 的源像素视为 255）
//	总是分配新的像素缓冲区，输入图像不会被修改
func ClassifyAndStrip(img image.Image, tolerance int) *image.NRGBA {
	src := animation.ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	bg := ReferenceColor(src)
	for y := 0; y < h; y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := 0; i < len(in); i += 4 {
			c := color.NRGBA{R: in[i], G: in[i+1], B: in[i+2], A: in[i+3]}
			if Distance(c, bg) < tolerance {
				// dst 初始即为全透明
				continue
			}
			copy(out[i:i+4], in[i:i+4])
		}
	}
	return dst
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

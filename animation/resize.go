package animation

import (
	"github.com/nfnt/resize"
)

// Resize 缩放（最长边 <= maxSize），maxSize <= 0 或尺寸已满足时不做任何事
func Resize(a *Animation, maxSize int) {
	if maxSize <= 0 || len(a.Frames) == 0 {
		return
	}
	longest := max(a.Width, a.Height)
	if longest <= maxSize {
		return
	}

	scale := float64(maxSize) / float64(longest)
	newW := max(1, int(float64(a.Width)*scale))
	newH := max(1, int(float64(a.Height)*scale))

	for i, f := range a.Frames {
		resized := resize.Resize(uint(newW), uint(newH), f.Image, resize.Lanczos3)
		a.Frames[i].Image = ToNRGBA(resized)
	}
	a.Width, a.Height = newW, newH
}

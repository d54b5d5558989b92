// Package animation 把动画 GIF 解码为完整画布的 NRGBA 帧序列，并把帧序列重新编码为带透明色的 GIF。
package animation

import (
	"errors"
	"image"
	"time"

	"golang.org/x/image/draw"
)

// DefaultDelay 源文件未给出帧延时时使用的默认值（1/100 秒，即 100ms）
const DefaultDelay = 10

// ErrNoFrames 动画中没有任何帧
var ErrNoFrames = errors.New("animation has no frames")

// Frame 一帧完整画布图像
type Frame struct {
	Image *image.NRGBA
	// Delay 显示时长，单位 1/100 秒
	Delay int
}

// Duration 帧显示时长
func (f Frame) Duration() time.Duration {
	return time.Duration(f.Delay) * 10 * time.Millisecond
}

// Animation 有序帧序列 + 循环次数，LoopCount 为 0 表示无限循环
type Animation struct {
	Width     int
	Height    int
	Frames    []Frame
	LoopCount int
}

// Delays 按顺序返回每帧延时
func (a *Animation) Delays() []int {
	delays := make([]int, len(a.Frames))
	for i, f := range a.Frames {
		delays[i] = f.Delay
	}
	return delays
}

// ToNRGBA 把任意图像转换为原点对齐的 NRGBA；没有 alpha 的像素视为完全不透明
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return nrgba
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

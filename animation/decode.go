package animation

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"

	"golang.org/x/image/draw"
)

const (
	// MaxCanvasPixels 逻辑屏幕的像素上限
	MaxCanvasPixels = 1 << 26
	// MaxTotalPixels 所有帧合成后的像素总量上限
	MaxTotalPixels = 1 << 28
)

// ErrTooLarge 解码后的像素量超出上限
var ErrTooLarge = errors.New("animation too large")

// Decode 解码动画 GIF
//
//	每一帧都按源文件的 disposal 方式合成到完整的逻辑屏幕画布上，
//	得到的帧就是播放器在该时刻显示的画面
//	没有图形控制扩展的帧使用 DefaultDelay
func Decode(r io.Reader) (a *Animation, err error) {
	// gif.DecodeAll 遇到损坏文件时可能 panic
	defer func() {
		if rec := recover(); rec != nil {
			a, err = nil, fmt.Errorf("gif: decode panic: %v", rec)
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gif: %w", err)
	}

	l := scanLayout(data)
	if l.Complete && len(l.Frames) == 0 {
		return nil, ErrNoFrames
	}
	if err := checkPixels(l.Width, l.Height, l.Frames); err != nil {
		return nil, err
	}

	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}

	width, height := canvasSize(g)
	if width*height*len(g.Image) > MaxTotalPixels {
		return nil, fmt.Errorf("%dx%d canvas with %d frames: %w", width, height, len(g.Image), ErrTooLarge)
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))

	a = &Animation{
		Width:     width,
		Height:    height,
		Frames:    make([]Frame, 0, len(g.Image)),
		LoopCount: g.LoopCount,
	}
	// 没有 NETSCAPE 扩展时按无限循环处理
	if a.LoopCount < 0 {
		a.LoopCount = 0
	}

	for i, pm := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		delay := DefaultDelay
		if i < len(g.Delay) && (i >= len(l.Frames) || l.Frames[i].HasControl) {
			delay = g.Delay[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = cloneNRGBA(canvas)
		}

		draw.Draw(canvas, pm.Bounds(), pm, pm.Bounds().Min, draw.Over)
		a.Frames = append(a.Frames, Frame{Image: cloneNRGBA(canvas), Delay: delay})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, pm.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}

	return a, nil
}

// canvasSize 逻辑屏幕尺寸，头部缺失时取所有帧的外接矩形
func canvasSize(g *gif.GIF) (int, int) {
	w, h := g.Config.Width, g.Config.Height
	if w > 0 && h > 0 {
		return w, h
	}
	for _, pm := range g.Image {
		w = max(w, pm.Bounds().Max.X)
		h = max(h, pm.Bounds().Max.Y)
	}
	return w, h
}

// checkPixels 在分配任何像素之前按块结构估算内存占用
func checkPixels(width, height int, frames []frameBlock) error {
	if width == 0 || height == 0 {
		for _, f := range frames {
			width = max(width, f.Rect.Max.X)
			height = max(height, f.Rect.Max.Y)
		}
	}
	canvas := width * height
	if canvas > MaxCanvasPixels {
		return fmt.Errorf("%dx%d canvas: %w", width, height, ErrTooLarge)
	}
	if canvas*max(1, len(frames)) > MaxTotalPixels {
		return fmt.Errorf("%dx%d canvas with %d frames: %w", width, height, len(frames), ErrTooLarge)
	}
	return nil
}

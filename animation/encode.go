package animation

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"io"
)

// Encode 把帧序列编码为动画 GIF
//
//	每帧使用本地调色板，索引 0 为透明色
//	每帧 disposal 为“恢复为背景”，透明区域不会残留上一帧的像素
//	帧延时、循环次数原样写出（单帧时也写出循环扩展）
func Encode(w io.Writer, a *Animation) error {
	if a == nil || len(a.Frames) == 0 {
		return ErrNoFrames
	}

	out := &gif.GIF{
		Image:           make([]*image.Paletted, 0, len(a.Frames)),
		Delay:           make([]int, 0, len(a.Frames)),
		Disposal:        make([]byte, 0, len(a.Frames)),
		LoopCount:       a.LoopCount,
		BackgroundIndex: TransparentIndex,
		Config:          image.Config{Width: a.Width, Height: a.Height},
	}
	for _, f := range a.Frames {
		out.Image = append(out.Image, Quantize(f.Image))
		out.Delay = append(out.Delay, f.Delay)
		out.Disposal = append(out.Disposal, gif.DisposalBackground)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	data := buf.Bytes()

	// image/gif 只在多帧时写 NETSCAPE2.0 扩展
	if len(out.Image) == 1 && a.LoopCount >= 0 {
		data = withLoopBlock(data, a.LoopCount)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write gif: %w", err)
	}
	return nil
}

// withLoopBlock 在全局颜色表之后插入循环扩展
func withLoopBlock(data []byte, loopCount int) []byte {
	pos := scanLayout(data).LoopOffset
	if pos == 0 {
		return data
	}
	block := loopBlock(loopCount)
	out := make([]byte, 0, len(data)+len(block))
	out = append(out, data[:pos]...)
	out = append(out, block...)
	return append(out, data[pos:]...)
}

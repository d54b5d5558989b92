package bgremove

import (
	"context"
	"image"
)

type Remover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// CornerKeyRemover 以每帧左上角像素为背景色的抠图实现
type CornerKeyRemover struct {
	Tolerance int
}

func NewCornerKeyRemover(tolerance int) *CornerKeyRemover {
	return &CornerKeyRemover{Tolerance: tolerance}
}

func (c *CornerKeyRemover) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ClassifyAndStrip(img, c.Tolerance), nil
}

package bgremove

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/chaos-io/gifbg/animation"
)

// StripAnimation 对每一帧执行背景移除
//
//	workers > 1 时多帧并行处理；输出帧的顺序、延时以及循环次数与输入一致
//	每帧独立取参考色，不在帧之间共享
func StripAnimation(ctx context.Context, a *animation.Animation, r Remover, workers int) (*animation.Animation, error) {
	if a == nil || len(a.Frames) == 0 {
		return nil, animation.ErrNoFrames
	}

	frames := make([]animation.Frame, len(a.Frames))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))

	for i, f := range a.Frames {
		g.Go(func() error {
			out, err := r.Remove(ctx, f.Image)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			frames[i] = animation.Frame{Image: animation.ToNRGBA(out), Delay: f.Delay}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &animation.Animation{
		Width:     a.Width,
		Height:    a.Height,
		Frames:    frames,
		LoopCount: a.LoopCount,
	}, nil
}

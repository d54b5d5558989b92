package bgremove

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/chaos-io/gifbg/animation"
	"github.com/chaos-io/gifbg/util"
	nhttp "github.com/chaos-io/gifbg/util/http"
)

const (
	gifSuffix    = ".gif"
	outputSuffix = "_sin_fondo.gif"
)

var (
	ErrInputNotFound    = errors.New("input file does not exist")
	ErrInvalidTolerance = errors.New("tolerance must be a non-negative integer")
	ErrNoFrames         = animation.ErrNoFrames
)

// Report 一次成功处理的结果
type Report struct {
	Input     string
	Output    string
	Frames    int
	Width     int
	Height    int
	LoopCount int
	Elapsed   time.Duration
}

type Processor struct {
	Tolerance int
	// Workers 并行处理的帧数，<= 1 时按顺序处理
	Workers int
	// MaxSize 最长边上限，0 表示不缩放
	MaxSize int

	// Remover 为空时使用 CornerKeyRemover{Tolerance}
	Remover Remover
	Client  nhttp.IClient
}

func NewProcessor(tolerance int) *Processor {
	return &Processor{
		Tolerance: tolerance,
		Workers:   1,
		Client:    nhttp.NewHTTPClient(),
	}
}

func (p *Processor) remover() Remover {
	if p.Remover != nil {
		return p.Remover
	}
	return NewCornerKeyRemover(p.Tolerance)
}

// ProcessStream 解码 r 中的动画 GIF，逐帧去背景后编码写入 w
func (p *Processor) ProcessStream(ctx context.Context, r io.Reader, w io.Writer) (*Report, error) {
	if p.Tolerance < 0 {
		return nil, ErrInvalidTolerance
	}
	start := time.Now()

	src, err := animation.Decode(r)
	if err != nil {
		return nil, err
	}
	animation.Resize(src, p.MaxSize)

	out, err := StripAnimation(ctx, src, p.remover(), p.Workers)
	if err != nil {
		return nil, err
	}

	if err := animation.Encode(w, out); err != nil {
		return nil, err
	}

	report := &Report{
		Frames:    len(out.Frames),
		Width:     out.Width,
		Height:    out.Height,
		LoopCount: out.LoopCount,
		Elapsed:   time.Since(start),
	}
	slog.Debug("animation processed", "frames", report.Frames, "width", report.Width,
		"height", report.Height, "loop", report.LoopCount, "elapsed", report.Elapsed)
	return report, nil
}

// Process 处理 inputPath（本地文件或 http(s) 地址），结果写入 outputPath
//
//	结果先写入同目录下的临时文件，成功后再重命名，失败时不会留下输出文件
func (p *Processor) Process(ctx context.Context, inputPath, outputPath string) (*Report, error) {
	defer util.Trace("process " + inputPath)()

	if p.Tolerance < 0 {
		return nil, ErrInvalidTolerance
	}
	if !util.Exists(inputPath) {
		return nil, fmt.Errorf("%s: %w", inputPath, ErrInputNotFound)
	}

	data, err := util.ReadSource(ctx, p.Client, inputPath)
	if err != nil {
		if errors.Is(err, util.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", inputPath, ErrInputNotFound)
		}
		return nil, fmt.Errorf("read input: %w", err)
	}

	var buf bytes.Buffer
	report, err := p.ProcessStream(ctx, bytes.NewReader(data), &buf)
	if err != nil {
		return nil, err
	}

	if err := writeFileAtomic(outputPath, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	report.Input = inputPath
	report.Output = outputPath
	return report, nil
}

// DefaultOutputPath 把输入路径的 .gif 后缀替换为 _sin_fondo.gif；没有该后缀时原样返回
// 远程地址取 URL 路径的文件名
func DefaultOutputPath(input string) string {
	if util.IsURL(input) {
		if u, err := url.Parse(input); err == nil {
			input = path.Base(u.Path)
		}
	}
	if !strings.HasSuffix(input, gifSuffix) {
		return input
	}
	return strings.TrimSuffix(input, gifSuffix) + outputSuffix
}

func writeFileAtomic(name string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(name), "."+filepath.Base(name)+"."+ksuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, name); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chaos-io/gifbg/bgremove"
	"github.com/chaos-io/gifbg/util"
)

const (
	cliParamWorkers  = "workers"
	cliParamMaxSize  = "max-size"
	cliParamLogLevel = "log-level"
)

// errReported 错误信息已经输出给用户
var errReported = errors.New("reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute 运行命令行并返回进程退出码
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := getRootCmd()
	// nil 会让 cobra 回退到 os.Args
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		_, _ = fmt.Fprintf(stdout, "❌ %v\n", err)
	}
	return 1
}

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gifbg <input_path> [tolerance] [output_path]",
		Short: "Remove the background colour from every frame of an animated GIF",
		Example: "  gifbg snoopy.gif\n" +
			"  gifbg snoopy.gif 30 snoopy_sin_fondo.gif",
		Args:          cobra.MaximumNArgs(3),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          cliRun,
	}
	// 负数容差按位置参数处理，flag 必须写在位置参数之前
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.Flags().Int(cliParamWorkers, 1,
		"Number of frames processed concurrently")
	rootCmd.Flags().Int(cliParamMaxSize, 0,
		"Downscale frames so the longest side is at most this many pixels, 0 keeps the original size")
	rootCmd.Flags().String(cliParamLogLevel, "info",
		"Log level: debug, info, warn or error")
	return rootCmd
}

func cliRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		_ = cmd.Usage()
		return errReported
	}

	// params
	workers, err := cmd.Flags().GetInt(cliParamWorkers)
	if err != nil {
		return err
	}
	maxSize, err := cmd.Flags().GetInt(cliParamMaxSize)
	if err != nil {
		return err
	}
	logLevel, err := cmd.Flags().GetString(cliParamLogLevel)
	if err != nil {
		return err
	}
	if err := util.SetupLogger(cmd.ErrOrStderr(), logLevel); err != nil {
		return err
	}

	input := args[0]
	tolerance := bgremove.DefaultTolerance
	if len(args) > 1 {
		tolerance, err = strconv.Atoi(args[1])
		if err != nil || tolerance < 0 {
			return fmt.Errorf("tolerance must be a non-negative integer, got %q", args[1])
		}
	}
	output := bgremove.DefaultOutputPath(input)
	if len(args) > 2 {
		output = args[2]
	}

	if !util.Exists(input) {
		_, _ = fmt.Fprintf(out, "❌ input file %s does not exist\n", input)
		return errReported
	}
	if output == input {
		slog.Warn("output path equals input path, the input will be replaced", "path", input)
	}

	_, _ = fmt.Fprintf(out, "🔄 processing %s...\n", input)
	_, _ = fmt.Fprintf(out, "   tolerance: %d\n", tolerance)
	_, _ = fmt.Fprintf(out, "   output: %s\n", output)

	p := bgremove.NewProcessor(tolerance)
	p.Workers = workers
	p.MaxSize = maxSize

	report, err := p.Process(cmd.Context(), input, output)
	if err != nil {
		if errors.Is(err, bgremove.ErrNoFrames) {
			_, _ = fmt.Fprintln(out, "❌ no frames found in the GIF")
		} else {
			_, _ = fmt.Fprintf(out, "❌ failed to process the GIF: %v\n", err)
		}
		return errReported
	}

	_, _ = fmt.Fprintf(out, "✅ GIF processed successfully: %s\n", report.Output)
	slog.Info("done", "frames", report.Frames, "elapsed", report.Elapsed)
	return nil
}

// Package config 从环境变量加载 HTTP 服务配置
package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Server struct {
	Addr    string `env:"GIFBG_ADDR, default=:8080"`
	WorkDir string `env:"GIFBG_WORK_DIR, default=./output"`

	Tolerance int `env:"GIFBG_TOLERANCE, default=30"`
	Workers   int `env:"GIFBG_WORKERS, default=4"`
	MaxSize   int `env:"GIFBG_MAX_SIZE, default=0"`
	// MaxUpload 上传文件大小上限（字节）
	MaxUpload int64 `env:"GIFBG_MAX_UPLOAD, default=33554432"`

	ResultTTL   time.Duration `env:"GIFBG_RESULT_TTL, default=1h"`
	CleanupSpec string        `env:"GIFBG_CLEANUP_SPEC, default=@every 10m"`

	LogLevel string `env:"GIFBG_LOG_LEVEL, default=info"`
}

// LoadServer 从进程环境变量加载
func LoadServer(ctx context.Context) (*Server, error) {
	return LoadServerWith(ctx, envconfig.OsLookuper())
}

// LoadServerWith 从指定的 Lookuper 加载，便于测试
func LoadServerWith(ctx context.Context, l envconfig.Lookuper) (*Server, error) {
	cfg := &Server{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Server) Validate() error {
	var errs []error
	if s.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("GIFBG_TOLERANCE must be >= 0, got %d", s.Tolerance))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("GIFBG_WORKERS must be >= 1, got %d", s.Workers))
	}
	if s.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("GIFBG_MAX_SIZE must be >= 0, got %d", s.MaxSize))
	}
	if s.MaxUpload <= 0 {
		errs = append(errs, fmt.Errorf("GIFBG_MAX_UPLOAD must be > 0, got %d", s.MaxUpload))
	}
	if s.ResultTTL <= 0 {
		errs = append(errs, fmt.Errorf("GIFBG_RESULT_TTL must be > 0, got %s", s.ResultTTL))
	}
	if s.WorkDir == "" {
		errs = append(errs, errors.New("GIFBG_WORK_DIR must not be empty"))
	}
	return errors.Join(errs...)
}

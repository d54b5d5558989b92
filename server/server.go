// Package server 通过 HTTP 提供 GIF 去背景服务，处理结果保存在工作目录中并由定时任务清理
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/chaos-io/gifbg/config"
)

const resultExt = ".gif"

type Server struct {
	cfg    *config.Server
	engine *gin.Engine
	cron   *cron.Cron
	now    func() time.Time
}

func New(cfg *config.Server) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.WorkDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	s := &Server{
		cfg:  cfg,
		cron: cron.New(),
		now:  time.Now,
	}

	if _, err := s.cron.AddFunc(cfg.CleanupSpec, func() {
		if _, err := s.Sweep(); err != nil {
			slog.Error("sweep results", "err", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid cleanup spec %q: %w", cfg.CleanupSpec, err)
	}

	s.engine = gin.New()
	s.engine.MaxMultipartMemory = cfg.MaxUpload
	s.engine.Use(gin.Recovery(), requestLogger())
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	v1 := s.engine.Group("/v1")
	v1.POST("/remove", s.remove)
	v1.GET("/results/:id", s.result)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 启动 HTTP 服务与清理任务，ctx 结束后优雅退出
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.cron.Start()
	defer func() {
		<-s.cron.Stop().Done()
	}()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", s.cfg.Addr, "workDir", s.cfg.WorkDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Sweep 删除超过 ResultTTL 的处理结果，返回删除的文件数
func (s *Server) Sweep() (int, error) {
	entries, err := os.ReadDir(s.cfg.WorkDir)
	if err != nil {
		return 0, err
	}

	deadline := s.now().Add(-s.cfg.ResultTTL)
	removed := 0
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), resultExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(deadline) {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.WorkDir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	slog.Debug("swept results", "removed", removed)
	return removed, errors.Join(errs...)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

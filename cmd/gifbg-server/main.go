package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/chaos-io/gifbg/config"
	"github.com/chaos-io/gifbg/server"
	"github.com/chaos-io/gifbg/util"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadServer(ctx)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if err := util.SetupLogger(os.Stderr, cfg.LogLevel); err != nil {
		log.Fatal(err)
	}
	gin.SetMode(gin.ReleaseMode)

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal("Failed to create server: ", err)
	}
	if err := srv.Run(ctx); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("bye")
}

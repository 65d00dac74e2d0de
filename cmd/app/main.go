package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gowvp/wink/internal/app"
	"github.com/gowvp/wink/internal/conf"
	"github.com/ixugo/goddd/pkg/system"
)

// buildVersion 由编译脚本 -ldflags 注入
var buildVersion = "dev"

func main() {
	confPath := flag.String("conf", filepath.Join(system.Getwd(), "configs", "config.toml"), "配置文件路径")
	flag.Parse()

	bc, err := conf.SetupConfig(*confPath)
	if err != nil {
		slog.Error("setup config", "err", err)
		os.Exit(1)
	}
	bc.BuildVersion = buildVersion

	level := slog.LevelInfo
	if bc.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	slog.Info("starting", "version", buildVersion, "conf", *confPath)

	cleanup, err := app.Run(bc, log)
	if err != nil {
		slog.Error("run app", "err", err)
		os.Exit(1)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	slog.Info("shutting down", "signal", sig.String())
	cleanup()
}

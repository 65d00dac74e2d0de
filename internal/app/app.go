package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gowvp/wink/internal/adapter/gstadapter"
	"github.com/gowvp/wink/internal/adapter/landmark"
	"github.com/gowvp/wink/internal/conf"
	"github.com/gowvp/wink/internal/core/game"
	"github.com/gowvp/wink/internal/core/vision"
)

// App 组装完成的应用
type App struct {
	Conf    *conf.Bootstrap
	Log     *slog.Logger
	Handler http.Handler
	Game    *game.Core
}

// Run 启动应用，返回用于优雅退出的清理函数
//
// 采集源/检测器属于启动期资源：初始化失败仅通过错误提示上报一次，
// HTTP 服务照常运行（webhook 推送路径仍然可用）
func Run(bc *conf.Bootstrap, log *slog.Logger) (func(), error) {
	app, cleanup, err := wireApp(bc, log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go app.Game.Run(ctx)

	pipeline := setupCapture(ctx, app)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", bc.Server.HTTP.Port),
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "err", err)
		}
	}()
	log.Info("http server started", "port", bc.Server.HTTP.Port)

	return func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		_ = srv.Shutdown(sctx)
		if pipeline != nil {
			pipeline.Stop()
		}
		app.Game.Close()
		cancel()
		cleanup()
	}, nil
}

// setupCapture 组装进程内采集管线，失败不致命
func setupCapture(ctx context.Context, app *App) *vision.Pipeline {
	bc := app.Conf
	if !bc.Capture.Enabled {
		return nil
	}
	if bc.Detector.URL == "" {
		app.Game.Alert("采集未启动", "capture.enabled 开启但未配置 detector.url")
		return nil
	}

	viewport := vision.Viewport{
		Width:  bc.Game.ViewportWidth,
		Height: bc.Game.ViewportHeight,
	}
	pipeline := vision.NewPipeline(
		gstadapter.New(bc.Capture),
		landmark.NewClient(bc.Detector),
		viewport,
		app.Game,
	)
	if err := pipeline.Start(ctx); err != nil {
		// 摄像头缺失/打开失败：上报一次，应用继续提供其他功能
		app.Game.Alert("摄像头不可用", err.Error())
		return nil
	}
	app.Log.Info("capture pipeline started")
	return pipeline
}

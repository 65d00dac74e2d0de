package api

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/wink/internal/conf"
	"github.com/gowvp/wink/internal/core/game"
	"github.com/gowvp/wink/internal/core/vision"
	"github.com/ixugo/goddd/pkg/web"
)

// AIWebhookAPI 处理人脸关键点检测服务的回调请求
// 进程外检测器按帧推送观察结果，与进程内管线共用同一个控制器收件箱
type AIWebhookAPI struct {
	log      *slog.Logger
	conf     *conf.Bootstrap
	game     *game.Core
	viewport vision.Viewport
	seq      *atomic.Uint64
	limiter  func(identifier string) bool
}

// NewAIWebhookAPI 创建 AI Webhook API 实例
func NewAIWebhookAPI(bc *conf.Bootstrap, core *game.Core) AIWebhookAPI {
	return AIWebhookAPI{
		log:  slog.With("hook", "ai"),
		conf: bc,
		game: core,
		viewport: vision.Viewport{
			Width:  bc.Game.ViewportWidth,
			Height: bc.Game.ViewportHeight,
		},
		seq:     &atomic.Uint64{},
		limiter: web.IDRateLimiter(0.2, 1, 3*time.Minute),
	}
}

// registerAIWebhookAPI 注册 AI 回调路由，接收外部检测服务的各类事件通知
func registerAIWebhookAPI(r gin.IRouter, api AIWebhookAPI, handler ...gin.HandlerFunc) {
	group := r.Group("/ai", handler...)
	group.POST("/keepalive", web.WrapH(api.onKeepalive))
	group.POST("/started", web.WrapH(api.onStarted))
	group.POST("/frames", web.WrapH(api.onFrames))
	group.POST("/stopped", web.WrapH(api.onStopped))
}

// onKeepalive 接收检测服务心跳，用于监控检测服务存活状态
func (a AIWebhookAPI) onKeepalive(c *gin.Context, in *AIKeepaliveInput) (AIWebhookOutput, error) {
	if !a.limiter(in.DetectorID) {
		return newAIWebhookOutputOK(), nil
	}
	a.log.InfoContext(c.Request.Context(), "ai keepalive",
		"detector_id", in.DetectorID,
		"timestamp", in.Timestamp,
		"message", in.Message,
	)
	return newAIWebhookOutputOK(), nil
}

// onStarted 接收检测服务启动通知，确认检测服务已就绪
func (a AIWebhookAPI) onStarted(c *gin.Context, in *AIStartedInput) (AIWebhookOutput, error) {
	a.log.InfoContext(c.Request.Context(), "ai started",
		"detector_id", in.DetectorID,
		"timestamp", in.Timestamp,
	)
	return newAIWebhookOutputOK(), nil
}

// onFrames 接收一帧检测结果，映射到展示坐标后投递给控制器
// 多脸只取第一个；没有人脸按 NoFace 投递
func (a AIWebhookAPI) onFrames(_ *gin.Context, in *AIFrameInput) (AIWebhookOutput, error) {
	r := vision.Result{
		Seq:        a.seq.Add(1),
		CapturedAt: time.UnixMilli(in.Timestamp),
	}
	if len(in.Faces) > 0 {
		face := in.Faces[0]
		r.Face = true
		r.Box = face.BoundingBox
		r.LeftEye = vision.MapContour(face.LeftEye, face.BoundingBox, a.viewport)
		r.RightEye = vision.MapContour(face.RightEye, face.BoundingBox, a.viewport)
	}
	a.game.Submit(&r)
	return newAIWebhookOutputOK(), nil
}

// onStopped 接收检测任务停止通知，记录停止原因
func (a AIWebhookAPI) onStopped(c *gin.Context, in *AIStoppedInput) (AIWebhookOutput, error) {
	a.log.InfoContext(c.Request.Context(), "ai stopped",
		"detector_id", in.DetectorID,
		"reason", in.Reason,
		"message", in.Message,
	)
	return newAIWebhookOutputOK(), nil
}

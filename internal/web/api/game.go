package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gowvp/wink/internal/conf"
	"github.com/gowvp/wink/internal/core/game"
	"github.com/ixugo/goddd/pkg/web"
)

// GameAPI 计时游戏控制与状态查询
type GameAPI struct {
	conf *conf.Bootstrap
	game *game.Core
}

func registerGame(r gin.IRouter, api GameAPI, handler ...gin.HandlerFunc) {
	group := r.Group("/game")
	group.POST("/start", append(handler, web.WrapH(api.startRound))...)
	group.GET("/state", web.WrapH(api.getState))
	group.GET("/live", api.live)
}

// startRound 外部 start 触发：Idle/Stopped 进入 Running，运行中为 no-op
func (api GameAPI) startRound(_ *gin.Context, _ *struct{}) (game.Snapshot, error) {
	api.game.StartRound()
	return api.game.Snapshot(), nil
}

func (api GameAPI) getState(_ *gin.Context, _ *struct{}) (game.Snapshot, error) {
	return api.game.Snapshot(), nil
}

// live SSE 渲染流：每次应用检测结果后推送眼睛轮廓与计时状态，
// 浏览器叠加层据此绘制
func (api GameAPI) live(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "不支持 SSE"})
		return
	}

	frames := make(chan game.RenderFrame, 16)
	id := uuid.NewString()
	api.game.SubscribeRender(id, chanRenderSink(frames))
	defer api.game.UnsubscribeRender(id)

	// 先推一帧当前状态，连接即有内容
	snapshot := api.game.Snapshot()
	sendEvent(c, flusher, "state", snapshot)

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-frames:
			sendEvent(c, flusher, "frame", frame)
		}
	}
}

// chanRenderSink 基于通道的渲染接收方
// 控制器循环不等待慢客户端：通道满时丢帧
type chanRenderSink chan<- game.RenderFrame

func (s chanRenderSink) Render(frame game.RenderFrame) {
	select {
	case s <- frame:
	default:
	}
}

func sendEvent(c *gin.Context, flusher http.Flusher, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}

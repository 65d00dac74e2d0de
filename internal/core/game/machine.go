package game

import (
	"context"
	"time"

	"github.com/gowvp/wink/internal/core/vision"
)

// Run 启动控制器循环，阻塞直到 ctx 取消或 Close
// tick、检测结果、start 触发在同一协程上串行应用，先到先处理
func (c *Core) Run(ctx context.Context) {
	var ticker *time.Ticker
	var tickC <-chan time.Time

	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tickC = nil
		}
	}
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-c.cmds:
			if c.applyStart() {
				// 仅在真正进入 Running 时注册周期步进，
				// 重复 start 不会产生第二个 ticker
				stopTicker()
				ticker = time.NewTicker(c.tick)
				tickC = ticker.C
			}
		case <-tickC:
			c.applyTick()
		case <-c.wake:
			if r := c.takeInbox(); r != nil {
				if c.applyResult(r) {
					stopTicker()
				}
			}
		}
	}
}

// takeInbox 取走收件箱中最近的结果，空则返回 nil
func (c *Core) takeInbox() *vision.Result {
	c.inboxMu.Lock()
	r := c.inboxSlot
	c.inboxSlot = nil
	c.inboxMu.Unlock()
	return r
}

// applyStart 处理 start 触发，返回是否发生了进入 Running 的迁移
// Running 状态下重复触发无任何效果（不清零、不重置计时）
func (c *Core) applyStart() bool {
	c.mu.Lock()
	if c.state == StateRunning {
		c.mu.Unlock()
		return false
	}
	c.state = StateRunning
	c.elapsed = 0
	c.resets = 0
	c.startedAt = time.Now()
	c.mu.Unlock()

	c.log.Info("round started")
	c.broadcast(RenderFrame{State: StateRunning})
	return true
}

// applyTick 每经过一秒墙钟时间步进一次，与帧率无关
func (c *Core) applyTick() {
	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return
	}
	c.elapsed++
	elapsed := c.elapsed
	c.mu.Unlock()

	c.broadcast(RenderFrame{State: StateRunning, ElapsedSeconds: elapsed})
}

// applyResult 应用一帧检测结果，返回是否发生 Running -> Stopped 迁移
//
// 判定规则：
//   - 任一可判定的眼睛 openness <= 阈值即停止（跨眼 OR 语义）
//   - 双眼均不可判定（丢脸/双轮廓缺失）时清零但保持 Running
//   - 单眼缺失不提供信号，缺失不等于闭眼
func (c *Core) applyResult(r *vision.Result) bool {
	leftOpen, leftOK := vision.Openness(r.LeftEye)
	rightOpen, rightOK := vision.Openness(r.RightEye)

	var stopped, faceLost bool
	var record RoundRecord

	c.mu.Lock()
	if c.state == StateRunning {
		switch {
		case (leftOK && leftOpen <= c.threshold) || (rightOK && rightOpen <= c.threshold):
			c.state = StateStopped
			c.lastScore = c.elapsed
			record = RoundRecord{
				StartedAt: c.startedAt,
				StoppedAt: time.Now(),
				Score:     c.lastScore,
				Resets:    c.resets,
			}
			stopped = true
		case !leftOK && !rightOK:
			c.elapsed = 0
			c.resets++
			faceLost = true
		}
	}
	frame := RenderFrame{
		State:          c.state,
		ElapsedSeconds: c.elapsed,
		LeftEye:        r.LeftEye,
		RightEye:       r.RightEye,
	}
	if c.state == StateStopped {
		frame.ScoreText = ScoreText(c.lastScore)
	}
	c.mu.Unlock()

	if stopped {
		c.log.Info("round stopped",
			"score", record.Score,
			"resets", record.Resets,
			"left_ok", leftOK, "left_openness", leftOpen,
			"right_ok", rightOK, "right_openness", rightOpen,
		)
		if c.recorder != nil {
			c.recorder.SaveRound(record)
		}
	}
	if faceLost {
		c.notifyFaceLost()
	}

	c.broadcast(frame)
	return stopped
}

func (c *Core) notifyFaceLost() {
	c.observerMu.Lock()
	observers := c.faceLost
	c.observerMu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

func (c *Core) broadcast(frame RenderFrame) {
	c.renderSinks.Range(func(_ string, sink RenderSink) bool {
		sink.Render(frame)
		return true
	})
}

package api

import (
	"context"
	"testing"
	"time"

	"github.com/gowvp/wink/internal/conf"
	"github.com/gowvp/wink/internal/core/game"
	"github.com/gowvp/wink/internal/core/vision"
)

// webhookEye 人脸框内归一化轮廓，映射到 100x100 视口后 openness 为 open
func webhookEye(open float64) vision.Contour {
	c := make(vision.Contour, 6)
	c[vision.UpperLidIndex] = vision.Point{X: 0.5, Y: 0.3}
	c[vision.LowerLidIndex] = vision.Point{X: 0.5, Y: 0.3 + open/100}
	return c
}

func TestWebhookFramesDriveController(t *testing.T) {
	bc := &conf.Bootstrap{}
	bc.Game.ClosedThreshold = 5
	bc.Game.ViewportWidth = 100
	bc.Game.ViewportHeight = 100

	core := game.NewCore(
		game.WithClosedThreshold(bc.Game.ClosedThreshold),
		game.WithTickInterval(10*time.Millisecond),
	)
	defer core.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go core.Run(ctx)

	api := NewAIWebhookAPI(bc, core)

	core.StartRound()
	deadline := time.After(2 * time.Second)
	for core.Snapshot().State != game.StateRunning {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for running")
		case <-time.After(time.Millisecond):
		}
	}

	// 睁眼帧不影响状态
	box := vision.Rect{Width: 1, Height: 1}
	if _, err := api.onFrames(nil, &AIFrameInput{
		Timestamp: time.Now().UnixMilli(),
		Faces: []vision.Observation{{
			BoundingBox: box,
			LeftEye:     webhookEye(30),
			RightEye:    webhookEye(30),
		}},
	}); err != nil {
		t.Fatal(err)
	}

	// 闭眼帧停止计时
	if _, err := api.onFrames(nil, &AIFrameInput{
		Timestamp: time.Now().UnixMilli(),
		Faces: []vision.Observation{{
			BoundingBox: box,
			LeftEye:     webhookEye(2),
			RightEye:    webhookEye(30),
		}},
	}); err != nil {
		t.Fatal(err)
	}

	for core.Snapshot().State != game.StateStopped {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for stop")
		case <-time.After(time.Millisecond):
		}
	}
}

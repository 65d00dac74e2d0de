package gstadapter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gowvp/wink/internal/conf"
	"github.com/gowvp/wink/internal/core/vision"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

var gstInitOnce sync.Once

// Adapter GStreamer 采集源，实现 vision.Source
// launch 描述由配置给出，末端须有名为 sink 的 appsink
type Adapter struct {
	cfg conf.Capture
	log *slog.Logger

	mu       sync.Mutex
	started  bool
	pipeline *gst.Pipeline
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

var _ vision.Source = (*Adapter)(nil)

func New(cfg conf.Capture) *Adapter {
	return &Adapter{
		cfg: cfg,
		log: slog.With("adapter", "gst"),
	}
}

// Start 启动采集并按原生帧率回调 h，幂等
func (a *Adapter) Start(ctx context.Context, h vision.FrameHandler) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return nil
	}
	if a.cfg.Pipeline == "" {
		return fmt.Errorf("gstadapter: capture pipeline is required")
	}

	gstInitOnce.Do(func() { gst.Init(nil) })

	pipeline, err := gst.NewPipelineFromString(a.cfg.Pipeline)
	if err != nil {
		return fmt.Errorf("gstadapter: build pipeline: %w", err)
	}
	elem, err := pipeline.GetElementByName("sink")
	if err != nil {
		return fmt.Errorf("gstadapter: appsink named \"sink\" not found: %w", err)
	}
	if err := tuneSinkLatestOnly(elem); err != nil {
		return fmt.Errorf("gstadapter: configure appsink: %w", err)
	}
	sink := app.SinkFromElement(elem)

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("gstadapter: set playing: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	a.pipeline = pipeline
	a.cancel = cancel
	a.started = true

	a.wg.Add(1)
	go a.pullLoop(ctx, sink, h)

	a.log.Info("capture started", "pipeline", a.cfg.Pipeline)
	return nil
}

// Stop 停止采集，幂等，返回后不再产生帧回调
func (a *Adapter) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return nil
	}
	a.cancel()
	if err := a.pipeline.SetState(gst.StateNull); err != nil {
		a.log.Error("set state null", "err", err)
	}
	a.wg.Wait()
	a.pipeline = nil
	a.started = false
	a.log.Info("capture stopped")
	return nil
}

// propertySetter go-gst 元素属性写入能力
type propertySetter interface {
	SetProperty(name string, value interface{}) error
}

// tuneSinkLatestOnly 将 appsink 调成只保留最新一帧
//
// 回调里的检测是同步的，检测在途时 PullSample 不会被调用，
// appsink 默认队列无上限（max-buffers=0），到达的帧会在 C 侧堆积。
// sync=false + max-buffers=1 + drop=true 让旧帧在源头被覆盖，
// 慢检测器下延迟和内存都有界
func tuneSinkLatestOnly(sink propertySetter) error {
	if err := sink.SetProperty("sync", false); err != nil {
		return err
	}
	if err := sink.SetProperty("max-buffers", 1); err != nil {
		return err
	}
	return sink.SetProperty("drop", true)
}

// pullLoop 逐帧拉取 appsink 样本
// 帧数据只在回调期间有效，回调返回即解除映射
func (a *Adapter) pullLoop(ctx context.Context, sink *app.Sink, h vision.FrameHandler) {
	defer a.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}
		sample := sink.PullSample()
		if sample == nil {
			if sink.IsEOS() || ctx.Err() != nil {
				return
			}
			continue
		}
		a.emit(sample, h)
	}
}

func (a *Adapter) emit(sample *gst.Sample, h vision.FrameHandler) {
	buffer := sample.GetBuffer()
	if buffer == nil {
		return
	}
	mapInfo := buffer.Map(gst.MapRead)
	if mapInfo == nil {
		return
	}
	defer buffer.Unmap()

	width, height := sampleSize(sample)
	h(&vision.Frame{
		Data:        mapInfo.Bytes(),
		Width:       width,
		Height:      height,
		Orientation: a.cfg.Orientation,
		CapturedAt:  time.Now(),
	})
}

func sampleSize(sample *gst.Sample) (int, int) {
	caps := sample.GetCaps()
	if caps == nil {
		return 0, 0
	}
	st := caps.GetStructureAt(0)
	if st == nil {
		return 0, 0
	}
	w, _ := st.GetValue("width")
	ht, _ := st.GetValue("height")
	width, _ := w.(int)
	height, _ := ht.(int)
	return width, height
}

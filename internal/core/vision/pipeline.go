package vision

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Pipeline 帧管线：每帧调用一次检测器，把结果归一化后交给消费方
//
// 丢帧策略：上一帧检测未完成时到达的新帧直接丢弃（不排队），
// 保证延迟有界，慢检测器下内存不增长
type Pipeline struct {
	source   Source
	detector Detector
	viewport Viewport
	sink     ResultSink
	log      *slog.Logger

	busy   atomic.Bool
	closed atomic.Bool

	seq      atomic.Uint64
	frames   atomic.Uint64
	dropped  atomic.Uint64
	failures atomic.Uint64
	noFace   atomic.Uint64

	startedMu sync.Mutex
	started   bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewPipeline 创建帧管线，source 为 nil 时仅支持 Feed 手动送帧（测试/webhook 场景）
func NewPipeline(source Source, detector Detector, viewport Viewport, sink ResultSink) *Pipeline {
	return &Pipeline{
		source:   source,
		detector: detector,
		viewport: viewport,
		sink:     sink,
		log:      slog.With("module", "vision"),
	}
}

// Start 启动采集，幂等，重复调用为 no-op
func (p *Pipeline) Start(ctx context.Context) error {
	p.startedMu.Lock()
	defer p.startedMu.Unlock()
	if p.started {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	if p.source != nil {
		if err := p.source.Start(ctx, p.Feed); err != nil {
			cancel()
			return err
		}
	}
	p.ctx = ctx
	p.cancel = cancel
	p.closed.Store(false)
	p.started = true
	return nil
}

// Stop 停止采集并丢弃在途检测结果，幂等
// 停止后完成的检测不再投递，避免写入已拆除的消费方
func (p *Pipeline) Stop() {
	p.startedMu.Lock()
	defer p.startedMu.Unlock()
	if !p.started {
		return
	}
	p.closed.Store(true)
	if p.source != nil {
		if err := p.source.Stop(); err != nil {
			p.log.Error("stop capture source", "err", err)
		}
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.started = false
}

// Feed 处理一帧，由采集源按原生帧率调用
// 检测在调用方协程上同步执行；检测在途时的新帧计入 dropped 后丢弃
func (p *Pipeline) Feed(frame *Frame) {
	if p.closed.Load() {
		return
	}
	if !p.busy.CompareAndSwap(false, true) {
		p.dropped.Add(1)
		return
	}
	defer p.busy.Store(false)

	p.frames.Add(1)
	seq := p.seq.Add(1)

	// Stop 取消该 ctx，在途的检测调用（如 HTTP 请求）随拆除一起中止
	obs, err := p.detector.Detect(p.detectCtx(), frame)
	if err != nil {
		// 单帧检测失败不致命：记日志，按未检出人脸降级，不中断采集
		p.failures.Add(1)
		p.log.Error("detect frame", "seq", seq, "err", err)
		obs = nil
	}

	if p.closed.Load() {
		return
	}
	p.sink.Submit(p.normalize(seq, frame, obs))
}

// detectCtx 返回 Start 建立的生命周期 ctx，未启动（仅 Feed）时退化为 Background
func (p *Pipeline) detectCtx() context.Context {
	p.startedMu.Lock()
	defer p.startedMu.Unlock()
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// normalize 把观察结果转换为展示坐标系下的稳定形态
func (p *Pipeline) normalize(seq uint64, frame *Frame, obs *Observation) *Result {
	r := Result{Seq: seq, CapturedAt: frame.CapturedAt}
	if obs == nil {
		p.noFace.Add(1)
		return &r
	}
	r.Face = true
	r.Box = obs.BoundingBox
	r.LeftEye = MapContour(obs.LeftEye, obs.BoundingBox, p.viewport)
	r.RightEye = MapContour(obs.RightEye, obs.BoundingBox, p.viewport)
	return &r
}

// Stats 返回运行统计快照
func (p *Pipeline) Stats() Stats {
	return Stats{
		Frames:   p.frames.Load(),
		Dropped:  p.dropped.Load(),
		Failures: p.failures.Load(),
		NoFace:   p.noFace.Load(),
	}
}

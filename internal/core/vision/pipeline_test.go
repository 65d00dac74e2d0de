package vision

import (
	"context"
	"errors"
	"testing"
	"time"
)

type blockingDetector struct {
	entered chan struct{}
	release chan struct{}
	obs     *Observation
	err     error
}

func (d *blockingDetector) Detect(_ context.Context, _ *Frame) (*Observation, error) {
	if d.entered != nil {
		d.entered <- struct{}{}
	}
	if d.release != nil {
		<-d.release
	}
	return d.obs, d.err
}

type recordSink struct {
	results chan *Result
}

func newRecordSink() *recordSink {
	return &recordSink{results: make(chan *Result, 8)}
}

func (s *recordSink) Submit(r *Result) { s.results <- r }

func testFrame() *Frame {
	return &Frame{Data: []byte{0}, Width: 4, Height: 4, CapturedAt: time.Now()}
}

func TestPipelineLateFrameDiscard(t *testing.T) {
	det := &blockingDetector{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	sink := newRecordSink()
	p := NewPipeline(nil, det, Viewport{Width: 1, Height: 1}, sink)

	go p.Feed(testFrame())
	<-det.entered

	// 检测在途，新帧直接丢弃而非排队
	p.Feed(testFrame())
	p.Feed(testFrame())

	close(det.release)

	select {
	case <-sink.results:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for result")
	}

	st := p.Stats()
	if st.Frames != 1 {
		t.Fatalf("frames = %d, want 1", st.Frames)
	}
	if st.Dropped != 2 {
		t.Fatalf("dropped = %d, want 2", st.Dropped)
	}
	select {
	case r := <-sink.results:
		t.Fatalf("unexpected extra result seq=%d", r.Seq)
	default:
	}
}

func TestPipelineDetectorErrorDegradesToNoFace(t *testing.T) {
	det := &blockingDetector{err: errors.New("boom")}
	sink := newRecordSink()
	p := NewPipeline(nil, det, Viewport{Width: 1, Height: 1}, sink)

	p.Feed(testFrame())

	var r *Result
	select {
	case r = <-sink.results:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for result")
	}
	if r.Face {
		t.Fatal("detector error must degrade to no-face")
	}
	if st := p.Stats(); st.Failures != 1 {
		t.Fatalf("failures = %d, want 1", st.Failures)
	}
}

func TestPipelineMapsContours(t *testing.T) {
	det := &blockingDetector{
		obs: &Observation{
			BoundingBox: Rect{X: 0, Y: 0, Width: 1, Height: 1},
			LeftEye:     contourWithLids(0.1, 0.2),
		},
	}
	sink := newRecordSink()
	p := NewPipeline(nil, det, Viewport{Width: 100, Height: 100}, sink)

	p.Feed(testFrame())
	r := <-sink.results
	if !r.Face {
		t.Fatal("expected face result")
	}
	open, ok := Openness(r.LeftEye)
	if !ok {
		t.Fatal("mapped contour should be evaluable")
	}
	if !almostEqual(open, 10) {
		t.Fatalf("openness = %v, want 10", open)
	}
	if r.RightEye != nil {
		t.Fatal("absent right eye must stay nil after mapping")
	}
}

func TestPipelineStopDiscardsInflight(t *testing.T) {
	det := &blockingDetector{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	sink := newRecordSink()
	p := NewPipeline(nil, det, Viewport{Width: 1, Height: 1}, sink)
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		p.Feed(testFrame())
		close(done)
	}()
	<-det.entered

	// 拆除后完成的在途检测结果必须被丢弃
	p.Stop()
	close(det.release)
	<-done

	select {
	case <-sink.results:
		t.Fatal("result delivered after teardown")
	default:
	}

	// Stop 幂等
	p.Stop()
}

type ctxWatchingDetector struct {
	entered  chan struct{}
	canceled chan struct{}
}

func (d *ctxWatchingDetector) Detect(ctx context.Context, _ *Frame) (*Observation, error) {
	d.entered <- struct{}{}
	select {
	case <-ctx.Done():
		close(d.canceled)
		return nil, ctx.Err()
	case <-time.After(time.Second):
		return nil, errors.New("detect context never canceled")
	}
}

func TestPipelineStopCancelsDetect(t *testing.T) {
	det := &ctxWatchingDetector{
		entered:  make(chan struct{}, 1),
		canceled: make(chan struct{}),
	}
	sink := newRecordSink()
	p := NewPipeline(nil, det, Viewport{Width: 1, Height: 1}, sink)
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		p.Feed(testFrame())
		close(done)
	}()
	<-det.entered

	// 拆除要能中止在途的检测调用，而不只是丢弃其结果
	p.Stop()

	select {
	case <-det.canceled:
	case <-time.After(time.Second):
		t.Fatal("stop did not cancel the in-flight detect call")
	}
	<-done

	select {
	case <-sink.results:
		t.Fatal("result delivered after teardown")
	default:
	}
}

type fakeSource struct {
	started int
	stopped int
}

func (s *fakeSource) Start(_ context.Context, _ FrameHandler) error {
	s.started++
	return nil
}

func (s *fakeSource) Stop() error {
	s.stopped++
	return nil
}

func TestPipelineStartIdempotent(t *testing.T) {
	src := &fakeSource{}
	p := NewPipeline(src, &blockingDetector{}, Viewport{}, newRecordSink())

	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if src.started != 1 {
		t.Fatalf("source started %d times, want 1", src.started)
	}

	p.Stop()
	p.Stop()
	if src.stopped != 1 {
		t.Fatalf("source stopped %d times, want 1", src.stopped)
	}
}

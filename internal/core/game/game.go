package game

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gowvp/wink/internal/core/vision"
	"github.com/ixugo/goddd/pkg/conc"
)

// State 计时器状态机的三个状态
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// DefaultClosedThreshold 闭眼阈值（展示坐标单位），
// 经验标定值，判定使用 <= 而非 <
const DefaultClosedThreshold = 5

// ScoreText 停止时的得分展示文本
func ScoreText(elapsedSeconds int) string {
	return fmt.Sprintf("Score: %d", elapsedSeconds)
}

// RenderFrame 发给渲染方的绘制指令：
// 两条（可能为空的）展示坐标系眼睛轮廓 + 当前计时状态
type RenderFrame struct {
	State          State          `json:"state"`
	ElapsedSeconds int            `json:"elapsed_seconds"`
	ScoreText      string         `json:"score_text,omitempty"`
	LeftEye        vision.Contour `json:"left_eye,omitempty"`
	RightEye       vision.Contour `json:"right_eye,omitempty"`
}

// RenderSink 渲染结果的接收方，纯消费者
type RenderSink interface {
	Render(RenderFrame)
}

// AlertSink 面向用户的错误提示，仅用于启动期失败
type AlertSink interface {
	Alert(title, message string)
}

// RoundRecord 一局结束后的记录
type RoundRecord struct {
	StartedAt time.Time
	StoppedAt time.Time
	Score     int
	Resets    int
}

// Recorder 对局落库接口，解耦 game 与 round 领域
type Recorder interface {
	SaveRound(RoundRecord)
}

// Snapshot 控制器状态快照，供查询接口使用
type Snapshot struct {
	State          State  `json:"state"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	LastScore      int    `json:"last_score"`
	ScoreText      string `json:"score_text"`
	Resets         int    `json:"resets"`
	InboxDrops     uint64 `json:"inbox_drops"`
	LastAlert      string `json:"last_alert,omitempty"`
}

// Core 眼态与计时控制器
//
// 所有状态变更只发生在 Run 循环协程上：每秒 tick、
// 每帧闭眼判定、外部 start 触发走同一个 select，天然无竞争
type Core struct {
	log       *slog.Logger
	threshold float64
	tick      time.Duration
	recorder  Recorder
	alerter   AlertSink

	// 单槽收件箱：只保留最近一次完成的检测结果，
	// 旧结果被覆盖计入 drops（最新结果优先语义）
	inboxMu    sync.Mutex
	inboxSlot  *vision.Result
	inboxDrops uint64
	wake       chan struct{}

	cmds      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	renderSinks *conc.Map[string, RenderSink]

	observerMu sync.Mutex
	faceLost   []func()

	mu        sync.RWMutex
	state     State
	elapsed   int
	lastScore int
	resets    int
	startedAt time.Time
	lastAlert string
}

type Option func(*Core)

// WithClosedThreshold 注入闭眼阈值
func WithClosedThreshold(v float64) Option {
	return func(c *Core) {
		if v > 0 {
			c.threshold = v
		}
	}
}

// WithTickInterval 注入计时步进间隔，仅测试使用
func WithTickInterval(d time.Duration) Option {
	return func(c *Core) {
		if d > 0 {
			c.tick = d
		}
	}
}

// WithRecorder 注入对局记录器
func WithRecorder(r Recorder) Option {
	return func(c *Core) { c.recorder = r }
}

// WithAlertSink 注入错误提示接收方
func WithAlertSink(a AlertSink) Option {
	return func(c *Core) { c.alerter = a }
}

// NewCore create business domain
func NewCore(opts ...Option) *Core {
	c := Core{
		log:         slog.With("module", "game"),
		threshold:   DefaultClosedThreshold,
		tick:        time.Second,
		wake:        make(chan struct{}, 1),
		cmds:        make(chan struct{}, 1),
		done:        make(chan struct{}),
		renderSinks: conc.NewMap[string, RenderSink](),
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Submit 投递一帧检测结果，非阻塞，可从任意协程调用
// 循环未及消费的旧结果被新结果覆盖
func (c *Core) Submit(r *vision.Result) {
	select {
	case <-c.done:
		return
	default:
	}

	c.inboxMu.Lock()
	if c.inboxSlot != nil {
		c.inboxDrops++
	}
	c.inboxSlot = r
	c.inboxMu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// StartRound 外部 start 触发（用户动作），Idle/Stopped 进入 Running
// 已在 Running 时为 no-op
func (c *Core) StartRound() {
	select {
	case c.cmds <- struct{}{}:
	case <-c.done:
	}
}

// SubscribeRender 注册渲染接收方
func (c *Core) SubscribeRender(id string, sink RenderSink) {
	c.renderSinks.Store(id, sink)
}

// UnsubscribeRender 注销渲染接收方
func (c *Core) UnsubscribeRender(id string) {
	c.renderSinks.Delete(id)
}

// OnFaceLost 注册“双眼均不可判定”事件观察者，
// 在运行中丢脸清零时回调（循环协程上执行，不要阻塞）
func (c *Core) OnFaceLost(fn func()) {
	c.observerMu.Lock()
	c.faceLost = append(c.faceLost, fn)
	c.observerMu.Unlock()
}

// Alert 上报启动期错误，单帧检测失败不经此路径
func (c *Core) Alert(title, message string) {
	c.log.Error("setup alert", "title", title, "message", message)
	c.mu.Lock()
	c.lastAlert = title + ": " + message
	c.mu.Unlock()
	if c.alerter != nil {
		c.alerter.Alert(title, message)
	}
}

// Snapshot 返回当前状态快照
func (c *Core) Snapshot() Snapshot {
	c.inboxMu.Lock()
	drops := c.inboxDrops
	c.inboxMu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Snapshot{
		State:          c.state,
		ElapsedSeconds: c.elapsed,
		LastScore:      c.lastScore,
		Resets:         c.resets,
		InboxDrops:     drops,
		LastAlert:      c.lastAlert,
	}
	if c.state == StateStopped {
		s.ScoreText = ScoreText(c.lastScore)
	}
	return s
}

// Close 停止循环，之后投递的结果全部丢弃，幂等
func (c *Core) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

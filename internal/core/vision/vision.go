package vision

import (
	"context"
	"time"
)

// Point 归一化或展示坐标系下的一个点
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect 归一化矩形，坐标与宽高均在 [0,1] 区间内
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contour 眼睛轮廓，点序固定由检测器约定
type Contour []Point

// Frame 一帧原始图像，由采集源持有，
// 仅在单次检测调用期间有效，核心不得跨调用保留
type Frame struct {
	Data        []byte
	Width       int
	Height      int
	Orientation string
	CapturedAt  time.Time
}

// Observation 一次检测的人脸观察结果，每帧至多一个，
// 左右眼轮廓在检测器无法定位时为 nil
type Observation struct {
	BoundingBox Rect    `json:"bounding_box"`
	LeftEye     Contour `json:"left_eye"`
	RightEye    Contour `json:"right_eye"`
}

// Result 一帧的归一化检测结果，轮廓已映射到展示坐标系
// Face 为 false 表示本帧未检出人脸（含检测调用失败的降级）
type Result struct {
	Seq        uint64
	CapturedAt time.Time
	Face       bool
	Box        Rect
	LeftEye    Contour
	RightEye   Contour
}

// Detector 人脸关键点检测器，黑盒
// 返回 (nil, nil) 表示本帧没有检出人脸
type Detector interface {
	Detect(ctx context.Context, frame *Frame) (*Observation, error)
}

// FrameHandler 采集源帧回调，在采集源自己的协程上被调用
type FrameHandler func(*Frame)

// Source 视频采集源
// Start/Stop 均要求幂等：重复启动、重复停止都是 no-op
type Source interface {
	Start(ctx context.Context, h FrameHandler) error
	Stop() error
}

// ResultSink 结果消费方，Submit 不得阻塞
type ResultSink interface {
	Submit(*Result)
}

// Stats 管线运行统计
type Stats struct {
	Frames   uint64 `json:"frames"`
	Dropped  uint64 `json:"dropped"`
	Failures uint64 `json:"failures"`
	NoFace   uint64 `json:"no_face"`
}

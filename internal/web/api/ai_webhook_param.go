package api

import "github.com/gowvp/wink/internal/core/vision"

// AIKeepaliveInput 心跳回调请求体
type AIKeepaliveInput struct {
	DetectorID string `json:"detector_id"` // 检测器标识
	Timestamp  int64  `json:"timestamp"`   // Unix 时间戳 (毫秒)
	Message    string `json:"message"`     // 附加消息
}

// AIStartedInput 服务启动回调请求体
type AIStartedInput struct {
	DetectorID string `json:"detector_id"` // 检测器标识
	Timestamp  int64  `json:"timestamp"`   // Unix 时间戳 (毫秒)
}

// AIFrameInput 单帧检测结果回调请求体
// 轮廓点为人脸框内归一化坐标，点序遵循检测器固定约定
type AIFrameInput struct {
	DetectorID string               `json:"detector_id"` // 检测器标识
	Timestamp  int64                `json:"timestamp"`   // 帧时间戳 (毫秒)
	Faces      []vision.Observation `json:"faces"`       // 人脸观察结果，可为空
}

// AIStoppedInput 任务停止回调请求体
type AIStoppedInput struct {
	DetectorID string `json:"detector_id"` // 检测器标识
	Timestamp  int64  `json:"timestamp"`   // Unix 时间戳 (毫秒)
	Reason     string `json:"reason"`      // 停止原因 (user_requested, error)
	Message    string `json:"message"`     // 详细信息
}

// AIWebhookOutput 通用响应体
type AIWebhookOutput struct {
	Code int    `json:"code"` // 错误代码，0 表示成功
	Msg  string `json:"msg"`  // 消息
}

func newAIWebhookOutputOK() AIWebhookOutput {
	return AIWebhookOutput{Code: 0, Msg: "success"}
}

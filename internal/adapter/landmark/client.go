package landmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gowvp/wink/internal/conf"
	"github.com/gowvp/wink/internal/core/vision"
)

// Client HTTP 人脸关键点检测客户端，实现 vision.Detector
// 检测服务对单帧图像返回零或多个人脸，核心只取第一个
type Client struct {
	url    string
	client *http.Client
}

var _ vision.Detector = (*Client)(nil)

func NewClient(cfg conf.Detector) *Client {
	timeout := cfg.Timeout.Duration()
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

// detectResponse 检测服务响应体
type detectResponse struct {
	Faces []vision.Observation `json:"faces"`
}

// Detect 提交一帧并解析首个观察结果，无人脸时返回 (nil, nil)
func (c *Client) Detect(ctx context.Context, frame *vision.Frame) (*vision.Observation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(frame.Data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Frame-Width", strconv.Itoa(frame.Width))
	req.Header.Set("X-Frame-Height", strconv.Itoa(frame.Height))
	req.Header.Set("X-Frame-Orientation", frame.Orientation)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("landmark: server returned %s", resp.Status)
	}

	var out detectResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("landmark: decode response: %w", err)
	}
	if len(out.Faces) == 0 {
		return nil, nil
	}
	// 只用第一个人脸，多脸不处理
	return &out.Faces[0], nil
}

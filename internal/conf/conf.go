package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Bootstrap 应用启动配置，从 TOML 文件加载
type Bootstrap struct {
	BuildVersion string `toml:"-"`
	Debug        bool   `toml:"debug"`

	Server   Server   `toml:"server"`
	Data     Data     `toml:"data"`
	Game     Game     `toml:"game"`
	Capture  Capture  `toml:"capture"`
	Detector Detector `toml:"detector"`
}

type Server struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	HTTP     HTTP   `toml:"http"`
}

type HTTP struct {
	Port      int    `toml:"port"`
	JwtSecret string `toml:"jwt_secret"`
	PProf     PProf  `toml:"pprof"`
}

type PProf struct {
	Enabled   bool     `toml:"enabled"`
	AccessIps []string `toml:"access_ips"`
}

type Data struct {
	Database Database `toml:"database"`
}

// Database 数据库配置
// dsn 留空时使用内存 sqlite，进程退出后数据即消失，
// 对局记录默认不跨会话保留
type Database struct {
	Dsn             string   `toml:"dsn"`
	MaxIdleConns    int32    `toml:"max_idle_conns"`
	MaxOpenConns    int32    `toml:"max_open_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
	SlowThreshold   Duration `toml:"slow_threshold"`
}

// Game 闭眼判定与计时器配置
type Game struct {
	// ClosedThreshold 闭眼阈值，展示坐标系下的上下眼睑垂直距离，
	// 经验值而非物理推导，判定使用 <=
	ClosedThreshold float64 `toml:"closed_threshold"`
	// ViewportWidth/ViewportHeight 展示坐标系尺寸，
	// 归一化轮廓点映射到该坐标系后再做闭眼判定
	ViewportWidth  float64 `toml:"viewport_width"`
	ViewportHeight float64 `toml:"viewport_height"`
}

// Capture 采集源配置
type Capture struct {
	Enabled bool `toml:"enabled"`
	// Pipeline GStreamer launch 描述，末端元素命名为 sink 的 appsink，
	// 例: autovideosrc ! videoconvert ! video/x-raw,format=RGB ! appsink name=sink
	Pipeline string `toml:"pipeline"`
	// Orientation 帧像素方向标记，透传给检测器
	Orientation string `toml:"orientation"`
}

// Detector 人脸关键点检测服务配置
type Detector struct {
	// URL 检测服务地址，留空表示仅接收 webhook 推送的检测结果
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// Duration 支持 "30s" 这类文本的时长配置
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// SetupConfig 读取配置文件，文件不存在时写出默认配置
func SetupConfig(path string) (*Bootstrap, error) {
	bc := defaultBootstrap()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := writeDefault(path, bc); err != nil {
			return nil, err
		}
		return bc, nil
	}
	if err := toml.Unmarshal(data, bc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return bc, nil
}

func defaultBootstrap() *Bootstrap {
	return &Bootstrap{
		Server: Server{
			HTTP: HTTP{Port: 8080},
		},
		Data: Data{
			Database: Database{
				MaxIdleConns:    10,
				MaxOpenConns:    100,
				ConnMaxLifetime: Duration(6 * time.Hour),
				SlowThreshold:   Duration(200 * time.Millisecond),
			},
		},
		Game: Game{
			ClosedThreshold: 5,
			ViewportWidth:   375,
			ViewportHeight:  667,
		},
		Capture: Capture{
			Pipeline:    "autovideosrc ! videoconvert ! video/x-raw,format=RGB ! appsink name=sink",
			Orientation: "leftMirrored",
		},
		Detector: Detector{
			Timeout: Duration(3 * time.Second),
		},
	}
}

func writeDefault(path string, bc *Bootstrap) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	data, err := toml.Marshal(bc)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

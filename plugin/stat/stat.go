// Package stat 采集主机资源占用，供运行状态接口使用
package stat

import (
	"context"
	"sync"
	"time"

	"github.com/ixugo/goddd/pkg/conc"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

var (
	mu   sync.RWMutex
	last map[string]any
)

// Snapshot 最近一次采集结果，LoadTop 未运行时返回 nil
func Snapshot() map[string]any {
	mu.RLock()
	defer mu.RUnlock()
	return last
}

// LoadTop 周期采集 CPU/内存/磁盘占用，每次采集后回调 fn
// 阻塞运行，调用方自行决定放入协程
func LoadTop(dir string, fn func(map[string]any)) {
	collect := func() {
		m := make(map[string]any, 8)
		if percents, err := cpu.Percent(time.Second, false); err == nil && len(percents) > 0 {
			m["cpu_percent"] = percents[0]
		}
		if vm, err := mem.VirtualMemory(); err == nil {
			m["mem_total"] = vm.Total
			m["mem_used_percent"] = vm.UsedPercent
		}
		if du, err := disk.Usage(dir); err == nil {
			m["disk_total"] = du.Total
			m["disk_used_percent"] = du.UsedPercent
		}
		if up, err := host.Uptime(); err == nil {
			m["host_uptime_seconds"] = up
		}

		mu.Lock()
		last = m
		mu.Unlock()
		if fn != nil {
			fn(m)
		}
	}

	collect()
	conc.Timer(context.Background(), 30*time.Second, 30*time.Second, collect)
}

package system

import (
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Usage: снимок потребления ресурсов процессом и хостом.
type Usage struct {
	ProcessRSS      uint64  `json:"process_rss_bytes"`
	ProcessThreads  int32   `json:"process_threads"`
	HostTotal       uint64  `json:"host_total_bytes"`
	HostUsedPercent float64 `json:"host_used_percent"`
}

// CurrentUsage собирает Usage. Частичные ошибки не фатальны: недоступные
// поля остаются нулевыми, возвращается первая ошибка.
func CurrentUsage() (Usage, error) {
	var u Usage
	var firstErr error

	if vm, err := mem.VirtualMemory(); err == nil {
		u.HostTotal = vm.Total
		u.HostUsedPercent = vm.UsedPercent
	} else {
		firstErr = err
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		return u, firstErr
	}

	if mi, err := proc.MemoryInfo(); err == nil {
		u.ProcessRSS = mi.RSS
	} else if firstErr == nil {
		firstErr = err
	}

	if n, err := proc.NumThreads(); err == nil {
		u.ProcessThreads = n
	} else if firstErr == nil {
		firstErr = err
	}

	return u, firstErr
}

package bench

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/columnlab/tabular/pkg/errors"
)

// ResourceUsage is a point-in-time snapshot of process and system resources.
type ResourceUsage struct {
	CPUPercent            float64
	MemoryRSS             uint64
	MemoryVMS             uint64
	HeapAllocBytes        uint64
	GoroutineCount        int
	SystemMemoryPercent   float64
	SystemMemoryAvailable uint64
}

// ResourceMonitor samples process CPU and memory around a benchmark run.
// CPU percent is averaged over the window since the monitor was created.
type ResourceMonitor struct {
	process      *process.Process
	startCPUTime float64
	startTime    time.Time
}

// NewResourceMonitor creates a monitor for the current process.
func NewResourceMonitor() (*ResourceMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: pids fit in int32
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to open current process")
	}
	cpuTime, err := proc.Times()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to read process CPU times")
	}
	return &ResourceMonitor{
		process:      proc,
		startCPUTime: cpuTime.Total(),
		startTime:    time.Now(),
	}, nil
}

// Usage returns resource usage since the monitor started.
func (rm *ResourceMonitor) Usage() (*ResourceUsage, error) {
	usage := &ResourceUsage{}

	cpuTime, err := rm.process.Times()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to read process CPU times")
	}
	elapsed := time.Since(rm.startTime).Seconds()
	if elapsed > 0 {
		usage.CPUPercent = ((cpuTime.Total() - rm.startCPUTime) / elapsed) * 100
	}

	memInfo, err := rm.process.MemoryInfo()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to read process memory info")
	}
	usage.MemoryRSS = memInfo.RSS
	usage.MemoryVMS = memInfo.VMS

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemoryPercent = vmStat.UsedPercent
		usage.SystemMemoryAvailable = vmStat.Available
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	usage.HeapAllocBytes = memStats.HeapAlloc
	usage.GoroutineCount = runtime.NumGoroutine()

	return usage, nil
}

package deskkit

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sync/errgroup"
)

const DefaultSampleInterval = time.Second

// Snapshot is one reading of host resource usage.
type Snapshot struct {
	CPUPercent      float64
	MemoryPercent   float64
	MemoryAvailable uint64
	DiskPath        string
	DiskPercent     float64
	DiskFree        uint64
	TakenAt         time.Time
}

type MemoryUsage struct {
	UsedPercent float64
	Available   uint64
}

type DiskUsage struct {
	UsedPercent float64
	Free        uint64
}

// Probe reads host counters.
type Probe interface {
	CPUPercent(ctx context.Context, interval time.Duration) (float64, error)
	Memory(ctx context.Context) (MemoryUsage, error)
	Disk(ctx context.Context, path string) (DiskUsage, error)
}

// HostProbe reads the local machine.
type HostProbe struct{}

func (HostProbe) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	pct, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, err
	}
	if len(pct) == 0 {
		return 0, fmt.Errorf("cpu: no samples")
	}
	return pct[0], nil
}

func (HostProbe) Memory(ctx context.Context) (MemoryUsage, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryUsage{}, err
	}
	return MemoryUsage{UsedPercent: vm.UsedPercent, Available: vm.Available}, nil
}

func (HostProbe) Disk(ctx context.Context, path string) (DiskUsage, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return DiskUsage{}, err
	}
	return DiskUsage{UsedPercent: u.UsedPercent, Free: u.Free}, nil
}

// DefaultDiskPath is the system root: "/" or "C:\".
func DefaultDiskPath() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

type Monitor struct {
	probe    Probe
	diskPath string
	interval time.Duration
	metrics  *Metrics
	now      func() time.Time
}

func NewMonitor(probe Probe, diskPath string, interval time.Duration, metrics *Metrics) *Monitor {
	if probe == nil {
		probe = HostProbe{}
	}
	if diskPath == "" {
		diskPath = DefaultDiskPath()
	}
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Monitor{probe: probe, diskPath: diskPath, interval: interval, metrics: metrics, now: time.Now}
}

// Collect reads CPU, memory and disk concurrently. CPU usage blocks for the
// sample interval.
func (m *Monitor) Collect(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{DiskPath: m.diskPath}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pct, err := m.probe.CPUPercent(gctx, m.interval)
		if err != nil {
			return fmt.Errorf("cpu usage: %w", err)
		}
		snap.CPUPercent = pct
		return nil
	})
	g.Go(func() error {
		mu, err := m.probe.Memory(gctx)
		if err != nil {
			return fmt.Errorf("memory usage: %w", err)
		}
		snap.MemoryPercent = mu.UsedPercent
		snap.MemoryAvailable = mu.Available
		return nil
	})
	g.Go(func() error {
		du, err := m.probe.Disk(gctx, m.diskPath)
		if err != nil {
			return fmt.Errorf("disk usage of %s: %w", m.diskPath, err)
		}
		snap.DiskPercent = du.UsedPercent
		snap.DiskFree = du.Free
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap.TakenAt = m.now()
	m.metrics.observe(snap)
	return snap, nil
}

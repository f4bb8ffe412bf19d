package deskkit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the engine, organizer and system monitor did. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	filesRenamed  prometheus.Counter
	filesRestored prometheus.Counter
	filesSkipped  prometheus.Counter
	filesMoved    prometheus.Counter
	errors        *prometheus.CounterVec

	cpuPercent    prometheus.Gauge
	memoryPercent prometheus.Gauge
	memoryFree    prometheus.Gauge
	diskPercent   prometheus.Gauge
	diskFree      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		filesRenamed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deskkit_files_renamed_total",
			Help: "Files renamed by batch rename.",
		}),
		filesRestored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deskkit_files_restored_total",
			Help: "Files restored to their original name by undo.",
		}),
		filesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deskkit_files_skipped_total",
			Help: "Files left alone because their target already existed.",
		}),
		filesMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deskkit_files_organized_total",
			Help: "Files moved into extension folders.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskkit_operation_errors_total",
			Help: "Per-file failures by operation.",
		}, []string{"op"}),
		cpuPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deskkit_host_cpu_percent",
			Help: "CPU usage at the last snapshot.",
		}),
		memoryPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deskkit_host_memory_percent",
			Help: "Memory usage at the last snapshot.",
		}),
		memoryFree: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deskkit_host_memory_available_bytes",
			Help: "Available memory at the last snapshot.",
		}),
		diskPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deskkit_host_disk_percent",
			Help: "Disk usage of the monitored path at the last snapshot.",
		}),
		diskFree: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deskkit_host_disk_free_bytes",
			Help: "Free disk space of the monitored path at the last snapshot.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.filesRenamed, m.filesRestored, m.filesSkipped, m.filesMoved, m.errors,
			m.cpuPercent, m.memoryPercent, m.memoryFree, m.diskPercent, m.diskFree,
		)
	}
	return m
}

func (m *Metrics) renamed() {
	if m != nil {
		m.filesRenamed.Inc()
	}
}

func (m *Metrics) restored() {
	if m != nil {
		m.filesRestored.Inc()
	}
}

func (m *Metrics) skipped() {
	if m != nil {
		m.filesSkipped.Inc()
	}
}

func (m *Metrics) moved() {
	if m != nil {
		m.filesMoved.Inc()
	}
}

func (m *Metrics) failed(op string) {
	if m != nil {
		m.errors.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) observe(s Snapshot) {
	if m == nil {
		return
	}
	m.cpuPercent.Set(s.CPUPercent)
	m.memoryPercent.Set(s.MemoryPercent)
	m.memoryFree.Set(float64(s.MemoryAvailable))
	m.diskPercent.Set(s.DiskPercent)
	m.diskFree.Set(float64(s.DiskFree))
}

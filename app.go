package deskkit

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App wires the suite together for a host (CLI, menu or GUI).
type App struct {
	Config    Config
	Logger    *slog.Logger
	Store     *FileStore
	Engine    *Engine
	Organizer *Organizer
	Monitor   *Monitor
	Metrics   *Metrics
	Registry  *prometheus.Registry

	logCloser io.Closer
}

// NewApp builds every component from cfg. events receives per-file
// progress; nil logs it instead. Logs go to logOut (stderr when nil).
func NewApp(cfg Config, events Events, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closer, err := NewLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = LogEvents(logger)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := NewMetrics(reg)

	store := NewFileStore(cfg.JournalPath, logger)
	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Engine:    NewEngine(store, WithEvents(events), WithLogger(logger), WithMetrics(metrics)),
		Organizer: NewOrganizer(events, metrics),
		Monitor:   NewMonitor(HostProbe{}, cfg.Sysmon.DiskPath, cfg.Sysmon.SampleInterval, metrics),
		Metrics:   metrics,
		Registry:  reg,
		logCloser: closer,
	}, nil
}

func (a *App) Close() error {
	if a.logCloser == nil {
		return nil
	}
	return a.logCloser.Close()
}

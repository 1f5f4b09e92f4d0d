package sensor_simulator

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
	"github.com/LeonardoBeccarini/smartagri/internal/model/messages"
	"github.com/LeonardoBeccarini/smartagri/pkg/dedup"
	"github.com/LeonardoBeccarini/smartagri/pkg/schedule"
)

// Config holds the feed timings.
type Config struct {
	Sensors      int
	TickInterval time.Duration
	RefreshDelay time.Duration
	Clamp        bool
	AlertTTL     time.Duration
}

// DefaultConfig mirrors the dashboard demo: four sensors, a tick every ten
// seconds and a one and a half second refresh round trip.
func DefaultConfig() Config {
	return Config{
		Sensors:      4,
		TickInterval: 10 * time.Second,
		RefreshDelay: 1500 * time.Millisecond,
		AlertTTL:     2 * time.Minute,
	}
}

// SensorSimulator owns the reading list of the monitoring panel for as long
// as the panel is open. Start it on view entry and Stop it on exit.
type SensorSimulator struct {
	mu         sync.Mutex
	cfg        Config
	generator  *DataGenerator
	scheduler  *schedule.Scheduler
	readings   []entities.SensorReading
	running    bool
	refreshing bool
	ticker     *schedule.Task
	refresh    *schedule.Task
	handlers   []func(messages.FeedUpdate)
	deduper    *dedup.Deduper
	active     map[string]entities.Alert
	metrics    *Metrics
	logger     *slog.Logger
}

// Option customises a SensorSimulator.
type Option func(*SensorSimulator)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *SensorSimulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics attaches prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(s *SensorSimulator) { s.metrics = m }
}

func NewSensorSimulator(cfg Config, gen *DataGenerator, sched *schedule.Scheduler, opts ...Option) *SensorSimulator {
	def := DefaultConfig()
	if cfg.Sensors <= 0 {
		cfg.Sensors = def.Sensors
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.RefreshDelay < 0 {
		cfg.RefreshDelay = 0
	}
	if cfg.AlertTTL <= 0 {
		cfg.AlertTTL = def.AlertTTL
	}
	if sched == nil {
		sched = schedule.New(nil)
	}
	if gen == nil {
		gen = NewDataGenerator(nil, sched.Clock())
	}
	gen.SetClamp(cfg.Clamp)

	s := &SensorSimulator{
		cfg:       cfg,
		generator: gen,
		scheduler: sched,
		deduper:   dedup.NewWithClock(sched.Clock(), cfg.AlertTTL, 1000),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("module", "sensor-simulator")
	return s
}

// OnUpdate registers a handler called after every change of the reading list.
// Handlers run outside the simulator lock, on the goroutine that caused the
// change.
func (s *SensorSimulator) OnUpdate(handler func(messages.FeedUpdate)) {
	if handler == nil {
		return
	}
	s.mu.Lock()
	s.handlers = append(s.handlers, handler)
	s.mu.Unlock()
}

// Start generates the initial readings and schedules the periodic tick.
// Calling Start on a running simulator does nothing.
func (s *SensorSimulator) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.readings = s.generator.Initialize(s.cfg.Sensors)
	s.ticker = s.scheduler.Every(s.cfg.TickInterval, func(time.Time) { s.Tick() })
	u := s.snapshot(messages.ReasonInitialize)
	s.mu.Unlock()

	s.logger.Info("feed started", "sensors", s.cfg.Sensors, "interval", s.cfg.TickInterval)
	s.publish(u)
}

// Stop cancels the periodic tick and any pending refresh and drops the
// readings. No handler is called once Stop has returned.
func (s *SensorSimulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.readings = nil
	s.refreshing = false
	ticker, refresh := s.ticker, s.refresh
	s.ticker, s.refresh = nil, nil
	s.mu.Unlock()

	// cancel outside the lock: a callback may be waiting for it
	ticker.Cancel()
	refresh.Cancel()
	s.logger.Info("feed stopped")
}

// Running reports whether the simulator is between Start and Stop.
func (s *SensorSimulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Tick applies one perturbation step right away. It is what the periodic
// task calls; it is a no-op while stopped.
func (s *SensorSimulator) Tick() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.generator.Tick(s.readings)
	u := s.snapshot(messages.ReasonTick)
	s.mu.Unlock()

	s.logger.Debug("feed tick",
		"avg_temperature", u.Summary.AvgTemperature,
		"avg_humidity", u.Summary.AvgHumidity,
		"avg_soil_moisture", u.Summary.AvgSoilMoisture)
	s.publish(u)
}

// Refresh discards the readings and regenerates them after the configured
// delay. It returns false when the simulator is stopped or a refresh is
// already in progress.
func (s *SensorSimulator) Refresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.refreshing {
		return false
	}
	s.refreshing = true
	s.refresh = s.scheduler.After(s.cfg.RefreshDelay, func(time.Time) { s.completeRefresh() })
	s.logger.Debug("feed refresh requested", "delay", s.cfg.RefreshDelay)
	return true
}

func (s *SensorSimulator) completeRefresh() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.readings = s.generator.Initialize(s.cfg.Sensors)
	s.refreshing = false
	s.refresh = nil
	u := s.snapshot(messages.ReasonRefresh)
	s.mu.Unlock()

	s.logger.Info("feed refreshed", "sensors", len(u.Readings))
	s.publish(u)
}

// Refreshing reports whether a refresh is in progress.
func (s *SensorSimulator) Refreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing
}

// Readings returns a copy of the current reading list.
func (s *SensorSimulator) Readings() []entities.SensorReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneReadings(s.readings)
}

// Summary returns the overview cards for the current readings.
func (s *SensorSimulator) Summary() messages.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.readings)
}

// Alerts returns the alerts derived from the current readings.
func (s *SensorSimulator) Alerts() []entities.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DetectAlerts(s.readings)
}

// snapshot must be called with s.mu held.
func (s *SensorSimulator) snapshot(reason messages.UpdateReason) messages.FeedUpdate {
	readings := cloneReadings(s.readings)
	return messages.FeedUpdate{
		ID:        uuid.NewString(),
		Reason:    reason,
		Readings:  readings,
		Summary:   Summarize(readings),
		Alerts:    DetectAlerts(readings),
		Timestamp: s.scheduler.Clock().Now(),
	}
}

func (s *SensorSimulator) publish(u messages.FeedUpdate) {
	current := make(map[string]entities.Alert, len(u.Alerts))
	for _, a := range u.Alerts {
		current[a.Key()] = a
		if s.deduper.ShouldProcess(a.Key()) {
			s.logger.Warn("alert raised",
				"sensor_id", a.SensorID,
				"title", a.Title,
				"band", a.Band.String(),
				"value", a.Value)
		}
	}
	s.metrics.observe(u)

	s.mu.Lock()
	cleared := make([]entities.Alert, 0)
	for k, a := range s.active {
		if _, ok := current[k]; !ok {
			cleared = append(cleared, a)
		}
	}
	s.active = current
	handlers := append([]func(messages.FeedUpdate){}, s.handlers...)
	s.mu.Unlock()

	// a cleared alert is logged again as soon as it comes back
	for _, a := range cleared {
		s.deduper.Forget(a.Key())
		s.logger.Info("alert cleared", "sensor_id", a.SensorID, "title", a.Title, "tracked", s.deduper.Len())
	}
	for _, h := range handlers {
		h(u)
	}
}

func cloneReadings(in []entities.SensorReading) []entities.SensorReading {
	if in == nil {
		return nil
	}
	out := make([]entities.SensorReading, len(in))
	copy(out, in)
	return out
}

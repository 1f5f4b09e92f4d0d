package sensor_simulator_test

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
	"github.com/LeonardoBeccarini/smartagri/internal/model/messages"
	simulator "github.com/LeonardoBeccarini/smartagri/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/smartagri/pkg/schedule"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type feedFixture struct {
	clock   clockwork.FakeClock
	sim     *simulator.SensorSimulator
	updates chan messages.FeedUpdate
	metrics *simulator.Metrics
}

func newFeed(t *testing.T, cfg simulator.Config) *feedFixture {
	t.Helper()
	clock := clockwork.NewFakeClock()
	sched := schedule.New(clock)
	gen := simulator.NewDataGenerator(simulator.NewRandomSource(99), clock)
	metrics := simulator.NewMetrics(prometheus.NewRegistry())

	f := &feedFixture{
		clock:   clock,
		sim:     simulator.NewSensorSimulator(cfg, gen, sched, simulator.WithMetrics(metrics)),
		updates: make(chan messages.FeedUpdate, 32),
		metrics: metrics,
	}
	f.sim.OnUpdate(func(u messages.FeedUpdate) { f.updates <- u })
	t.Cleanup(f.sim.Stop)
	return f
}

func (f *feedFixture) next(t *testing.T) messages.FeedUpdate {
	t.Helper()
	select {
	case u := <-f.updates:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("no feed update received")
		return messages.FeedUpdate{}
	}
}

func (f *feedFixture) none(t *testing.T) {
	t.Helper()
	select {
	case u := <-f.updates:
		t.Fatalf("unexpected feed update %q", u.Reason)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStartPublishesInitialReadings(t *testing.T) {
	f := newFeed(t, simulator.DefaultConfig())
	f.sim.Start()

	u := f.next(t)
	assert.Equal(t, messages.ReasonInitialize, u.Reason)
	require.Len(t, u.Readings, 4)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, 3, u.Summary.Online)
	assert.Equal(t, 4, u.Summary.Total)
	assert.Equal(t, u.Readings, f.sim.Readings())
	assert.True(t, f.sim.Running())

	// a second Start keeps the running feed
	f.sim.Start()
	f.none(t)
}

func TestTickUpdatesAllSensors(t *testing.T) {
	f := newFeed(t, simulator.DefaultConfig())
	f.sim.Start()
	initial := f.next(t)

	f.clock.Advance(9 * time.Second)
	f.none(t)

	f.clock.Advance(time.Second)
	u := f.next(t)
	assert.Equal(t, messages.ReasonTick, u.Reason)
	require.Len(t, u.Readings, len(initial.Readings))

	for i, r := range u.Readings {
		prev := initial.Readings[i]
		assert.Equal(t, prev.ID, r.ID)
		assert.True(t, r.LastUpdate.After(prev.LastUpdate), r.ID)
		for _, m := range []entities.Metric{entities.MetricTemperature, entities.MetricHumidity, entities.MetricSoilMoisture} {
			assert.LessOrEqual(t, math.Abs(r.Value(m)-prev.Value(m)), simulator.TickStep(m)+1e-9)
		}
		assert.Equal(t, prev.LightLevel, r.LightLevel)
		assert.Equal(t, prev.BatteryLevel, r.BatteryLevel)
	}

	f.clock.Advance(10 * time.Second)
	assert.Equal(t, messages.ReasonTick, f.next(t).Reason)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Ticks))
	assert.Equal(t, 4.0, testutil.ToFloat64(f.metrics.Sensors))
}

func TestStopCancelsTicker(t *testing.T) {
	f := newFeed(t, simulator.DefaultConfig())
	f.sim.Start()
	f.next(t)

	f.sim.Stop()
	assert.False(t, f.sim.Running())
	assert.Empty(t, f.sim.Readings())

	f.clock.Advance(time.Minute)
	f.none(t)

	// manual ticks are ignored once stopped
	f.sim.Tick()
	f.none(t)
	assert.Zero(t, testutil.ToFloat64(f.metrics.Ticks))
}

func TestStopIsIdempotent(t *testing.T) {
	f := newFeed(t, simulator.DefaultConfig())
	assert.NotPanics(t, func() {
		f.sim.Stop()
		f.sim.Start()
		f.sim.Stop()
		f.sim.Stop()
	})
}

func TestRunningFeedAlwaysHasReadings(t *testing.T) {
	clock := clockwork.NewFakeClock()
	gen := simulator.NewDataGenerator(simulator.NewRandomSource(7), clock)
	sim := simulator.NewSensorSimulator(simulator.DefaultConfig(), gen, schedule.New(clock))
	t.Cleanup(sim.Stop)

	for i := 0; i < 200; i++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); sim.Start() }()
		go func() { defer wg.Done(); sim.Stop() }()
		wg.Wait()

		if sim.Running() {
			require.Len(t, sim.Readings(), 4, "cycle %d", i)
		} else {
			require.Empty(t, sim.Readings(), "cycle %d", i)
			assert.False(t, sim.Refreshing())
		}
	}
}

func TestRefreshRegeneratesAfterDelay(t *testing.T) {
	f := newFeed(t, simulator.DefaultConfig())
	f.sim.Start()
	f.next(t)

	require.True(t, f.sim.Refresh())
	assert.True(t, f.sim.Refreshing())
	assert.False(t, f.sim.Refresh(), "refresh already in progress")

	f.clock.Advance(time.Second)
	f.none(t)
	assert.True(t, f.sim.Refreshing())

	f.clock.Advance(500 * time.Millisecond)
	u := f.next(t)
	assert.Equal(t, messages.ReasonRefresh, u.Reason)
	assert.Len(t, u.Readings, 4)
	for _, r := range u.Readings {
		assert.False(t, r.LastUpdate.After(f.clock.Now()))
	}
	assert.Eventually(t, func() bool { return !f.sim.Refreshing() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Refreshes))

	assert.True(t, f.sim.Refresh())
}

func TestRefreshWhileStopped(t *testing.T) {
	f := newFeed(t, simulator.DefaultConfig())
	assert.False(t, f.sim.Refresh())
	assert.False(t, f.sim.Refreshing())
}

func TestStopDropsPendingRefresh(t *testing.T) {
	f := newFeed(t, simulator.DefaultConfig())
	f.sim.Start()
	f.next(t)

	require.True(t, f.sim.Refresh())
	f.sim.Stop()
	assert.False(t, f.sim.Refreshing())

	f.clock.Advance(2 * time.Second)
	f.none(t)
}

func TestNewSensorSimulatorDefaults(t *testing.T) {
	f := newFeed(t, simulator.Config{})
	f.sim.Start()
	assert.Len(t, f.next(t).Readings, 4)

	f.clock.Advance(10 * time.Second)
	assert.Equal(t, messages.ReasonTick, f.next(t).Reason)
}

func TestAlertsMetric(t *testing.T) {
	f := newFeed(t, simulator.Config{Sensors: 12})
	f.sim.Start()
	u := f.next(t)

	var critical int
	for _, a := range u.Alerts {
		if a.Band == entities.BandCritical {
			critical++
		}
	}
	assert.Equal(t, float64(critical),
		testutil.ToFloat64(f.metrics.Alerts.WithLabelValues(entities.BandCritical.String())))
	assert.Equal(t, u.Alerts, f.sim.Alerts())
	assert.Equal(t, u.Summary, f.sim.Summary())
}

// switchSource yields v until the test changes it.
type switchSource struct{ v float64 }

func (s *switchSource) Float64() float64 { return s.v }

func countLines(log, msg, title, band string) int {
	n := 0
	for _, line := range strings.Split(log, "\n") {
		if strings.Contains(line, `msg="`+msg+`"`) &&
			strings.Contains(line, `title="`+title+`"`) &&
			strings.Contains(line, band) {
			n++
		}
	}
	return n
}

func TestClearedAlertIsLoggedAgainWhenItReturns(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := &switchSource{}
	var logs bytes.Buffer
	sim := simulator.NewSensorSimulator(simulator.Config{Sensors: 1},
		simulator.NewDataGenerator(src, clock), schedule.New(clock),
		simulator.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	t.Cleanup(sim.Stop)

	// soil moisture starts at 20%, critically low
	sim.Start()
	require.Equal(t, 20.0, sim.Readings()[0].SoilMoisture)
	assert.Equal(t, 1, countLines(logs.String(), "alert raised", "Low Soil Moisture", "band=critical"))

	// +0.5 per tick: caution at 30%, normal again at 40%
	src.v = 0.999
	for i := 0; i < 40; i++ {
		sim.Tick()
	}
	require.InDelta(t, 40.0, sim.Readings()[0].SoilMoisture, 1e-9)
	assert.Equal(t, 1, countLines(logs.String(), "alert raised", "Low Soil Moisture", "band=caution"))
	assert.Equal(t, 2, countLines(logs.String(), "alert cleared", "Low Soil Moisture", ""))

	// back under 40% well inside the TTL window
	src.v = 0
	sim.Tick()
	assert.Equal(t, 2, countLines(logs.String(), "alert raised", "Low Soil Moisture", "band=caution"))
}

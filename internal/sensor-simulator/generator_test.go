package sensor_simulator_test

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
	simulator "github.com/LeonardoBeccarini/smartagri/internal/sensor-simulator"
)

// constSource always yields the same value; used to force a drift direction.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func TestInitializeValuesWithinSamplingRanges(t *testing.T) {
	clock := clockwork.NewFakeClock()
	for seed := uint64(1); seed <= 20; seed++ {
		gen := simulator.NewDataGenerator(simulator.NewRandomSource(seed), clock)
		readings := gen.Initialize(50)
		require.Len(t, readings, 50)

		for _, r := range readings {
			for _, m := range entities.Metrics {
				rng, ok := simulator.SamplingRange(m)
				require.True(t, ok, m)
				assert.Truef(t, rng.Contains(r.Value(m)), "%s %s=%v outside %v", r.ID, m, r.Value(m), rng)
			}
			assert.False(t, r.LastUpdate.After(clock.Now()))
			assert.False(t, r.LastUpdate.Before(clock.Now().Add(-5*time.Minute)))
		}
	}
}

func TestInitializeFourSensors(t *testing.T) {
	gen := simulator.NewDataGenerator(simulator.NewRandomSource(42), clockwork.NewFakeClock())
	readings := gen.Initialize(4)
	require.Len(t, readings, 4)

	assert.Equal(t, 3, simulator.OnlineCount(readings))
	assert.Equal(t, entities.StatusWarning, readings[3].Status)

	wantLocations := []string{"Field A - North", "Field B - South", "Greenhouse 1", "Field C - East"}
	for i, r := range readings {
		assert.Equal(t, wantLocations[i], r.Location)
	}
	assert.Equal(t, "sensor-1", readings[0].ID)
	assert.Equal(t, "Sensor 4", readings[3].Name)
}

func TestInitializeIsDeterministicForSeed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	a := simulator.NewDataGenerator(simulator.NewRandomSource(7), clock).Initialize(4)
	b := simulator.NewDataGenerator(simulator.NewRandomSource(7), clock).Initialize(4)
	assert.Equal(t, a, b)
}

func TestInitializeRoundsToOneDecimal(t *testing.T) {
	gen := simulator.NewDataGenerator(simulator.NewRandomSource(3), clockwork.NewFakeClock())
	for _, r := range gen.Initialize(10) {
		for _, m := range entities.Metrics {
			v := r.Value(m)
			assert.InDelta(t, math.Round(v*10)/10, v, 1e-9)
		}
	}
}

func TestTickDeltaBoundedPerTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	gen := simulator.NewDataGenerator(simulator.NewRandomSource(11), clock)
	readings := gen.Initialize(4)

	for i := 0; i < 5000; i++ {
		prev := append([]entities.SensorReading(nil), readings...)
		clock.Advance(10 * time.Second)
		gen.Tick(readings)

		for j, r := range readings {
			for _, m := range entities.Metrics {
				step := simulator.TickStep(m)
				delta := math.Abs(r.Value(m) - prev[j].Value(m))
				require.LessOrEqualf(t, delta, step+1e-9, "tick %d %s %s moved by %v", i, r.ID, m, delta)
			}
			require.Equal(t, clock.Now(), r.LastUpdate)
			require.Equal(t, prev[j].Status, r.Status)
		}
	}
}

// Without clamping a sustained bias walks values out of any realistic range.
// This pins the unclamped behaviour so a change to it is noticed.
func TestTickDriftIsUnboundedWithoutClamp(t *testing.T) {
	clock := clockwork.NewFakeClock()
	gen := simulator.NewDataGenerator(constSource(0.999), clock)
	readings := gen.Initialize(1)

	for i := 0; i < 1000; i++ {
		gen.Tick(readings)
	}

	r := readings[0]
	tempLimits, _ := simulator.PhysicalLimits(entities.MetricTemperature)
	humLimits, _ := simulator.PhysicalLimits(entities.MetricHumidity)
	assert.Greater(t, r.Temperature, tempLimits.Max)
	assert.Greater(t, r.Humidity, humLimits.Max)
	t.Logf("drift after 1000 biased ticks: temperature=%.1f humidity=%.1f soil=%.1f",
		r.Temperature, r.Humidity, r.SoilMoisture)
}

func TestTickClampKeepsPhysicalLimits(t *testing.T) {
	for _, bias := range []constSource{0, 0.999} {
		gen := simulator.NewDataGenerator(bias, clockwork.NewFakeClock())
		gen.SetClamp(true)
		readings := gen.Initialize(2)

		for i := 0; i < 2000; i++ {
			gen.Tick(readings)
		}
		for _, r := range readings {
			for _, m := range []entities.Metric{entities.MetricTemperature, entities.MetricHumidity, entities.MetricSoilMoisture} {
				lim, ok := simulator.PhysicalLimits(m)
				require.True(t, ok)
				assert.Truef(t, lim.Contains(r.Value(m)), "%s=%v outside %v", m, r.Value(m), lim)
			}
		}
	}
}

func TestInitializeNegativeCount(t *testing.T) {
	gen := simulator.NewDataGenerator(nil, nil)
	assert.Empty(t, gen.Initialize(-1))
}

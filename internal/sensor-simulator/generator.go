package sensor_simulator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
)

// ====== Tunables ======

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside r, allowing for float rounding.
func (r Range) Contains(v float64) bool {
	const eps = 1e-9
	return v >= r.Min-eps && v <= r.Max+eps
}

var (
	// sampling ranges used when a reading is created
	samplingRanges = map[entities.Metric]Range{
		entities.MetricTemperature:  {20, 35},
		entities.MetricHumidity:     {40, 80},
		entities.MetricSoilMoisture: {20, 80},
		entities.MetricLightLevel:   {20, 100},
		entities.MetricBatteryLevel: {60, 100},
	}

	// max absolute change applied by one tick; metrics not listed never move
	tickSteps = map[entities.Metric]float64{
		entities.MetricTemperature:  0.1,
		entities.MetricHumidity:     1,
		entities.MetricSoilMoisture: 0.5,
	}

	// physical limits used only when clamping is enabled
	physicalLimits = map[entities.Metric]Range{
		entities.MetricTemperature:  {-40, 60},
		entities.MetricHumidity:     {0, 100},
		entities.MetricSoilMoisture: {0, 100},
	}

	locations     = []string{"Field A - North", "Field B - South", "Greenhouse 1", "Field C - East"}
	statusPattern = []entities.SensorStatus{
		entities.StatusOnline,
		entities.StatusOnline,
		entities.StatusOnline,
		entities.StatusWarning,
	}
)

// initial LastUpdate values are spread over this window before now
const lastUpdateWindow = 5 * time.Minute

// SamplingRange returns the interval initial values of m are drawn from.
func SamplingRange(m entities.Metric) (Range, bool) {
	r, ok := samplingRanges[m]
	return r, ok
}

// TickStep returns the largest change a single tick applies to m; zero for
// metrics that ticks leave alone.
func TickStep(m entities.Metric) float64 {
	return tickSteps[m]
}

// PhysicalLimits returns the bounds enforced on m when clamping is on.
func PhysicalLimits(m entities.Metric) (Range, bool) {
	r, ok := physicalLimits[m]
	return r, ok
}

// RandomSource is the subset of *rand.Rand the generator needs. It is not
// required to be safe for concurrent use.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a PCG source for seed; seed 0 picks a time based one.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DataGenerator creates and perturbs mock sensor readings.
type DataGenerator struct {
	rnd   RandomSource
	clock clockwork.Clock
	clamp bool
}

// NewDataGenerator builds a generator. A nil clock means wall clock time.
func NewDataGenerator(rnd RandomSource, clock clockwork.Clock) *DataGenerator {
	if rnd == nil {
		rnd = NewRandomSource(0)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &DataGenerator{rnd: rnd, clock: clock}
}

// SetClamp turns bounding of perturbed values to physical limits on or off.
func (g *DataGenerator) SetClamp(on bool) {
	g.clamp = on
}

// Initialize returns n fresh readings with uniform values inside the
// sampling ranges. Every fourth sensor reports a warning status.
func (g *DataGenerator) Initialize(n int) []entities.SensorReading {
	if n < 0 {
		n = 0
	}
	now := g.clock.Now()
	out := make([]entities.SensorReading, n)
	for i := range out {
		out[i] = entities.SensorReading{
			ID:           fmt.Sprintf("sensor-%d", i+1),
			Name:         fmt.Sprintf("Sensor %d", i+1),
			Location:     locations[i%len(locations)],
			Temperature:  g.sample(entities.MetricTemperature),
			Humidity:     g.sample(entities.MetricHumidity),
			SoilMoisture: g.sample(entities.MetricSoilMoisture),
			LightLevel:   g.sample(entities.MetricLightLevel),
			BatteryLevel: g.sample(entities.MetricBatteryLevel),
			Status:       statusPattern[i%len(statusPattern)],
			LastUpdate:   now.Add(-time.Duration(g.rnd.Float64() * float64(lastUpdateWindow))),
		}
	}
	return out
}

// Tick perturbs temperature, humidity and soil moisture of every reading in
// place and stamps the current time. The same slice is returned.
func (g *DataGenerator) Tick(readings []entities.SensorReading) []entities.SensorReading {
	now := g.clock.Now()
	for i := range readings {
		r := &readings[i]
		r.Temperature = g.perturb(entities.MetricTemperature, r.Temperature)
		r.Humidity = g.perturb(entities.MetricHumidity, r.Humidity)
		r.SoilMoisture = g.perturb(entities.MetricSoilMoisture, r.SoilMoisture)
		r.LastUpdate = now
	}
	return readings
}

// ===== Helpers =====

func (g *DataGenerator) sample(m entities.Metric) float64 {
	r := samplingRanges[m]
	return round1(r.Min + g.rnd.Float64()*(r.Max-r.Min))
}

func (g *DataGenerator) perturb(m entities.Metric, v float64) float64 {
	step := tickSteps[m]
	v = round1(v + (g.rnd.Float64()-0.5)*2*step)
	if g.clamp {
		lim := physicalLimits[m]
		v = math.Min(math.Max(v, lim.Min), lim.Max)
	}
	return v
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

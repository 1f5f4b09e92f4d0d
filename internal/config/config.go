// Package config resolves runtime settings from flags, SMARTAGRI_* environment
// variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	simulator "github.com/LeonardoBeccarini/smartagri/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/smartagri/internal/services/analytics"
	"github.com/LeonardoBeccarini/smartagri/internal/services/detection"
)

const EnvPrefix = "SMARTAGRI"

// Keys, shared by flags, env vars (upper case, '-' and '.' become '_') and the
// config file.
const (
	KeyConfig        = "config"
	KeyVerbose       = "verbose"
	KeyNoColor       = "no-color"
	KeySensors       = "sensors"
	KeyTickInterval  = "tick-interval"
	KeyRefreshDelay  = "refresh-delay"
	KeyClamp         = "clamp"
	KeyAlertTTL      = "alert-ttl"
	KeyAnalysisDelay = "analysis-delay"
	KeySeed          = "seed"
	KeyTimeRange     = "time-range"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Verbose       bool
	NoColor       bool
	Sensors       int
	TickInterval  time.Duration
	RefreshDelay  time.Duration
	Clamp         bool
	AlertTTL      time.Duration
	AnalysisDelay time.Duration
	Seed          uint64 // 0 seeds from the clock
	TimeRange     analytics.TimeRange
}

// New returns a viper instance with the env binding and defaults in place.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func SetDefaults(v *viper.Viper) {
	feed := simulator.DefaultConfig()
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeySensors, feed.Sensors)
	v.SetDefault(KeyTickInterval, feed.TickInterval)
	v.SetDefault(KeyRefreshDelay, feed.RefreshDelay)
	v.SetDefault(KeyClamp, false)
	v.SetDefault(KeyAlertTTL, feed.AlertTTL)
	v.SetDefault(KeyAnalysisDelay, detection.DefaultDelay)
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyTimeRange, string(analytics.DefaultTimeRange))
}

// Load reads the optional config file named by the "config" key and returns
// the validated settings.
func Load(v *viper.Viper) (Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Verbose:       v.GetBool(KeyVerbose),
		NoColor:       v.GetBool(KeyNoColor),
		Sensors:       v.GetInt(KeySensors),
		TickInterval:  v.GetDuration(KeyTickInterval),
		RefreshDelay:  v.GetDuration(KeyRefreshDelay),
		Clamp:         v.GetBool(KeyClamp),
		AlertTTL:      v.GetDuration(KeyAlertTTL),
		AnalysisDelay: v.GetDuration(KeyAnalysisDelay),
		Seed:          v.GetUint64(KeySeed),
		TimeRange:     analytics.TimeRange(v.GetString(KeyTimeRange)),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Sensors < 1 || c.Sensors > 1000 {
		errs = append(errs, fmt.Errorf("%s must be between 1 and 1000, got %d", KeySensors, c.Sensors))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", KeyTickInterval, c.TickInterval))
	}
	if c.RefreshDelay < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %s", KeyRefreshDelay, c.RefreshDelay))
	}
	if c.AnalysisDelay < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %s", KeyAnalysisDelay, c.AnalysisDelay))
	}
	if c.AlertTTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", KeyAlertTTL, c.AlertTTL))
	}
	if _, err := analytics.ParseTimeRange(string(c.TimeRange)); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Feed returns the sensor feed settings.
func (c Config) Feed() simulator.Config {
	return simulator.Config{
		Sensors:      c.Sensors,
		TickInterval: c.TickInterval,
		RefreshDelay: c.RefreshDelay,
		Clamp:        c.Clamp,
		AlertTTL:     c.AlertTTL,
	}
}

// Detection returns the classifier settings.
func (c Config) Detection() detection.Config {
	return detection.Config{Delay: c.AnalysisDelay}
}

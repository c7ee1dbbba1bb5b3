package config

import (
	"fmt"
	"net"
	"time"

	"github.com/metacubex/dhcping/log"

	"gopkg.in/yaml.v3"
)

// Bounds carried over from the probe's usage contract. The retry schedule
// must fit inside the overall wait: tries x interval <= wait.
const (
	TriesMin     = 1
	TriesMax     = 32
	TriesDefault = 3

	IntervalMin     = 1
	IntervalMax     = 10
	IntervalDefault = 2

	WaitMin     = 3
	WaitMax     = 60
	WaitDefault = 8
)

// RawConfig is the yaml-facing configuration. Durations are whole seconds.
type RawConfig struct {
	MAC      string       `yaml:"mac"`
	Server   string       `yaml:"server"`
	Local    string       `yaml:"local"`
	Interval int          `yaml:"interval"`
	Tries    int          `yaml:"tries"`
	Wait     int          `yaml:"wait"`
	Verbose  bool         `yaml:"verbose"`
	LogLevel log.LogLevel `yaml:"log-level"`
}

// Config is the validated configuration handed to the probe.
type Config struct {
	MAC      net.HardwareAddr
	Server   string
	Local    string
	Interval time.Duration
	Tries    int
	Wait     time.Duration
	Verbose  bool
	LogLevel log.LogLevel
}

func DefaultRawConfig() *RawConfig {
	return &RawConfig{
		Interval: IntervalDefault,
		Tries:    TriesDefault,
		Wait:     WaitDefault,
		LogLevel: log.INFO,
	}
}

func UnmarshalRawConfig(buf []byte) (*RawConfig, error) {
	rawCfg := DefaultRawConfig()
	if err := yaml.Unmarshal(buf, rawCfg); err != nil {
		return nil, err
	}
	return rawCfg, nil
}

// ParseRawConfig validates the raw configuration. Every violation is a
// usage error: it must be rejected here, before any socket is opened.
func ParseRawConfig(rawCfg *RawConfig) (*Config, error) {
	if rawCfg.MAC == "" {
		return nil, fmt.Errorf("mac is required")
	}
	hwAddr, err := net.ParseMAC(rawCfg.MAC)
	if err != nil {
		return nil, fmt.Errorf("invalid mac %s: %w", rawCfg.MAC, err)
	}
	if len(hwAddr) != 6 {
		return nil, fmt.Errorf("invalid mac %s: expected 6 octets, got %d", rawCfg.MAC, len(hwAddr))
	}

	if rawCfg.Server == "" {
		return nil, fmt.Errorf("server is required")
	}

	if rawCfg.Interval < IntervalMin || rawCfg.Interval > IntervalMax {
		return nil, fmt.Errorf("interval %d s: out of range %d-%d", rawCfg.Interval, IntervalMin, IntervalMax)
	}
	if rawCfg.Tries < TriesMin || rawCfg.Tries > TriesMax {
		return nil, fmt.Errorf("tries %d: out of range %d-%d", rawCfg.Tries, TriesMin, TriesMax)
	}
	if rawCfg.Wait < WaitMin || rawCfg.Wait > WaitMax {
		return nil, fmt.Errorf("wait %d s: out of range %d-%d", rawCfg.Wait, WaitMin, WaitMax)
	}
	if rawCfg.Tries*rawCfg.Interval > rawCfg.Wait {
		return nil, fmt.Errorf("tries %d by interval %d s > wait %d s", rawCfg.Tries, rawCfg.Interval, rawCfg.Wait)
	}

	return &Config{
		MAC:      hwAddr,
		Server:   rawCfg.Server,
		Local:    rawCfg.Local,
		Interval: time.Duration(rawCfg.Interval) * time.Second,
		Tries:    rawCfg.Tries,
		Wait:     time.Duration(rawCfg.Wait) * time.Second,
		Verbose:  rawCfg.Verbose,
		LogLevel: rawCfg.LogLevel,
	}, nil
}

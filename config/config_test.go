package config

import (
	"testing"
	"time"

	"github.com/metacubex/dhcping/log"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Defaults(t *testing.T) {
	rawCfg, err := UnmarshalRawConfig([]byte(`
mac: 00:11:22:33:44:55
server: 203.0.113.5
`))
	assert.NoError(t, err)

	cfg, err := ParseRawConfig(rawCfg)
	assert.NoError(t, err)
	assert.Equal(t, 3, cfg.Tries)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, 8*time.Second, cfg.Wait)
	assert.Equal(t, "", cfg.Local)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, log.INFO, cfg.LogLevel)
}

func TestConfig_Full(t *testing.T) {
	rawCfg, err := UnmarshalRawConfig([]byte(`
mac: 00:11:22:33:44:55
server: dhcp.example.com
local: 192.0.2.10
interval: 1
tries: 4
wait: 10
verbose: true
log-level: debug
`))
	assert.NoError(t, err)

	cfg, err := ParseRawConfig(rawCfg)
	assert.NoError(t, err)
	assert.Equal(t, "dhcp.example.com", cfg.Server)
	assert.Equal(t, "192.0.2.10", cfg.Local)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 4, cfg.Tries)
	assert.Equal(t, 10*time.Second, cfg.Wait)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, log.DEBUG, cfg.LogLevel)
	assert.Equal(t, "00:11:22:33:44:55", cfg.MAC.String())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *RawConfig {
		rawCfg := DefaultRawConfig()
		rawCfg.MAC = "00:11:22:33:44:55"
		rawCfg.Server = "203.0.113.5"
		return rawCfg
	}

	tests := []struct {
		name   string
		mutate func(*RawConfig)
	}{
		{"missing_mac", func(c *RawConfig) { c.MAC = "" }},
		{"invalid_mac", func(c *RawConfig) { c.MAC = "not-a-mac" }},
		{"eui64_mac", func(c *RawConfig) { c.MAC = "00:11:22:33:44:55:66:77" }},
		{"missing_server", func(c *RawConfig) { c.Server = "" }},
		{"tries_low", func(c *RawConfig) { c.Tries = 0 }},
		{"tries_high", func(c *RawConfig) { c.Tries = 33; c.Wait = 60; c.Interval = 1 }},
		{"interval_low", func(c *RawConfig) { c.Interval = 0 }},
		{"interval_high", func(c *RawConfig) { c.Interval = 11; c.Wait = 60 }},
		{"wait_low", func(c *RawConfig) { c.Wait = 2; c.Tries = 1; c.Interval = 1 }},
		{"wait_high", func(c *RawConfig) { c.Wait = 61 }},
		{"schedule_exceeds_wait", func(c *RawConfig) { c.Tries = 5; c.Interval = 2; c.Wait = 8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rawCfg := valid()
			tt.mutate(rawCfg)
			_, err := ParseRawConfig(rawCfg)
			assert.Error(t, err)
		})
	}
}

func TestConfig_ScheduleFitsWait(t *testing.T) {
	rawCfg := DefaultRawConfig()
	rawCfg.MAC = "00:11:22:33:44:55"
	rawCfg.Server = "203.0.113.5"
	rawCfg.Tries = 4
	rawCfg.Interval = 2
	rawCfg.Wait = 8

	_, err := ParseRawConfig(rawCfg)
	assert.NoError(t, err)
}

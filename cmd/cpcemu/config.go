package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/oisee/cpc-z80/pkg/engine"
)

// runOptions is everything the run command can be told, by flag or file.
type runOptions struct {
	rom       string
	dsk       string
	dskLoad   addrValue
	start     addrValue
	clockHz   int
	throttle  bool
	irqHz     int
	logLevel  string
	snapshot  string
	resume    string
	statsview string
}

func defaultRunOptions() runOptions {
	return runOptions{
		dskLoad:  0x0100,
		clockHz:  engine.DefaultClockHz,
		throttle: true,
		logLevel: "info",
	}
}

// fileConfig is the YAML machine description read with --config. Absent
// keys leave the flag defaults alone.
type fileConfig struct {
	ROM      string     `yaml:"rom"`
	DSK      string     `yaml:"dsk"`
	DSKLoad  *addrValue `yaml:"dsk_load"`
	Start    *addrValue `yaml:"start"`
	ClockHz  int        `yaml:"clock_hz"`
	Throttle *bool      `yaml:"throttle"`
	IRQHz    *int       `yaml:"irq_hz"`
	LogLevel string     `yaml:"log_level"`
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc fileConfig
	if err := yaml.UnmarshalStrict(b, &fc); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &fc, nil
}

// merge copies file values into o for every option whose flag was not
// given on the command line.
func (o *runOptions) merge(fc *fileConfig, flags *pflag.FlagSet) {
	unset := func(name string) bool { return !flags.Changed(name) }

	if fc.ROM != "" && unset("rom") {
		o.rom = fc.ROM
	}
	if fc.DSK != "" && unset("dsk") {
		o.dsk = fc.DSK
	}
	if fc.DSKLoad != nil && unset("dsk-load") {
		o.dskLoad = *fc.DSKLoad
	}
	if fc.Start != nil && unset("start") {
		o.start = *fc.Start
	}
	if fc.ClockHz != 0 && unset("clock-hz") {
		o.clockHz = fc.ClockHz
	}
	if fc.Throttle != nil && unset("throttle") {
		o.throttle = *fc.Throttle
	}
	if fc.IRQHz != nil && unset("irq-hz") {
		o.irqHz = *fc.IRQHz
	}
	if fc.LogLevel != "" && unset("log-level") {
		o.logLevel = fc.LogLevel
	}
}

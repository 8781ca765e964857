// Package config holds the settings of a simulation experiment: how to
// generate the workload and how to run the driver.
package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math/rand"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AutoSeed as a configured seed asks for a fresh seed per invocation.
const AutoSeed int64 = -1

type GeneratorConfig struct {
	NumJobs        int     `json:"numJobs" yaml:"numJobs"`
	NumServers     int     `json:"numServers" yaml:"numServers"`
	ServerCapMin   int     `json:"serverCapMin" yaml:"serverCapMin"`
	ServerCapMax   int     `json:"serverCapMax" yaml:"serverCapMax"`
	DemandMin      int     `json:"demandMin" yaml:"demandMin"`
	DemandMax      int     `json:"demandMax" yaml:"demandMax"`
	DurationMin    int     `json:"durationMin" yaml:"durationMin"`
	DurationMax    int     `json:"durationMax" yaml:"durationMax"`
	MaxArrivalTime int     `json:"maxArrivalTime" yaml:"maxArrivalTime"`
	MisreportProb  float64 `json:"misreportProb" yaml:"misreportProb"`
	MisreportAlpha float64 `json:"misreportAlpha" yaml:"misreportAlpha"`
	Seed           int64   `json:"seed" yaml:"seed"`
}

func (g GeneratorConfig) String() string {
	return fmt.Sprintf("GeneratorConfig: jobs: %d, servers: %d, capacity: [%d, %d], demand: [%d, %d], duration: [%d, %d], "+
		"maxArrival: %d, misreportProb: %g, misreportAlpha: %g, seed: %d",
		g.NumJobs, g.NumServers, g.ServerCapMin, g.ServerCapMax, g.DemandMin, g.DemandMax,
		g.DurationMin, g.DurationMax, g.MaxArrivalTime, g.MisreportProb, g.MisreportAlpha, g.Seed)
}

type RunConfig struct {
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	TimeLimit int             `json:"timeLimit" yaml:"timeLimit"` // last simulated tick, inclusive
	BatchSize int             `json:"batchSize" yaml:"batchSize"` // ticks between scheduler batches
	NumSeeds  int             `json:"numSeeds" yaml:"numSeeds"`   // consecutive seeds to run from the base seed
	DebugMode bool            `json:"debugMode" yaml:"debugMode"` // validate server ledgers on every tick
}

func (c RunConfig) String() string {
	return fmt.Sprintf("RunConfig: timeLimit: %d, batchSize: %d, numSeeds: %d, debugMode: %t\n%s",
		c.TimeLimit, c.BatchSize, c.NumSeeds, c.DebugMode, c.Generator)
}

// DefaultConfig returns a copy of the default configuration.
func DefaultConfig() RunConfig {
	return defaultConfig
}

// GetConfig returns the built-in configuration named configSelector.
func GetConfig(configSelector string) (RunConfig, error) {
	cfg, ok := RunConfigs[configSelector]
	if !ok {
		return RunConfig{}, fmt.Errorf("invalid configuration %s, supported values are %v", configSelector, ConfigNames())
	}
	return cfg, nil
}

// ConfigNames lists the built-in configurations, sorted.
func ConfigNames() []string {
	keys := make([]string, 0, len(RunConfigs))
	for k := range RunConfigs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadFile reads a configuration file on top of the defaults, so keys
// missing from the file keep their default value. The format is picked by
// extension: .json, .yaml/.yml, anything else is read as "key = value" lines.
func LoadFile(path string) (RunConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return RunConfig{}, errors.Wrapf(err, "reading config file %s", path)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes configuration text in the format implied by ext.
func Parse(data []byte, ext string) (RunConfig, error) {
	cfg := DefaultConfig()
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = parseKeyValues(data, &cfg)
	}
	if err != nil {
		return RunConfig{}, errors.Wrapf(err, "parsing %s config", ext)
	}
	return cfg, nil
}

// parseKeyValues reads flat "key = value" lines. Blank lines, lines starting
// with '#' and lines without '=' are ignored, as are unknown keys. A value
// that does not parse leaves the current setting in place.
func parseKeyValues(data []byte, cfg *RunConfig) error {
	ints := map[string]*int{
		"numJobs":        &cfg.Generator.NumJobs,
		"numServers":     &cfg.Generator.NumServers,
		"serverCapMin":   &cfg.Generator.ServerCapMin,
		"serverCapMax":   &cfg.Generator.ServerCapMax,
		"demandMin":      &cfg.Generator.DemandMin,
		"demandMax":      &cfg.Generator.DemandMax,
		"durationMin":    &cfg.Generator.DurationMin,
		"durationMax":    &cfg.Generator.DurationMax,
		"maxArrivalTime": &cfg.Generator.MaxArrivalTime,
		"timeLimit":      &cfg.TimeLimit,
		"batchSize":      &cfg.BatchSize,
		"numSeeds":       &cfg.NumSeeds,
	}
	floats := map[string]*float64{
		"misreportProb":  &cfg.Generator.MisreportProb,
		"misreportAlpha": &cfg.Generator.MisreportAlpha,
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pos := strings.Index(line, "=")
		if pos < 0 {
			continue
		}
		key := strings.TrimSpace(line[:pos])
		value := strings.TrimSpace(line[pos+1:])

		if p, ok := ints[key]; ok {
			if v, err := strconv.Atoi(value); err == nil {
				*p = v
			}
		} else if p, ok := floats[key]; ok {
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				*p = v
			}
		} else if key == "seed" {
			if v, err := strconv.ParseInt(value, 10, 64); err == nil {
				cfg.Generator.Seed = v
			}
		} else if key == "debugMode" {
			if v, err := strconv.ParseBool(value); err == nil {
				cfg.DebugMode = v
			}
		}
	}
	return scanner.Err()
}

// Validate repairs out of range settings, replacing them with defaults, and
// returns one diagnostic per repair. Callers log the diagnostics as warnings.
func (c *RunConfig) Validate() []string {
	var diags []string
	repair := func(format string, args ...interface{}) {
		diags = append(diags, fmt.Sprintf(format, args...))
	}
	d := defaultConfig
	g := &c.Generator

	if g.NumJobs < 0 {
		repair("numJobs %d is negative, using %d", g.NumJobs, d.Generator.NumJobs)
		g.NumJobs = d.Generator.NumJobs
	}
	if g.NumServers < 0 {
		repair("numServers %d is negative, using %d", g.NumServers, d.Generator.NumServers)
		g.NumServers = d.Generator.NumServers
	}
	if g.ServerCapMin < 0 || g.ServerCapMin > g.ServerCapMax {
		repair("server capacity range [%d, %d] is invalid, using [%d, %d]",
			g.ServerCapMin, g.ServerCapMax, d.Generator.ServerCapMin, d.Generator.ServerCapMax)
		g.ServerCapMin, g.ServerCapMax = d.Generator.ServerCapMin, d.Generator.ServerCapMax
	}
	if g.DemandMin > g.DemandMax {
		repair("demand range [%d, %d] is invalid, using [%d, %d]",
			g.DemandMin, g.DemandMax, d.Generator.DemandMin, d.Generator.DemandMax)
		g.DemandMin, g.DemandMax = d.Generator.DemandMin, d.Generator.DemandMax
	}
	if g.DurationMin < 0 || g.DurationMin > g.DurationMax {
		repair("duration range [%d, %d] is invalid, using [%d, %d]",
			g.DurationMin, g.DurationMax, d.Generator.DurationMin, d.Generator.DurationMax)
		g.DurationMin, g.DurationMax = d.Generator.DurationMin, d.Generator.DurationMax
	}
	if g.MaxArrivalTime < 0 {
		repair("maxArrivalTime %d is negative, using %d", g.MaxArrivalTime, d.Generator.MaxArrivalTime)
		g.MaxArrivalTime = d.Generator.MaxArrivalTime
	}
	if g.MisreportProb < 0 || g.MisreportProb > 1 {
		repair("misreportProb %g is outside [0, 1], using %g", g.MisreportProb, d.Generator.MisreportProb)
		g.MisreportProb = d.Generator.MisreportProb
	}
	if g.MisreportAlpha < 0 {
		repair("misreportAlpha %g is negative, using %g", g.MisreportAlpha, d.Generator.MisreportAlpha)
		g.MisreportAlpha = d.Generator.MisreportAlpha
	}
	if g.Seed < AutoSeed {
		repair("seed %d is invalid, using %d", g.Seed, d.Generator.Seed)
		g.Seed = d.Generator.Seed
	}
	if c.TimeLimit < 0 {
		repair("timeLimit %d is negative, using %d", c.TimeLimit, d.TimeLimit)
		c.TimeLimit = d.TimeLimit
	}
	if c.BatchSize < 1 {
		repair("batchSize %d is below 1, using 1", c.BatchSize)
		c.BatchSize = 1
	}
	if c.NumSeeds < 1 {
		repair("numSeeds %d is below 1, using 1", c.NumSeeds)
		c.NumSeeds = 1
	}
	return diags
}

// ResolveSeed returns the base seed for a run. An AutoSeed configuration
// gets a fresh non-negative seed and auto is true.
func (c RunConfig) ResolveSeed() (seed int64, auto bool) {
	if c.Generator.Seed != AutoSeed {
		return c.Generator.Seed, false
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return (time.Now().UnixNano() ^ rng.Int63()) & 0x7fffffff, true
}

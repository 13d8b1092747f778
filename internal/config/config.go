// Package config is the YAML-serializable scenario description: a
// typed struct with yaml.v3 load/save, named presets, and
// environment-variable overrides.
package config

import (
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/dumbbellgas/internal/gas"
)

const (
	DefaultBridgeHeight   = 0.1
	DefaultCircleRadius   = 1.0
	DefaultCircleDistance = 0.5
	DefaultGateCapacity   = 3
	DefaultNumParticles   = 100
	DefaultLeftRatio      = 0.5
)

// Config is the on-disk scenario description.
type Config struct {
	NumParticles int     `yaml:"num_particles"`
	LeftRatio    float64 `yaml:"left_ratio"`

	BridgeHeight   float64 `yaml:"bridge_height"`
	CircleRadius   float64 `yaml:"circle_radius"`
	CircleDistance float64 `yaml:"circle_distance"`

	LeftGateCapacity           int  `yaml:"left_gate_capacity"`
	RightGateCapacity          int  `yaml:"right_gate_capacity"`
	GateIsFlat                 bool `yaml:"gate_is_flat"`
	ExplosionDirectionIsRandom bool `yaml:"explosion_direction_is_random"`

	DistanceAsChannelLength bool `yaml:"distance_as_channel_length"`
	ExpectedCollisions      int  `yaml:"expected_collisions"`

	// SecondLength/SecondWidth are carried for round-tripping scenario
	// files only; the two-channel variant they describe is rejected at
	// gas.Setup.
	SecondLength float64 `yaml:"second_length"`
	SecondWidth  float64 `yaml:"second_width"`

	Seed int64 `yaml:"seed"`

	WriteDt float64 `yaml:"write_dt"`
}

// DefaultConfig returns sane defaults for every scenario field.
func DefaultConfig() *Config {
	return &Config{
		NumParticles:       DefaultNumParticles,
		LeftRatio:          DefaultLeftRatio,
		BridgeHeight:       DefaultBridgeHeight,
		CircleRadius:       DefaultCircleRadius,
		CircleDistance:     DefaultCircleDistance,
		LeftGateCapacity:   DefaultGateCapacity,
		RightGateCapacity:  DefaultGateCapacity,
		ExpectedCollisions: 0,
	}
}

// Load reads a YAML scenario file, starting from DefaultConfig so an
// incomplete file still produces valid parameters.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg back out as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToGasConfig converts the scenario description into the pure-numeric
// Config consumed by gas.Setup.
func (c *Config) ToGasConfig() gas.Config {
	return gas.Config{
		NumParticles:               c.NumParticles,
		BridgeHeight:               c.BridgeHeight,
		CircleRadius:               c.CircleRadius,
		CircleDistance:             c.CircleDistance,
		LeftGateCapacity:           c.LeftGateCapacity,
		RightGateCapacity:          c.RightGateCapacity,
		ExplosionDirectionIsRandom: c.ExplosionDirectionIsRandom,
		GateIsFlat:                 c.GateIsFlat,
		DistanceAsChannelLength:    c.DistanceAsChannelLength,
		ExpectedCollisions:         c.ExpectedCollisions,
		Seed:                       c.Seed,
		SecondLength:               c.SecondLength,
		SecondWidth:                c.SecondWidth,
	}
}

// BindEnvOverrides pairs every scenario field with a DUMBBELLGAS_
// prefixed environment variable override. Call once at CLI startup;
// subsequent Load calls are unaffected (viper here only feeds explicit
// Apply calls).
func BindEnvOverrides(v *viper.Viper) {
	v.SetEnvPrefix("DUMBBELLGAS")
	v.AutomaticEnv()
	for _, key := range []string{
		"num_particles", "left_ratio", "bridge_height", "circle_radius",
		"circle_distance", "left_gate_capacity", "right_gate_capacity",
		"gate_is_flat", "explosion_direction_is_random",
		"distance_as_channel_length", "expected_collisions", "seed", "write_dt",
	} {
		_ = v.BindEnv(key)
	}
}

// ApplyEnvOverrides overwrites any field in cfg that has a corresponding
// environment override set in v.
func ApplyEnvOverrides(v *viper.Viper, cfg *Config) {
	if v.IsSet("num_particles") {
		cfg.NumParticles = v.GetInt("num_particles")
	}
	if v.IsSet("left_ratio") {
		cfg.LeftRatio = v.GetFloat64("left_ratio")
	}
	if v.IsSet("bridge_height") {
		cfg.BridgeHeight = v.GetFloat64("bridge_height")
	}
	if v.IsSet("circle_radius") {
		cfg.CircleRadius = v.GetFloat64("circle_radius")
	}
	if v.IsSet("circle_distance") {
		cfg.CircleDistance = v.GetFloat64("circle_distance")
	}
	if v.IsSet("left_gate_capacity") {
		cfg.LeftGateCapacity = v.GetInt("left_gate_capacity")
	}
	if v.IsSet("right_gate_capacity") {
		cfg.RightGateCapacity = v.GetInt("right_gate_capacity")
	}
	if v.IsSet("gate_is_flat") {
		cfg.GateIsFlat = v.GetBool("gate_is_flat")
	}
	if v.IsSet("explosion_direction_is_random") {
		cfg.ExplosionDirectionIsRandom = v.GetBool("explosion_direction_is_random")
	}
	if v.IsSet("distance_as_channel_length") {
		cfg.DistanceAsChannelLength = v.GetBool("distance_as_channel_length")
	}
	if v.IsSet("expected_collisions") {
		cfg.ExpectedCollisions = v.GetInt("expected_collisions")
	}
	if v.IsSet("seed") {
		cfg.Seed = v.GetInt64("seed")
	}
	if v.IsSet("write_dt") {
		cfg.WriteDt = v.GetFloat64("write_dt")
	}
}

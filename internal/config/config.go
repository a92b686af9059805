// Package config loads the daemon's YAML configuration: the pin map for the
// reflectance array and bump switches, acquisition timing, and the MQTT and
// HTTP endpoints. Flags in cmd/line-sensor override individual fields.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/line-sensor/internal/bump"
	"github.com/sweeney/line-sensor/internal/pinbank"
)

type Config struct {
	Sensor SensorConfig `yaml:"sensor"`
	Bump   BumpConfig   `yaml:"bump"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	HTTP   HTTPConfig   `yaml:"http"`
}

// SensorConfig describes the reflectance array wiring and timing.
type SensorConfig struct {
	// Chip is the GPIO character device name.
	Chip string `yaml:"chip"`

	// Lines are the eight sensor line offsets, rightmost sensor first.
	Lines []int `yaml:"lines"`

	// EvenEmitterLine and OddEmitterLine drive the two IR emitter banks.
	EvenEmitterLine int `yaml:"even_emitter_line"`
	OddEmitterLine  int `yaml:"odd_emitter_line"`

	// DecayWaitUs is the charge-to-sample wait in microseconds. Surface
	// dependent: shorter discriminates bright surfaces, longer dark ones.
	DecayWaitUs int `yaml:"decay_wait_us"`

	// PollMs is the acquisition cycle interval in milliseconds.
	PollMs int `yaml:"poll_ms"`

	// ConfirmCount is how many consecutive agreeing samples the line
	// tracker needs before reporting acquisition or loss.
	ConfirmCount int `yaml:"confirm_count"`
}

// BumpConfig describes the bump switch bank.
type BumpConfig struct {
	Enabled bool `yaml:"enabled"`
	// Lines are the six switch line offsets, rightmost switch first.
	Lines []int `yaml:"lines"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	HeartbeatMs int    `yaml:"heartbeat_ms"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration for the reference wiring.
func Default() Config {
	return Config{
		Sensor: SensorConfig{
			Chip:            "gpiochip0",
			Lines:           append([]int(nil), pinbank.DefaultSensorLines...),
			EvenEmitterLine: pinbank.DefaultEvenEmitterLine,
			OddEmitterLine:  pinbank.DefaultOddEmitterLine,
			DecayWaitUs:     1000,
			PollMs:          20,
			ConfirmCount:    3,
		},
		Bump: BumpConfig{
			Enabled: true,
			Lines:   append([]int(nil), bump.DefaultLines...),
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://192.168.1.200:1883",
			ClientID:    "line-sensor",
			HeartbeatMs: 15 * 60 * 1000,
		},
		HTTP: HTTPConfig{
			Addr: ":80",
		},
	}
}

// Load reads path and unmarshals it over the defaults, so a partial file
// only overrides the fields it mentions. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

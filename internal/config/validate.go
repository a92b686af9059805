package config

import (
	"fmt"

	"github.com/sweeney/line-sensor/internal/bump"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg.Sensor.Chip == "" {
		return fmt.Errorf("sensor: chip must not be empty")
	}

	if len(cfg.Sensor.Lines) != 8 {
		return fmt.Errorf("sensor: need exactly 8 lines, got %d", len(cfg.Sensor.Lines))
	}

	// All sensor, emitter, and bump lines must be distinct offsets.
	seen := make(map[int]string)
	claim := func(offset int, owner string) error {
		if offset < 0 {
			return fmt.Errorf("%s: line offset %d is negative", owner, offset)
		}
		if prev, ok := seen[offset]; ok {
			return fmt.Errorf("%s: line offset %d already used by %s", owner, offset, prev)
		}
		seen[offset] = owner
		return nil
	}

	for i, line := range cfg.Sensor.Lines {
		if err := claim(line, fmt.Sprintf("sensor %d", i)); err != nil {
			return err
		}
	}
	if err := claim(cfg.Sensor.EvenEmitterLine, "even emitters"); err != nil {
		return err
	}
	if err := claim(cfg.Sensor.OddEmitterLine, "odd emitters"); err != nil {
		return err
	}

	if cfg.Bump.Enabled {
		if len(cfg.Bump.Lines) != bump.NumSwitches {
			return fmt.Errorf("bump: need exactly %d lines, got %d", bump.NumSwitches, len(cfg.Bump.Lines))
		}
		for i, line := range cfg.Bump.Lines {
			if err := claim(line, fmt.Sprintf("bump %d", i)); err != nil {
				return err
			}
		}
	}

	if cfg.Sensor.DecayWaitUs <= 0 {
		return fmt.Errorf("sensor: decay_wait_us must be positive, got %d", cfg.Sensor.DecayWaitUs)
	}
	if cfg.Sensor.PollMs <= 0 {
		return fmt.Errorf("sensor: poll_ms must be positive, got %d", cfg.Sensor.PollMs)
	}
	if cfg.Sensor.DecayWaitUs > cfg.Sensor.PollMs*1000 {
		return fmt.Errorf("sensor: decay_wait_us %d exceeds the poll interval (%d ms)",
			cfg.Sensor.DecayWaitUs, cfg.Sensor.PollMs)
	}
	if cfg.Sensor.ConfirmCount < 1 {
		return fmt.Errorf("sensor: confirm_count must be at least 1, got %d", cfg.Sensor.ConfirmCount)
	}

	if cfg.MQTT.Broker != "" && cfg.MQTT.ClientID == "" {
		return fmt.Errorf("mqtt: client_id must not be empty when a broker is set")
	}
	if cfg.MQTT.HeartbeatMs < 0 {
		return fmt.Errorf("mqtt: heartbeat_ms must not be negative, got %d", cfg.MQTT.HeartbeatMs)
	}

	return nil
}

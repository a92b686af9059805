// Command line-sensor reads the reflectance array, estimates the robot's
// lateral offset from the line, and publishes tracking events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/line-sensor/internal/bump"
	"github.com/sweeney/line-sensor/internal/config"
	"github.com/sweeney/line-sensor/internal/mqtt"
	"github.com/sweeney/line-sensor/internal/pinbank"
	"github.com/sweeney/line-sensor/internal/position"
	"github.com/sweeney/line-sensor/internal/reflectance"
	"github.com/sweeney/line-sensor/internal/status"
	"github.com/sweeney/line-sensor/internal/track"
	"github.com/sweeney/line-sensor/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (flags override)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	decayWait := flag.Int("decay-wait", 0, "Charge-to-sample wait in microseconds (overrides config)")
	poll := flag.Duration("poll", 0, "Acquisition interval (overrides config)")
	printState := flag.Bool("print-state", false, "Take one reading, print it, and exit")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config; \"off\" disables)")

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
		cfg = loaded
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *decayWait > 0 {
		cfg.Sensor.DecayWaitUs = *decayWait
	}
	if *poll > 0 {
		cfg.Sensor.PollMs = int(poll.Milliseconds())
	}
	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
		if *httpAddr == "off" {
			cfg.HTTP.Addr = ""
		}
	}
	if err := config.Validate(&cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool) error {
	// Initialize hardware
	bank, err := pinbank.NewRealBank(cfg.Sensor.Chip, cfg.Sensor.Lines)
	if err != nil {
		return fmt.Errorf("init sensor bank: %w", err)
	}
	even, err := pinbank.NewRealOutput(cfg.Sensor.Chip, cfg.Sensor.EvenEmitterLine)
	if err != nil {
		bank.Close()
		return fmt.Errorf("init even emitters: %w", err)
	}
	odd, err := pinbank.NewRealOutput(cfg.Sensor.Chip, cfg.Sensor.OddEmitterLine)
	if err != nil {
		even.Close()
		bank.Close()
		return fmt.Errorf("init odd emitters: %w", err)
	}

	array := reflectance.New(bank, even, odd, nil)
	defer array.Close()
	if err := array.Init(); err != nil {
		return fmt.Errorf("init reflectance array: %w", err)
	}

	// Print state mode
	if printState {
		reading, err := array.Read(cfg.Sensor.DecayWaitUs)
		if err != nil {
			return fmt.Errorf("read array: %w", err)
		}
		offset, err := position.Estimate(uint8(reading))
		if err != nil {
			fmt.Printf("reading: %s, no signal\n", reading)
			return nil
		}
		fmt.Printf("reading: %s, offset: %.1f mm\n", reading, offset.Millimeters())
		return nil
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:       int64(cfg.Sensor.PollMs),
		DecayWaitUs:  int64(cfg.Sensor.DecayWaitUs),
		ConfirmCount: cfg.Sensor.ConfirmCount,
		HeartbeatMs:  int64(cfg.MQTT.HeartbeatMs),
		Broker:       cfg.MQTT.Broker,
		HTTPAddr:     cfg.HTTP.Addr,
	})

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Bump switch presses arrive on gpiocdev's event goroutine; publish and
	// count them there, off the sensing loop.
	var bumpMon bump.Monitor
	if cfg.Bump.Enabled {
		mon, err := bump.NewRealMonitor(cfg.Sensor.Chip, cfg.Bump.Lines, func(sw int) {
			tracker.AddBumpPress()
			if err := publisher.PublishBump(mqtt.BumpEvent{Timestamp: time.Now(), Switch: sw}); err != nil {
				log.Printf("bump publish error: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("init bump switches: %w", err)
		}
		defer mon.Close()
		bumpMon = mon
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	pollInterval := time.Duration(cfg.Sensor.PollMs) * time.Millisecond
	heartbeat := time.Duration(cfg.MQTT.HeartbeatMs) * time.Millisecond
	log.Printf("started: poll=%v decay-wait=%dus confirm=%d broker=%s heartbeat=%v",
		pollInterval, cfg.Sensor.DecayWaitUs, cfg.Sensor.ConfirmCount, cfg.MQTT.Broker, heartbeat)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(array, bumpMon, publisher, publisher, tracker,
		cfg.Sensor.DecayWaitUs, cfg.Sensor.ConfirmCount, heartbeat,
		time.Now, ticker.C, sigCh)
}

// runLoop is the sensing loop. Each tick runs one split-phase acquisition:
// Start charges the sensors and returns immediately; the decay wait is spent
// polling the bump bank and refreshing the status tracker; End samples.
func runLoop(array *reflectance.Array, bumpMon bump.Monitor, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, decayWaitUs, confirmCount int, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	lineTracker := track.NewTracker(confirmCount, startTime)
	lastReading := reflectance.Reading(0)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			started := now()
			session, err := array.Start()
			if err != nil {
				log.Printf("acquisition start error: %v", err)
				continue
			}

			// Useful work during the decay wait.
			if bumpMon != nil {
				if mask, err := bumpMon.Read(); err != nil {
					log.Printf("bump read error: %v", err)
				} else if tracker != nil {
					tracker.SetBump(mask)
				}
			}
			if tracker != nil && mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			// Make sure the full decay wait has elapsed before sampling.
			if remaining := time.Duration(decayWaitUs)*time.Microsecond - now().Sub(started); remaining > 0 {
				pinbank.DelayMicros(int(remaining / time.Microsecond))
			}

			reading, err := session.End()
			if err != nil {
				log.Printf("acquisition end error: %v", err)
				continue
			}
			lastReading = reading

			t := now()
			sample := track.Sample{Reading: uint8(reading), Time: t}
			offset, err := position.Estimate(uint8(reading))
			if err != nil {
				sample.NoSignal = true
			} else {
				sample.Offset = int32(offset)
			}

			if event := lineTracker.Process(sample); event != nil {
				log.Printf("event: %s (reading=%s offset=%d)", event.Type, reading, event.Offset)
				if err := publisher.Publish(*event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				lastOffset, stale, known := lineTracker.LastOffset()
				tracker.Update(lineTracker.State(), uint8(lastReading), lastOffset, known, stale,
					lineTracker.IsBaselined(), lineTracker.Counts())
			}

			if !lineTracker.IsBaselined() {
				// Still waiting for baseline
				continue
			}

			// Check for heartbeat
			if hbData := lineTracker.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v state=%s acquired=%d lost=%d samples=%d",
					hbData.Uptime, hbData.State, hbData.Counts.Acquired, hbData.Counts.Lost, hbData.Counts.Samples)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

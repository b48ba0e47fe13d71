// Command trailer-monitor polls a temperature/humidity sensor, evaluates
// threshold triggers, and publishes trigger events to MQTT.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/button"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/config"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/env"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/journal"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/mqtt"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/power"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/registry"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/sensor"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/status"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Config file path (empty to use environment and defaults)")
	printState := flag.Bool("print-state", false, "Print current readings and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config, printState bool) error {
	reader, err := sensor.NewIIOReader(cfg.Sensor.TempPath, cfg.Sensor.HumPath)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer reader.Close()

	powerSource := power.NewSysfsSource(cfg.Power.SupplyPath)

	// Print state mode
	if printState {
		reading, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		powered, err := powerSource.Powered()
		pwr := "UNKNOWN"
		if err == nil {
			pwr = poweredString(powered)
		}
		fmt.Printf("env_t: %.1f, env_h: %.1f, pwr: %s\n", reading.Temperature, reading.Humidity, pwr)
		return nil
	}

	// Trigger configuration group. Registration failure aborts startup.
	triggers := env.DefaultTriggerConfig()
	reg := registry.New()
	group, err := registerEnvTriggers(reg, &triggers)
	if err != nil {
		return fmt.Errorf("init triggers: %w", err)
	}

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:   cfg.Poll.Interval.Milliseconds(),
		LocateMs: cfg.Poll.Locate.Milliseconds(),
		Broker:   cfg.MQTT.Broker,
		HTTPAddr: cfg.HTTP.Addr,
	})
	tracker.SetTriggers(snapshotTriggers(group, &triggers))

	// Remote config subscription starts after the tracker is seeded so a
	// write arriving during startup cannot race the initial snapshot.
	if err := publisher.SubscribeConfig(func(payload []byte) {
		if err := applyConfigPayload(reg, payload); err != nil {
			log.Printf("config: %v", err)
		} else {
			log.Printf("config: applied remote update")
		}
	}); err != nil {
		log.Printf("config subscribe error: %v", err)
	}

	// Event journal
	var jnl journal.Journal
	if cfg.Journal.Enabled {
		sqlite, err := journal.NewSQLite(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("init journal: %w", err)
		}
		defer sqlite.Close()
		jnl = sqlite

		if count, err := sqlite.Count(context.Background()); err == nil {
			tracker.SetJournalCount(count)
		}
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
		srv := web.New(cfg.HTTP.Addr, tracker, reg, jnl)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	// User button (optional hardware)
	var presses <-chan time.Time
	if cfg.Button.Enabled {
		listener, err := button.NewRealListener(cfg.Button.Chip, cfg.Button.Pin, cfg.Button.Debounce)
		if err != nil {
			log.Printf("button disabled: %v", err)
		} else {
			defer listener.Close()
			presses = listener.Presses()
		}
	}

	log.Printf("started: poll=%v locate=%v broker=%s", cfg.Poll.Interval, cfg.Poll.Locate, cfg.MQTT.Broker)

	ticker := time.NewTicker(cfg.Poll.Interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopDeps{
		reader:     reader,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		triggers:   group,
		cfg:        &triggers,
		evaluator:  env.NewEvaluator(),
		power:      powerSource,
		watcher:    power.NewWatcher(),
		presses:    presses,
		journal:    jnl,
		journalAge: cfg.Journal.MaxAge,
		locate:     cfg.Poll.Locate,
		now:        time.Now,
		tick:       ticker.C,
		sig:        sigCh,
	})
}

// loopDeps carries the collaborators of runLoop so tests can substitute fakes.
type loopDeps struct {
	reader     sensor.Reader
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	triggers   *registry.Group     // env_trig group, for consistent snapshots
	cfg        *env.TriggerConfig  // bound into triggers
	evaluator  *env.Evaluator
	power      power.Source
	watcher    *power.Watcher
	presses    <-chan time.Time // nil when the button is absent
	journal    journal.Journal  // nil when the journal is disabled
	journalAge time.Duration
	locate     time.Duration
	now        func() time.Time
	tick       <-chan time.Time
	sig        <-chan os.Signal
}

func runLoop(deps loopDeps) error {
	var (
		lastReading env.Environment
		haveReading bool
		lastLocate  = deps.now()
	)

	for {
		select {
		case s := <-deps.sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: deps.now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if deps.tracker != nil {
				if deps.mqttStatus != nil {
					deps.tracker.SetMQTTConnected(deps.mqttStatus.IsConnected())
				}
				snap := deps.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := deps.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case at := <-deps.presses:
			// User button: publish the last known reading immediately.
			publishTrigger(deps, "user", at, lastReading, haveReading)

		case <-deps.tick:
			t := deps.now()

			reading, err := deps.reader.Read()
			if err != nil {
				log.Printf("sensor read error: %v", err)
				checkPower(deps, t, lastReading, haveReading)
				continue
			}
			lastReading = reading
			haveReading = true

			trig := snapshotTriggers(deps.triggers, deps.cfg)

			deps.evaluator.Evaluate(reading, trig)

			for _, ch := range []struct {
				name   string
				events uint64
			}{
				{env.TriggerTempHigh, deps.evaluator.TempHighEvents()},
				{env.TriggerTempLow, deps.evaluator.TempLowEvents()},
				{env.TriggerHumHigh, deps.evaluator.HumHighEvents()},
				{env.TriggerHumLow, deps.evaluator.HumLowEvents()},
			} {
				if ch.events == 0 {
					continue
				}
				log.Printf("event: %s (env_t=%.1f env_h=%.1f)", ch.name, reading.Temperature, reading.Humidity)
				publishTrigger(deps, ch.name, t, reading, true)
			}

			checkPower(deps, t, reading, true)

			// Periodic locate publish keeps the broker-side history alive
			// even when nothing is tripping.
			if deps.locate > 0 && t.Sub(lastLocate) >= deps.locate {
				lastLocate = t
				locateEvent := mqtt.TriggerEvent{
					Timestamp:   t,
					Trigger:     "time",
					Reading:     reading,
					HaveReading: true,
					Powered:     deps.watcher.Powered(),
				}
				if err := deps.publisher.PublishTrigger(locateEvent); err != nil {
					log.Printf("publish error: %v", err)
				}
				if deps.journal != nil && deps.journalAge > 0 {
					if err := deps.journal.Cleanup(context.Background(), deps.journalAge); err != nil {
						log.Printf("journal cleanup error: %v", err)
					}
				}
			}

			// Update status tracker for HTTP consumers
			if deps.tracker != nil {
				deps.tracker.Update(reading, deps.evaluator.Channels())
				deps.tracker.SetTriggers(trig)
				if deps.mqttStatus != nil {
					deps.tracker.SetMQTTConnected(deps.mqttStatus.IsConnected())
				}
			}
		}
	}
}

// publishTrigger sends one trigger event and journals it. haveReading is
// false for events fired before the first successful sensor read; the
// payload then omits env_t/env_h instead of reporting zeros.
func publishTrigger(deps loopDeps, name string, at time.Time, reading env.Environment, haveReading bool) {
	powered := deps.watcher.Powered()

	event := mqtt.TriggerEvent{
		Timestamp:   at,
		Trigger:     name,
		Reading:     reading,
		HaveReading: haveReading,
		Powered:     powered,
	}
	if err := deps.publisher.PublishTrigger(event); err != nil {
		log.Printf("publish error: %v", err)
		// Don't crash on publish failure
	}

	if deps.journal != nil {
		if err := deps.journal.Store(context.Background(), journal.NewEvent(name, reading, powered, at)); err != nil {
			log.Printf("journal error: %v", err)
		} else if deps.tracker != nil {
			if count, err := deps.journal.Count(context.Background()); err == nil {
				deps.tracker.SetJournalCount(count)
			}
		}
	}
}

// checkPower polls the supply and publishes pwr_l/pwr_r on transitions.
func checkPower(deps loopDeps, at time.Time, reading env.Environment, haveReading bool) {
	powered, err := deps.power.Powered()
	if err != nil {
		log.Printf("power read error: %v", err)
		return
	}

	trigger, changed := deps.watcher.Check(powered)
	if !changed {
		return
	}

	log.Printf("event: %s", trigger)
	if deps.tracker != nil {
		deps.tracker.SetPowered(powered)
	}
	publishTrigger(deps, trigger, at, reading, haveReading)
}

// snapshotTriggers copies the trigger config under the group lock so a
// remote write cannot tear a threshold/hysteresis pair mid-read.
func snapshotTriggers(g *registry.Group, cfg *env.TriggerConfig) env.TriggerConfig {
	var out env.TriggerConfig
	g.Read(func() { out = *cfg })
	return out
}

// registerEnvTriggers binds the env_trig parameter group to cfg. Threshold
// writes are clamped to the sensor's measurement range; hysteresis widths are
// clamped to the width of that range.
func registerEnvTriggers(reg *registry.Registry, cfg *env.TriggerConfig) (*registry.Group, error) {
	g := registry.NewGroup("env_trig").
		Float("envhigh", &cfg.TempHigh, env.MinTemperature, env.MaxTemperature).
		Bool("envhigh_en", &cfg.TempHighEnable).
		Bool("envhigh_latch", &cfg.TempHighLatch).
		Float("envlow", &cfg.TempLow, env.MinTemperature, env.MaxTemperature).
		Bool("envlow_en", &cfg.TempLowEnable).
		Bool("envlow_latch", &cfg.TempLowLatch).
		Float("envhyst", &cfg.TempHysteresis, 0, env.MaxTemperature-env.MinTemperature).
		Float("humhigh", &cfg.HumHigh, env.MinHumidity, env.MaxHumidity).
		Bool("humhigh_en", &cfg.HumHighEnable).
		Bool("humhigh_latch", &cfg.HumHighLatch).
		Float("humlow", &cfg.HumLow, env.MinHumidity, env.MaxHumidity).
		Bool("humlow_en", &cfg.HumLowEnable).
		Bool("humlow_latch", &cfg.HumLowLatch).
		Float("humhyst", &cfg.HumHysteresis, 0, env.MaxHumidity-env.MinHumidity)

	if err := reg.Register(g); err != nil {
		return nil, err
	}
	return g, nil
}

// applyConfigPayload applies a remote configuration message of the form
// {"env_trig": {"envhigh": 50, "envhigh_en": true}}.
func applyConfigPayload(reg *registry.Registry, payload []byte) error {
	var groups map[string]map[string]any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&groups); err != nil {
		return fmt.Errorf("invalid config payload: %w", err)
	}

	for name, values := range groups {
		if err := reg.Apply(name, values); err != nil {
			return err
		}
	}
	return nil
}

func poweredString(powered bool) string {
	if powered {
		return "EXTERNAL"
	}
	return "BATTERY"
}

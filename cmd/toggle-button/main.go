// Command toggle-button polls a push-button on a GPIO pin, debounces it into
// an on/off toggle and publishes changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/toggle-button/internal/gpio"
	"github.com/sweeney/toggle-button/internal/logic"
	"github.com/sweeney/toggle-button/internal/mqtt"
	"github.com/sweeney/toggle-button/internal/status"
	"github.com/sweeney/toggle-button/internal/web"
)

// buttonConfig describes the input being debounced.
type buttonConfig struct {
	pin       int
	debounce  time.Duration
	activeLow bool
}

func main() {
	poll := flag.Duration("poll", 5*time.Millisecond, "GPIO polling interval")
	debounce := flag.Duration("debounce", 50*time.Millisecond, "Quiet period before a level change is accepted")
	pin := flag.Int("pin", gpio.DefaultPin, "BCM pin number of the button")
	chip := flag.String("chip", gpio.DefaultChip, "GPIO chip (gpiocdev backend)")
	active := flag.String("active", "high", "Level that counts as pressed (high or low)")
	pullFlag := flag.String("pull", "down", "Input bias (up, down or none)")
	backend := flag.String("backend", "gpiocdev", "GPIO backend (gpiocdev or rpio)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	topic := flag.String("topic", mqtt.DefaultPrefix, "MQTT topic prefix")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	printState := flag.Bool("print-state", false, "Print current pin level and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	flag.Parse()

	activeLevel, err := logic.ParseLevel(*active)
	if err != nil {
		log.Fatalf("fatal: --active: %v", err)
	}
	pull, err := gpio.ParsePull(*pullFlag)
	if err != nil {
		log.Fatalf("fatal: --pull: %v", err)
	}
	if err := checkTiming(*poll, *debounce); err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *debounce < *poll {
		log.Printf("warning: debounce %v is shorter than poll %v", *debounce, *poll)
	}

	button := buttonConfig{pin: *pin, debounce: *debounce, activeLow: activeLevel == logic.Low}
	ws := resolveWSBroker(*wsBroker, *broker)
	if err := run(*poll, button, *chip, pull, *backend, *broker, *topic, *heartbeat, *printState, *httpAddr, ws); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll time.Duration, button buttonConfig, chip string, pull gpio.Pull, backend, broker, topic string, heartbeat time.Duration, printState bool, httpAddr, wsBroker string) error {
	// Initialize GPIO
	reader, err := openReader(backend, chip, button.pin, pull)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	// Print state mode
	if printState {
		level, err := reader.Read(button.pin)
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("pin %d: %s (%s)\n", button.pin, level, pressedString(level, button.activeLow))
		return nil
	}

	topics := mqtt.TopicsFor(topic)

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(broker, topics)
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Pin:         button.pin,
		ActiveLevel: activeLevelString(button.activeLow),
		Pull:        pull.String(),
		Backend:     backend,
		PollMs:      poll.Milliseconds(),
		DebounceMs:  button.debounce.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      broker,
		Topic:       topics.Events,
		HTTPPort:    httpAddr,
		WSBroker:    wsBroker,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}
	tracker.SetMQTTConnected(publisher.IsConnected())

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
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: pin=%d active=%s pull=%s backend=%s poll=%v debounce=%v broker=%s heartbeat=%v",
		button.pin, activeLevelString(button.activeLow), pull, backend, poll, button.debounce, broker, heartbeat)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, button, publisher, publisher, tracker, heartbeat, time.Now, ticker.C, sigCh)
}

func checkTiming(poll, debounce time.Duration) error {
	if poll <= 0 {
		return fmt.Errorf("--poll must be positive, got %v", poll)
	}
	if debounce < 0 {
		return fmt.Errorf("--debounce must not be negative, got %v", debounce)
	}
	return nil
}

func openReader(backend, chip string, pin int, pull gpio.Pull) (gpio.Reader, error) {
	switch backend {
	case "gpiocdev":
		r, err := gpio.NewRealReader(chip, []int{pin}, pull)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "rpio":
		r, err := gpio.NewRpioReader([]int{pin}, pull)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown backend %q (want gpiocdev or rpio)", backend)
}

// runLoop owns the Toggle: one Update per tick, events out, status in.
// The toggle's clock is the time of the current tick, so now is called once
// per tick. Until the pin has had a good read, ticks only retry the read.
func runLoop(reader gpio.Reader, button buttonConfig, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	current := startTime

	sampler := gpio.NewSampler(reader)
	toggle := logic.New(button.pin, button.debounce, sampler, logic.SinceClock(startTime, func() time.Time { return current }))
	toggle.ActiveLow = button.activeLow
	monitor := logic.NewMonitor(toggle, startTime)

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
			current = now()

			if !sampler.Ready(button.pin) {
				// No good read yet; a failed read must not become the starting level.
				sampler.ReadLevel(button.pin)
				if tracker != nil {
					tracker.SetReadErrors(sampler.Errors())
				}
				continue
			}

			events := monitor.Poll(current)

			for _, event := range events {
				log.Printf("event: %s (level=%s toggle=%s)", event.Type, event.Level, event.Toggle)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if tracker != nil {
				level, state := monitor.CurrentState()
				tracker.Update(level, state, monitor.IsBaselined(), monitor.EventCountsSnapshot())
				tracker.SetReadErrors(sampler.Errors())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if !monitor.IsBaselined() {
				// Still waiting for baseline
				continue
			}

			if hbData := monitor.CheckHeartbeat(current, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v pressed=%d released=%d toggle_on=%d toggle_off=%d",
					hbData.Uptime, hbData.Counts.Pressed, hbData.Counts.Released, hbData.Counts.ToggleOn, hbData.Counts.ToggleOff)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
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

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func activeLevelString(activeLow bool) string {
	if activeLow {
		return logic.Low.String()
	}
	return logic.High.String()
}

func pressedString(level logic.Level, activeLow bool) string {
	if (level == logic.Low) == activeLow {
		return "pressed"
	}
	return "released"
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; "off" disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}

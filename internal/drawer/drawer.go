// Package drawer actuates the cash drawer over a serial line, or simulates
// the same externally observable event sequence when no hardware is present.
// The POS never branches on which of the two is active.
package drawer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"barpos/internal/infra"
	"barpos/internal/model"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// Operating modes.
const (
	ModeHardware  = "hardware"
	ModeSimulated = "simulated"
)

// ESC/POS command sequences. Pulse and margin bytes of the open command are
// filled from the configured pulse duration at write time.
var (
	cmdClose  = []byte{0x1B, 0x70, 0x01, 0x00, 0x00}
	cmdStatus = []byte{0x1B, 0x73}
)

const (
	maxReconnectAttempts = 5
	reconnectBaseDelay   = 2 * time.Second
)

// Settings are the runtime-tunable drawer parameters, sourced from the
// app_configs row and updated via Reconfigure.
type Settings struct {
	Port          string
	BaudRate      int
	PulseMs       int
	MaxOpenMs     int
	SensorEnabled bool
	SensorPollMs  int
}

// portOpener abstracts serial.Open so tests can stub the hardware.
type portOpener func(name string, mode *serial.Mode) (serial.Port, error)

// Service drives one cash drawer. All exported methods are safe for
// concurrent use.
type Service struct {
	mu         sync.Mutex
	settings   Settings
	port       serial.Port
	simulated  bool
	forcedSim  bool // platform has no serial support — never try hardware
	drawerOpen bool

	openPort portOpener
	cb       *infra.CircuitBreaker

	listeners   []Listener
	typed       map[string][]Listener
	simCloser   *time.Timer
	sensorStop  chan struct{}
	reconnectMu sync.Mutex
	reconnlive  bool
}

// New builds a drawer service from app config. The platform decides the
// default port naming; unsupported platforms force simulation.
func New(cfg *model.AppConfig) *Service {
	s := &Service{
		openPort: serial.Open,
		cb:       infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		typed:    make(map[string][]Listener),
	}
	s.settings = settingsFrom(cfg)
	if s.settings.Port == "" {
		s.settings.Port, s.forcedSim = defaultPort()
	}
	return s
}

func settingsFrom(cfg *model.AppConfig) Settings {
	set := Settings{
		BaudRate:      cfg.DrawerBaudRate,
		PulseMs:       cfg.DrawerPulseMs,
		MaxOpenMs:     cfg.DrawerMaxOpenMs,
		SensorEnabled: cfg.DrawerSensorEnabled,
		SensorPollMs:  cfg.DrawerSensorPollMs,
	}
	if cfg.DrawerPort != nil {
		set.Port = *cfg.DrawerPort
	}
	return set
}

// defaultPort returns the platform's usual serial device name and whether
// simulation must be forced because the platform is unsupported.
func defaultPort() (string, bool) {
	switch runtime.GOOS {
	case "windows":
		return "COM1", false
	case "linux":
		return "/dev/ttyUSB0", false
	case "darwin":
		return "/dev/tty.usbserial", false
	default:
		return "simulated", true
	}
}

// ── Subscription ─────────────────────────────────────────────────────────────

// Subscribe registers a listener for every event.
func (s *Service) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SubscribeType registers a listener for a single event type.
func (s *Service) SubscribeType(eventType string, fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typed[eventType] = append(s.typed[eventType], fn)
}

func (s *Service) emit(eventType, data, errMsg string) {
	s.mu.Lock()
	ev := Event{
		Type:      eventType,
		Port:      s.settings.Port,
		Data:      data,
		Error:     errMsg,
		Timestamp: time.Now(),
	}
	generic := make([]Listener, len(s.listeners))
	copy(generic, s.listeners)
	typed := make([]Listener, len(s.typed[eventType]))
	copy(typed, s.typed[eventType])
	s.mu.Unlock()

	log.Debug().Str("event", ev.Type).Str("port", ev.Port).Str("data", ev.Data).Msg("drawer event")
	for _, fn := range generic {
		fn(ev)
	}
	for _, fn := range typed {
		fn(ev)
	}
}

// ── Connection ───────────────────────────────────────────────────────────────

// Connect acquires the serial port, falling back to simulation on any
// failure. It always emits CONNECTED — callers never branch on mode.
func (s *Service) Connect() {
	s.mu.Lock()
	forced, name, baud := s.forcedSim, s.settings.Port, s.settings.BaudRate
	s.mu.Unlock()

	if forced {
		s.enterSimulation("platform sin soporte serial")
		return
	}

	port, err := s.openPort(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		log.Warn().Err(err).Str("port", name).Msg("drawer: serial open failed, simulating")
		s.enterSimulation(err.Error())
		return
	}

	s.mu.Lock()
	if s.port != nil {
		_ = s.port.Close()
	}
	s.port = port
	s.simulated = false
	s.mu.Unlock()
	s.emit(EventConnected, ModeHardware, "")
	s.startSensorLoop()
}

func (s *Service) enterSimulation(reason string) {
	s.mu.Lock()
	if s.port != nil {
		_ = s.port.Close()
		s.port = nil
	}
	s.simulated = true
	s.mu.Unlock()
	s.emit(EventConnected, ModeSimulated, reason)
}

// Mode reports hardware or simulated.
func (s *Service) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.simulated || s.port == nil {
		return ModeSimulated
	}
	return ModeHardware
}

// Status describes the drawer for the status endpoint.
type Status struct {
	Mode         string `json:"mode"`
	Port         string `json:"port"`
	Open         bool   `json:"open"`
	CircuitState string `json:"circuit_state"`
}

func (s *Service) Status() Status {
	mode := s.Mode()
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Mode:         mode,
		Port:         s.settings.Port,
		Open:         s.drawerOpen,
		CircuitState: s.cb.State().String(),
	}
}

// ── Open ─────────────────────────────────────────────────────────────────────

// Open fires the drawer pulse. In hardware mode the open and close command
// sequences are written around the configured pulse wait; in simulation the
// state flips and auto-closes after MaxOpenMs. A hardware write failure
// degrades the pulse to simulation and starts background reconnection — Open
// itself only fails when the context is cancelled.
func (s *Service) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	simulated := s.simulated || s.port == nil
	pulse := time.Duration(s.settings.PulseMs) * time.Millisecond
	sensorEnabled := s.settings.SensorEnabled
	s.mu.Unlock()

	if simulated {
		s.simulateOpen()
		return nil
	}

	err := s.cb.Execute(func() error {
		s.mu.Lock()
		port := s.port
		s.mu.Unlock()
		if port == nil {
			return fmt.Errorf("drawer: port not connected")
		}
		if _, err := port.Write(s.openCommand()); err != nil {
			return err
		}
		time.Sleep(pulse)
		_, err := port.Write(cmdClose)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Msg("drawer: hardware pulse failed, degrading to simulation")
		s.enterSimulation(err.Error())
		s.simulateOpen()
		go s.reconnect()
		return nil
	}

	s.mu.Lock()
	s.drawerOpen = true
	s.mu.Unlock()
	s.emit(EventOpened, ModeHardware, "")

	// Without a sensor the close is assumed after the solenoid releases.
	if !sensorEnabled {
		s.mu.Lock()
		s.drawerOpen = false
		s.mu.Unlock()
		s.emit(EventClosed, ModeHardware, "")
	}
	return nil
}

// openCommand builds [ESC p 0 pulse margin] from the configured pulse
// duration (ESC/POS counts pulse time in 2ms units).
func (s *Service) openCommand() []byte {
	s.mu.Lock()
	pulseMs := s.settings.PulseMs
	s.mu.Unlock()
	pulse := pulseMs / 2
	if pulse > 0xFF {
		pulse = 0xFF
	}
	return []byte{0x1B, 0x70, 0x00, byte(pulse), 0x19}
}

func (s *Service) simulateOpen() {
	s.mu.Lock()
	if s.simCloser != nil {
		s.simCloser.Stop()
	}
	s.drawerOpen = true
	maxOpen := time.Duration(s.settings.MaxOpenMs) * time.Millisecond
	s.simCloser = time.AfterFunc(maxOpen, func() {
		s.mu.Lock()
		s.drawerOpen = false
		s.mu.Unlock()
		s.emit(EventClosed, ModeSimulated, "auto")
	})
	s.mu.Unlock()
	s.emit(EventOpened, ModeSimulated, "")
}

// ── Reconnection ─────────────────────────────────────────────────────────────

// reconnect retries the serial port with linear backoff (attempt × 2s). After
// the attempt ceiling it emits a terminal ERROR and gives up — the service
// stays in simulation until reconfigured.
func (s *Service) reconnect() {
	s.reconnectMu.Lock()
	if s.reconnlive {
		s.reconnectMu.Unlock()
		return
	}
	s.reconnlive = true
	s.reconnectMu.Unlock()

	defer func() {
		s.reconnectMu.Lock()
		s.reconnlive = false
		s.reconnectMu.Unlock()
	}()

	s.mu.Lock()
	name, baud := s.settings.Port, s.settings.BaudRate
	s.mu.Unlock()

	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		time.Sleep(time.Duration(attempt) * reconnectBaseDelay)

		port, err := s.openPort(name, &serial.Mode{BaudRate: baud})
		if err == nil {
			s.mu.Lock()
			s.port = port
			s.simulated = false
			s.mu.Unlock()
			s.emit(EventConnected, ModeHardware, fmt.Sprintf("reconectado en intento %d", attempt))
			s.startSensorLoop()
			return
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("drawer: reconnect failed")
	}
	s.emit(EventError, "", fmt.Sprintf("sin conexión tras %d intentos", maxReconnectAttempts))
}

// ── Sensor polling ───────────────────────────────────────────────────────────

// startSensorLoop polls drawer status on the configured interval and emits
// OPENED/CLOSED when the observed state changes. Hardware mode only.
func (s *Service) startSensorLoop() {
	s.mu.Lock()
	if !s.settings.SensorEnabled || s.simulated || s.port == nil {
		s.mu.Unlock()
		return
	}
	if s.sensorStop != nil {
		close(s.sensorStop)
	}
	stop := make(chan struct{})
	s.sensorStop = stop
	interval := time.Duration(s.settings.SensorPollMs) * time.Millisecond
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.pollSensor()
			}
		}
	}()
}

func (s *Service) pollSensor() {
	s.mu.Lock()
	port := s.port
	s.mu.Unlock()
	if port == nil {
		return
	}

	if _, err := port.Write(cmdStatus); err != nil {
		log.Warn().Err(err).Msg("drawer: sensor write failed")
		s.enterSimulation(err.Error())
		go s.reconnect()
		return
	}
	buf := make([]byte, 1)
	n, err := port.Read(buf)
	if err != nil || n == 0 {
		return
	}

	open := buf[0]&0x01 == 0x01
	s.mu.Lock()
	// Compare against the known drawer state so a commanded pulse does not
	// re-emit OPENED when the sensor confirms it.
	changed := open != s.drawerOpen
	s.drawerOpen = open
	s.mu.Unlock()

	if !changed {
		return
	}
	if open {
		s.emit(EventOpened, "sensor", "")
	} else {
		s.emit(EventClosed, "sensor", "")
	}
}

// ── Reconfiguration ──────────────────────────────────────────────────────────

// Reconfigure applies updated settings. A port or baud change tears down the
// current connection and reconnects.
func (s *Service) Reconfigure(cfg *model.AppConfig) {
	next := settingsFrom(cfg)

	s.mu.Lock()
	if next.Port == "" {
		next.Port = s.settings.Port
	}
	portChanged := next.Port != s.settings.Port || next.BaudRate != s.settings.BaudRate
	sensorChanged := next.SensorEnabled != s.settings.SensorEnabled ||
		next.SensorPollMs != s.settings.SensorPollMs
	s.settings = next
	s.mu.Unlock()

	if portChanged && !s.forcedSim {
		s.Connect()
	} else if sensorChanged {
		s.startSensorLoop()
	}
}

// Close releases the serial port and stops background loops.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sensorStop != nil {
		close(s.sensorStop)
		s.sensorStop = nil
	}
	if s.simCloser != nil {
		s.simCloser.Stop()
	}
	if s.port != nil {
		_ = s.port.Close()
		s.port = nil
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"

	"github.com/vulcu/terminal-commander/core"
	"github.com/vulcu/terminal-commander/host/config"
	"github.com/vulcu/terminal-commander/host/i2cbus"
	"github.com/vulcu/terminal-commander/host/serial"
	"github.com/vulcu/terminal-commander/host/simbus"
)

// loadConfig reads --config (or the defaults) and applies flag overrides
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if c.IsSet(flagDevice) {
		cfg.Serial.Device = c.String(flagDevice)
	}
	if c.IsSet(flagBaud) {
		cfg.Serial.Baud = c.Int(flagBaud)
	}
	if c.IsSet(flagBus) {
		cfg.Bus.Driver = c.String(flagBus)
	}
	if c.IsSet(flagI2C) {
		cfg.Bus.Name = c.String(flagI2C)
	}
	if c.IsSet(flagEcho) {
		cfg.Console.Echo = c.Bool(flagEcho)
	}
	if c.Bool(flagDebug) {
		cfg.Log.Level = "debug"
		cfg.Log.Debug = true
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// CheckAction validates the configuration and prints a summary
func CheckAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "config ok: device=%s bus=%s devices=%d\n",
		cfg.Serial.Device, cfg.Bus.Driver, len(cfg.Bus.Devices))
	return nil
}

// RunAction serves the console until SIGINT, SIGTERM or end of input
func RunAction(c *cli.Context) (err error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		// stdout/stderr sync fails on terminals; ignore it
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, s.Close())
	}()

	return s.serve(ctx, cfg.Console.PollInterval())
}

// session owns the open channel, bus and console of one run
type session struct {
	logger  *zap.Logger
	port    *serial.BufferedPort
	bus     core.Bus
	closers []io.Closer
	term    *core.Terminal
	started time.Time
}

func newSession(cfg *config.Config, logger *zap.Logger) (_ *session, err error) {
	s := &session{logger: logger, started: time.Now()}
	defer func() {
		if err != nil {
			err = multierr.Combine(err, s.Close())
		}
	}()

	consoleCfg, err := cfg.Console.CoreConfig(cfg.Serial.Baud)
	if err != nil {
		return nil, err
	}

	port, err := openPort(cfg.Serial)
	if err != nil {
		return nil, err
	}
	s.port = serial.NewBufferedPort(port)
	s.closers = append(s.closers, s.port)

	bus, closer, err := openBus(cfg.Bus, logger)
	if err != nil {
		return nil, err
	}
	s.bus = bus
	if closer != nil {
		s.closers = append(s.closers, closer)
	}

	s.term, err = core.NewTerminal(s.port, s.bus, consoleCfg)
	if err != nil {
		return nil, err
	}
	if err := registerHostCommands(s.term, s.port, s.started); err != nil {
		return nil, err
	}

	logger.Info("console ready",
		zap.String("device", cfg.Serial.Device),
		zap.String("bus", cfg.Bus.Driver),
		zap.Int("user_commands", s.term.Commands().Count()))
	return s, nil
}

// serve polls the console until ctx ends or the input closes
func (s *session) serve(ctx context.Context, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	s.term.Init()
	for {
		select {
		case <-ctx.Done():
			s.logStats("console stopped")
			return nil
		case <-s.port.Done():
			// run whatever arrived before the input closed
			s.term.Service()
			s.logStats("console input closed")
			if err := s.port.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("serial input failed: %w", err)
			}
			return nil
		case <-s.port.Ready():
		case <-ticker.C:
		}
		s.term.Service()
	}
}

func (s *session) logStats(msg string) {
	st := s.term.Stats()
	s.logger.Info(msg,
		zap.Uint32("lines", st.Lines),
		zap.Uint32("errors", st.Errors),
		zap.Uint32("overflows", st.Overflows),
		zap.Uint32("transactions", st.Transactions),
		zap.Int("dropped_bytes", s.port.Dropped()),
		zap.Duration("uptime", time.Since(s.started)))
}

// Close releases everything the session opened, newest first
func (s *session) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i].Close())
	}
	s.closers = nil
	return err
}

func openPort(cfg config.SerialConfig) (serial.Port, error) {
	return serial.OpenDevice(&serial.Config{
		Device:      cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeoutMs) * time.Millisecond,
	})
}

// openBus builds the configured bus. The closer is nil when nothing needs releasing.
func openBus(cfg config.BusConfig, logger *zap.Logger) (core.Bus, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverSim:
		bus := simbus.New(nil)
		for _, d := range cfg.Devices {
			dev, err := bus.AddDevice(d.Address)
			if err != nil {
				return nil, nil, err
			}
			for reg, v := range d.Registers {
				dev.Registers[reg] = v
			}
		}
		logger.Debug("simulated bus ready", zap.Int("devices", bus.Len()))
		return bus, nil, nil
	case config.DriverPeriph:
		bus, err := i2cbus.Open(cfg.Name, physic.Frequency(cfg.SpeedKHz)*physic.KiloHertz, logger)
		if err != nil {
			return nil, nil, err
		}
		return bus, bus, nil
	}
	return nil, nil, nil
}

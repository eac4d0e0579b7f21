// Package serial opens USB-CDC and UART ports.
package serial

import (
	"fmt"
	"io"
	"time"

	tarm "github.com/tarm/serial"
)

// Defaults.
const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 100 * time.Millisecond
)

// Config describes a serial port.
type Config struct {
	Name        string        `yaml:"name"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// Port wraps an opened serial port. A read timeout returns no data and
// no error.
type Port struct {
	port *tarm.Port
	name string
}

// Open opens the port described by cfg.
func Open(cfg Config) (*Port, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("serial port name required")
	}
	baud, timeout := cfg.Baud, cfg.ReadTimeout
	if baud <= 0 {
		baud = DefaultBaud
	}
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	port, err := tarm.OpenPort(&tarm.Config{
		Name:        cfg.Name,
		Baud:        baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s error: %v", cfg.Name, err)
	}
	return &Port{port: port, name: cfg.Name}, nil
}

// Name returns the device name.
func (p *Port) Name() string {
	return p.name
}

// Read implements io.Reader.
func (p *Port) Read(b []byte) (int, error) {
	n, err := p.port.Read(b)
	if err == io.EOF && n == 0 {
		return 0, nil
	}
	return n, err
}

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close implements io.Closer.
func (p *Port) Close() error {
	return p.port.Close()
}

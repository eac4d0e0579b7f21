// Package config holds the options of the gauge daemon.
//
// Values come from, in increasing precedence: built-in defaults,
// GAUGE_* environment variables, the YAML file given by -config and
// flags set explicitly on the command line.
package config

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/link/serial"
	"github.com/robotalks/gauge.go/pkg/telemetry/modbus"
	"github.com/robotalks/gauge.go/pkg/watchdog"
)

// AppID salts the machine id used as default serial number.
const AppID = "gauge.go"

// Config is the daemon configuration.
type Config struct {
	// File is the YAML file loaded by Load.
	File string `yaml:"-"`

	Serial    string `yaml:"serial"`
	StorePath string `yaml:"store"`

	USB    serial.Config `yaml:"usb"`
	Module serial.Config `yaml:"module"`
	// Listen serves the host link over websocket.
	Listen string `yaml:"listen"`

	AddrPrimary   uint8  `yaml:"addr_primary"`
	AddrSecondary uint8  `yaml:"addr_secondary"`
	AddrASCII     uint8  `yaml:"addr_ascii"`
	CheckCRC      bool   `yaml:"check_crc"`
	ASCIIMode     string `yaml:"ascii_mode"`

	WatchdogPeriod time.Duration `yaml:"watchdog_period"`
	// Release restarts on fatal errors instead of halting.
	Release bool `yaml:"release"`

	MQTTBrokerURL string        `yaml:"mqtt"`
	Modbus        modbus.Config `yaml:"modbus"`

	// Waveform of the simulated load.
	SimAmplitude float64       `yaml:"sim_amplitude"`
	SimPeriod    time.Duration `yaml:"sim_period"`
}

var defaultConfig = Config{
	StorePath:      "gauge.yaml",
	Listen:         ":8800",
	AddrPrimary:    command.AddrPrimary,
	AddrSecondary:  command.AddrSecondary,
	AddrASCII:      command.AddrASCII,
	CheckCRC:       true,
	ASCIIMode:      device.ASCIIOff.String(),
	WatchdogPeriod: watchdog.Period,
	SimAmplitude:   100,
	SimPeriod:      10 * time.Second,
	USB:            serial.Config{Baud: serial.DefaultBaud},
	Module:         serial.Config{Baud: serial.DefaultBaud},
	Modbus:         modbus.Config{Timeout: time.Second, Interval: modbus.DefaultInterval},
}

func init() {
	if val := os.Getenv("GAUGE_USB_PORT"); val != "" {
		defaultConfig.USB.Name = val
	}
	if val := os.Getenv("GAUGE_TCM_PORT"); val != "" {
		defaultConfig.Module.Name = val
	}
	if val := os.Getenv("GAUGE_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("GAUGE_CONFIG"); val != "" {
		defaultConfig.File = val
	}
}

// SetupFlags binds the default config to command line flags.
func SetupFlags() {
	defaultConfig.BindFlags(flag.CommandLine)
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// BindFlags binds c to flags of fs.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.File, "config", c.File, "YAML config file")
	fs.StringVar(&c.Serial, "serial", c.Serial, "Serial number, defaults to one derived from the machine id")
	fs.StringVar(&c.StorePath, "store", c.StorePath, "Device parameter store file")
	fs.StringVar(&c.USB.Name, "usb", c.USB.Name, "USB serial port of the host link")
	fs.IntVar(&c.USB.Baud, "usb-baud", c.USB.Baud, "USB serial baud rate")
	fs.StringVar(&c.Module.Name, "tcm", c.Module.Name, "Serial port of the module link")
	fs.IntVar(&c.Module.Baud, "tcm-baud", c.Module.Baud, "Module serial baud rate")
	fs.StringVar(&c.Listen, "listen", c.Listen, "Websocket address of the host link, empty to disable")
	fs.BoolVar(&c.CheckCRC, "crc", c.CheckCRC, "Reject frames with a bad checksum")
	fs.StringVar(&c.ASCIIMode, "ascii", c.ASCIIMode, "Text protocol: off, df3, df2w, df2o")
	fs.DurationVar(&c.WatchdogPeriod, "watchdog-period", c.WatchdogPeriod, "Watchdog supervision period")
	fs.BoolVar(&c.Release, "release", c.Release, "Restart instead of halting on fatal errors")
	fs.StringVar(&c.MQTTBrokerURL, "mqtt", c.MQTTBrokerURL, "MQTT broker URL, empty to disable telemetry")
	fs.StringVar(&c.Modbus.Endpoint, "modbus", c.Modbus.Endpoint, "Modbus TCP endpoint mirroring the reading")
	fs.Float64Var(&c.SimAmplitude, "sim-amplitude", c.SimAmplitude, "Amplitude of the simulated load")
	fs.DurationVar(&c.SimPeriod, "sim-period", c.SimPeriod, "Period of the simulated load")
}

// Load overlays the YAML file named by c.File. Flags explicitly set on fs
// keep their values.
func (c *Config) Load(fs *flag.FlagSet) error {
	if c.File == "" {
		return nil
	}
	explicit := make(map[string]string)
	if fs != nil {
		fs.Visit(func(f *flag.Flag) {
			explicit[f.Name] = f.Value.String()
		})
	}
	content, err := ioutil.ReadFile(c.File)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(content, c); err != nil {
		return fmt.Errorf("parse %s error: %v", c.File, err)
	}
	for name, val := range explicit {
		if err := fs.Set(name, val); err != nil {
			return err
		}
	}
	glog.V(1).Infof("config loaded from %s", c.File)
	return nil
}

// Validate fills derived defaults and checks the options.
func (c *Config) Validate() error {
	if c.Serial == "" {
		id, err := machineid.ProtectedID(AppID)
		if err != nil {
			return fmt.Errorf("serial number required: %v", err)
		}
		c.Serial = id[:12]
	}
	for _, addr := range []uint8{c.AddrPrimary, c.AddrSecondary} {
		if addr < command.AddrMin || addr > command.AddrMax {
			return fmt.Errorf("device address 0x%02x out of range", addr)
		}
	}
	if c.AddrPrimary == c.AddrSecondary || c.AddrASCII == c.AddrPrimary || c.AddrASCII == c.AddrSecondary {
		return fmt.Errorf("device addresses must be distinct")
	}
	if _, err := device.ParseASCIIMode(c.ASCIIMode); err != nil {
		return err
	}
	if c.WatchdogPeriod <= 0 || c.WatchdogPeriod >= watchdog.Timeout {
		return fmt.Errorf("watchdog period must be within (0, %s)", watchdog.Timeout)
	}
	if c.USB.Name == "" && c.Listen == "" {
		return fmt.Errorf("a host link is required: -usb or -listen")
	}
	if c.SimPeriod <= 0 {
		return fmt.Errorf("invalid sim period %s", c.SimPeriod)
	}
	return nil
}

// Addresses lists the addresses the command channels answer to.
func (c *Config) Addresses() []byte {
	return []byte{c.AddrPrimary, c.AddrSecondary, c.AddrASCII}
}

// Mode returns the parsed ASCII mode. Call after Validate.
func (c *Config) Mode() device.ASCIIMode {
	m, _ := device.ParseASCIIMode(c.ASCIIMode)
	return m
}

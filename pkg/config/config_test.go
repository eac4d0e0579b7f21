package config

import (
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/gauge.go/pkg/device"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"primary out of range", func(c *Config) { c.AddrPrimary = 0xf8 }, false},
		{"same addresses", func(c *Config) { c.AddrSecondary = c.AddrPrimary }, false},
		{"bad ascii mode", func(c *Config) { c.ASCIIMode = "df4" }, false},
		{"ascii mode", func(c *Config) { c.ASCIIMode = "df2w" }, true},
		{"period too long", func(c *Config) { c.WatchdogPeriod = 3 * time.Second }, false},
		{"no host link", func(c *Config) { c.Listen = "" }, false},
		{"usb only", func(c *Config) { c.Listen, c.USB.Name = "", "/dev/ttyACM0" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig()
			c.Serial = "SN0001"
			tc.modify(c)
			err := c.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestModeAndAddresses(t *testing.T) {
	c := NewConfig()
	c.ASCIIMode = "df3"
	assert.Equal(t, device.ASCIIDF3, c.Mode())
	assert.Equal(t, []byte{0x01, 0x02, 0xfe}, c.Addresses())
}

func TestLoadKeepsExplicitFlags(t *testing.T) {
	dir, err := ioutil.TempDir("", "gauge-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	file := filepath.Join(dir, "gauged.yaml")
	require.NoError(t, ioutil.WriteFile(file, []byte(`
serial: FILE01
listen: ":9000"
ascii_mode: df2o
watchdog_period: 200ms
usb:
  name: /dev/ttyACM1
  baud: 9600
modbus:
  endpoint: plc:502
  unit_id: 3
`), 0644))

	c := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", file, "-listen", ":7000"}))
	require.NoError(t, c.Load(fs))

	assert.Equal(t, "FILE01", c.Serial)
	assert.Equal(t, ":7000", c.Listen)
	assert.Equal(t, "df2o", c.ASCIIMode)
	assert.Equal(t, 200*time.Millisecond, c.WatchdogPeriod)
	assert.Equal(t, "/dev/ttyACM1", c.USB.Name)
	assert.Equal(t, 9600, c.USB.Baud)
	assert.Equal(t, "plc:502", c.Modbus.Endpoint)
	assert.Equal(t, uint8(3), c.Modbus.UnitID)
	assert.True(t, c.CheckCRC)
	require.NoError(t, c.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	c := NewConfig()
	assert.NoError(t, c.Load(nil))
	c.File = "/nonexistent/gauged.yaml"
	assert.Error(t, c.Load(nil))
}

package ascii

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/device/sim"
	"github.com/robotalks/gauge.go/pkg/device/store"
	"github.com/robotalks/gauge.go/pkg/frame"
)

func newAdapter() (*sim.Gauge, *Adapter) {
	g := sim.New(store.New(""))
	return g, New(g.Device(nil))
}

func TestHandleLineDF3(t *testing.T) {
	g, a := newAdapter()
	g.SetLoad(device.SourcePrim, 1.25)
	testCases := []struct {
		line string
		out  string
	}{
		{"?", "1.25 lbf\r\n"},
		{"IDN?", "FG-500  lbf\r\n"},
		{"ver?", sim.FirmwareVersion + "\r\n"},
		{"UNITS", "lbf\r\n"},
		{"UNITS kgf", ReplyOK},
		{"UNITS", "kgf\r\n"},
		{"UNITS furlong", ReplyNOK},
		{"STOP", ReplyNOK},
		{"START", ReplyOK},
		{"RES? 0", "0.00 kgf\r\n"},
		{"RES? 9", ReplyNOK},
		{"STOP", ReplyOK},
		{"C", ReplyNOK},
		{"", ReplyNOK},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.out, string(a.HandleLine(device.ASCIIDF3, []byte(tc.line))))
		})
	}
}

func TestHandleLineDF2(t *testing.T) {
	g, a := newAdapter()
	g.SetLoad(device.SourcePrim, 3)
	cfg := a.Device.Config
	require.True(t, cfg.SetUint32(device.K(device.ParamASCIIMode), uint32(device.ASCIIDF2W)))
	assert.Equal(t, "3.00 lbf\r\n", string(a.HandleLine(device.ASCIIDF2W, []byte("?"))))
	require.True(t, cfg.SetUint32(device.K(device.ParamASCIIMode), uint32(device.ASCIIDF2O)))
	assert.Equal(t, "3.00\r\n", string(a.HandleLine(device.ASCIIDF2O, []byte("?"))))

	assert.False(t, a.Streaming())
	assert.Equal(t, ReplyOK, string(a.HandleLine(device.ASCIIDF2O, []byte("C"))))
	assert.True(t, a.Streaming())
	assert.Equal(t, "3.00\r\n", string(a.StreamReading()))
	assert.Equal(t, ReplyOK, string(a.HandleLine(device.ASCIIDF2O, []byte("s"))))
	assert.False(t, a.Streaming())

	assert.Equal(t, ReplyOK, string(a.HandleLine(device.ASCIIDF2O, []byte("Z"))))
	assert.Equal(t, float32(0), g.ReadAdjusted(device.SourcePrim))
	assert.Equal(t, ReplyNOK, string(a.HandleLine(device.ASCIIDF2O, []byte("IDN?"))))
}

func TestResetKeyword(t *testing.T) {
	_, a := newAdapter()
	cfg := a.Device.Config
	require.True(t, cfg.SetUint32(device.K(device.ParamUnits), 4))
	for _, mode := range []device.ASCIIMode{device.ASCIIDF3, device.ASCIIDF2W} {
		assert.Equal(t, ReplyOK, string(a.HandleLine(mode, []byte(ResetKeyword))))
		assert.False(t, cfg.Bool(device.K(device.ParamProgrammed)))
		assert.Equal(t, uint32(0), cfg.Uint32(device.K(device.ParamUnits)))
	}
	assert.Equal(t, ReplyNOK, string(a.HandleLine(device.ASCIIOff, []byte("?"))))
}

func TestThroughDispatcher(t *testing.T) {
	g, a := newAdapter()
	dev := a.Device
	d := command.NewDispatcher(command.NewStandardTable(dev, nil), dev)
	d.Mode, d.Text = dev, a
	require.True(t, dev.Config.SetUint32(device.K(device.ParamASCIIMode), uint32(device.ASCIIDF3)))
	g.SetLoad(device.SourcePrim, 2)

	status, out := d.Dispatch([]byte("?\r\n"))
	assert.Equal(t, command.StatusDone, status)
	assert.Equal(t, "2.00 lbf\r\n", string(out))

	require.True(t, dev.Config.SetUint32(device.K(device.ParamASCIIMode), uint32(device.ASCIIOff)))
	_, out = d.Dispatch(frame.AppendChecksum(frame.EncodeResp(command.AddrPrimary, command.CodeAppVer, nil)))
	f, err := frame.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{command.ProtocolVerMajor, command.ProtocolVerMinor}, f.Data)
}

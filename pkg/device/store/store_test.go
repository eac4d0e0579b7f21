package store

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/gauge.go/pkg/device"
)

func TestDefaults(t *testing.T) {
	s := New("")
	require.Equal(t, uint32(device.SourcePrim), s.Uint32(device.K(device.ParamSourceLoad)))
	require.Equal(t, float32(500), s.Float32(device.ParamCapacity.Of(device.SourceAux2)))
	require.True(t, s.Bool(device.K(device.ParamBuzzer)))
	require.Equal(t, "lbf", s.String(device.ParamCalUnits.Of(device.SourcePrim)))
}

func TestSetValidation(t *testing.T) {
	s := New("")
	testCases := []struct {
		name string
		ok   bool
		set  func() bool
	}{
		{"uint in range", true, func() bool { return s.SetUint32(device.K(device.ParamDispBrightness), 50) }},
		{"uint out of range", false, func() bool { return s.SetUint32(device.K(device.ParamDispBrightness), 101) }},
		{"wrong kind", false, func() bool { return s.SetFloat32(device.K(device.ParamDispBrightness), 1) }},
		{"float in range", true, func() bool { return s.SetFloat32(device.ParamLimitHigh.At(7), 12.5) }},
		{"index out of range", false, func() bool { return s.SetFloat32(device.ParamLimitHigh.At(8), 12.5) }},
		{"string ok", true, func() bool { return s.SetString(device.ParamSerial.Of(device.SourcePrim), "SN1234") }},
		{"string too long", false, func() bool { return s.SetString(device.K(device.ParamUDUUnits), "verylongunit") }},
		{"bool", true, func() bool { return s.SetBool(device.K(device.ParamPolarity), true) }},
		{"unknown param", false, func() bool { return s.SetBool(device.K(device.NumParams), true) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.ok, tc.set())
		})
	}
	require.Equal(t, uint32(50), s.Uint32(device.K(device.ParamDispBrightness)))
	require.Equal(t, float32(0), s.Float32(device.K(device.ParamDispBrightness)))

	s.RestoreDefaults()
	require.Equal(t, uint32(80), s.Uint32(device.K(device.ParamDispBrightness)))
	require.False(t, s.Bool(device.K(device.ParamPolarity)))
}

func TestSaveLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "gauge-store")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "config.yaml")

	s, err := Load(path)
	require.NoError(t, err)
	require.True(t, s.SetUint32(device.K(device.ParamEventMask), 0x3))
	require.True(t, s.SetFloat32(device.ParamCapacity.Of(device.SourceAux1), 250.5))
	require.True(t, s.SetString(device.ParamModel.Of(device.SourcePrim), "FG-1K"))
	require.True(t, s.SetBool(device.K(device.ParamZeroOnStart), true))
	require.True(t, s.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint32(0x3), loaded.Uint32(device.K(device.ParamEventMask)))
	require.Equal(t, float32(250.5), loaded.Float32(device.ParamCapacity.Of(device.SourceAux1)))
	require.Equal(t, "FG-1K", loaded.String(device.ParamModel.Of(device.SourcePrim)))
	require.True(t, loaded.Bool(device.K(device.ParamZeroOnStart)))

	require.NoError(t, ioutil.WriteFile(path, []byte("disp_brightness: 500\nbuzzer: false\n"), 0644))
	loaded, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, uint32(80), loaded.Uint32(device.K(device.ParamDispBrightness)))
	require.False(t, loaded.Bool(device.K(device.ParamBuzzer)))
}

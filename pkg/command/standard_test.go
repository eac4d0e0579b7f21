package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/device/sim"
	"github.com/robotalks/gauge.go/pkg/frame"
)

type standardFixture struct {
	gauge  *sim.Gauge
	dev    *device.Device
	d      *Dispatcher
	events []uint32
}

func newStandardFixture() *standardFixture {
	f := &standardFixture{}
	f.gauge, f.dev = newTestGauge()
	f.d = NewDispatcher(NewStandardTable(f.dev, func(bits uint32) {
		f.events = append(f.events, bits)
	}), f.dev)
	return f
}

func (f *standardFixture) send(t *testing.T, code byte, data ...byte) *frame.Frame {
	status, out := f.d.Dispatch(sealed(AddrPrimary, code, data...))
	require.Equal(t, StatusDone, status)
	rsp, err := frame.Decode(out)
	require.NoError(t, err)
	require.Equal(t, code, rsp.Code)
	return rsp
}

func (f *standardFixture) acked(t *testing.T, code byte, data ...byte) {
	rsp := f.send(t, code, data...)
	require.True(t, rsp.IsAck(), "%s: %s", CodeName(code), rsp)
}

func (f *standardFixture) nacked(t *testing.T, exc frame.ExceptionCode, code byte, data ...byte) {
	rsp := f.send(t, code, data...)
	e, ok := rsp.Exception()
	require.True(t, ok, "%s: %s", CodeName(code), rsp)
	assert.Equal(t, exc, e, CodeName(code))
}

func cat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

func TestStandardGeneral(t *testing.T) {
	f := newStandardFixture()
	assert.Equal(t, []byte{ProtocolVerMajor, ProtocolVerMinor}, f.send(t, CodeAppVer).Data)

	rsp := f.send(t, CodeDevAddr, ArgSet, 0x10)
	assert.True(t, rsp.IsAck())
	assert.Equal(t, byte(0x10), rsp.Addr)
	f.nacked(t, frame.ExcWrongArgs, CodeDevAddr, ArgSet, 0xfa)
	assert.Equal(t, []byte{AddrPrimary}, f.send(t, CodeDevAddr, ArgGet).Data)

	f.acked(t, CodeSetTime, frame.PutUint32(1700000000)...)
	f.nacked(t, frame.ExcWrongArgs, CodeSetTime, 1, 2)
}

func TestStandardFiles(t *testing.T) {
	f := newStandardFixture()
	f.nacked(t, frame.ExcImproperEnv, CodeExportFile, []byte("none.csv")...)
	f.gauge.PutFile("empty.csv", nil)
	f.nacked(t, frame.ExcFileAccess, CodeExportFile, []byte("empty.csv")...)
	f.gauge.PutFile("a.csv", []byte("1,2,3"))
	assert.Equal(t, frame.PutUint32(5), f.send(t, CodeExportFile, []byte("a.csv")...).Data)
	assert.Equal(t, []uint32{EvtUSBExportFile}, f.events)

	f.acked(t, CodeImportFile, cat([]byte{importStart}, []byte("b.csv"))...)
	f.acked(t, CodeImportFile, cat([]byte{importWrite}, []byte("xyz"))...)
	f.acked(t, CodeImportFile, importClose)
	f.nacked(t, frame.ExcFileAccess, CodeImportFile, importClose)
	f.nacked(t, frame.ExcWrongArgs, CodeImportFile, 9)
	data, ok := f.gauge.File("b.csv")
	require.True(t, ok)
	assert.Equal(t, []byte("xyz"), data)

	long := make([]byte, MaxFileName+1)
	for i := range long {
		long[i] = 'a'
	}
	f.nacked(t, frame.ExcWrongArgs, CodeImportFile, cat([]byte{importStart}, long)...)
}

func TestStandardOperations(t *testing.T) {
	f := newStandardFixture()
	f.acked(t, CodeReset)
	f.acked(t, CodeSleep)
	assert.Equal(t, []string{"reboot", "sleep"}, f.gauge.Pending())

	f.nacked(t, frame.ExcWrongArgs, CodeDefaults, 1)
	f.acked(t, CodeDefaults, 0)

	f.nacked(t, frame.ExcNoPerm, CodeRecovery, 0, 1)
	f.nacked(t, frame.ExcWrongArgs, CodeUserAccess, 1, byte(device.UserSuper), '0')
	f.nacked(t, frame.ExcWrongArgs, CodeUserAccess, 1, byte(device.UserSuper), '9', '9', '9', '9')
	f.acked(t, CodeUserAccess, 1, byte(device.UserSuper), '0', '0', '0', '0')
	f.nacked(t, frame.ExcWrongArgs, CodeRecovery, 1, 1)
	f.nacked(t, frame.ExcWrongArgs, CodeRecovery, 0, 4)
	f.acked(t, CodeRecovery, 0, byte(device.FormatDevice))
	f.nacked(t, frame.ExcWrongArgs, CodeUpdateAxM, 3)
	f.acked(t, CodeUpdateAxM, 2)
	f.acked(t, CodeUserPass, 1, byte(device.UserAdmin), '0', '0', '0', '0', '1', '2', '3', '4')
	f.acked(t, CodeUserPass, 2, byte(device.UserAdmin), '5', '5', '5', '5')
	f.acked(t, CodeUserAccess, 2)
	f.nacked(t, frame.ExcNoPerm, CodeUpdateAxM, 1)
	assert.Equal(t, []string{"recovery 2", "update 2"}, f.gauge.Pending())

	f.acked(t, CodeCalMode, 1)
	f.nacked(t, frame.ExcGenError, CodeCalMode, 1)
	f.acked(t, CodeCalMode, 2)
	f.nacked(t, frame.ExcWrongArgs, CodeCalMode, 3)
}

func TestStandardMeasurements(t *testing.T) {
	f := newStandardFixture()
	f.gauge.SetLoad(device.SourcePrim, 2.5)
	assert.Equal(t, frame.PutInt32(2500), f.send(t, CodeReadRaw, 0).Data)
	f.nacked(t, frame.ExcWrongArgs, CodeReadRaw, 1)
	assert.Equal(t, frame.PutFloat32(2.5), f.send(t, CodeReadTrue, 0).Data)
	assert.Equal(t, frame.PutFloat32(2.5), f.send(t, CodeReadUncal, 0).Data)
	f.nacked(t, frame.ExcWrongArgs, CodeReadTrue, 3)
	f.nacked(t, frame.ExcNoImpl, CodeReadMode)
	f.nacked(t, frame.ExcNoImpl, CodeScaleFactor)

	f.gauge.SetLoad(device.SourcePrim, 1000)
	f.nacked(t, frame.ExcImproperEnv, CodeReadTrue, 0)

	cfg := f.dev.Config
	f.acked(t, CodeReadBurst, cat([]byte{0, optStart}, frame.PutUint32(200))...)
	assert.True(t, cfg.Bool(device.K(device.ParamDataComEnable)))
	assert.Equal(t, uint32(200), cfg.Uint32(device.K(device.ParamDataComTime)))
	f.nacked(t, frame.ExcWrongArgs, CodeReadBurst, cat([]byte{0, optStart}, frame.PutUint32(1))...)
	f.acked(t, CodeReadBurst, 2, optStop)
	assert.False(t, cfg.Bool(device.K(device.ParamDataComEnable)))

	f.nacked(t, frame.ExcWrongArgs, CodeLogBurst, cat([]byte{1, optStart}, frame.PutUint32(200))...)
	f.acked(t, CodeLogBurst, cat([]byte{0, optStart}, frame.PutUint32(1000))...)
	assert.True(t, cfg.Bool(device.K(device.ParamDataLogEnable)))

	f.acked(t, CodeZero, 0, byte(device.ZeroLoad))
	f.nacked(t, frame.ExcWrongArgs, CodeZero, 0, 9)
	f.nacked(t, frame.ExcImproperEnv, CodeZero, 1)
	f.gauge.SetConnected(device.SourceAux1, true)
	f.acked(t, CodeZero, 1)
	f.nacked(t, frame.ExcWrongArgs, CodeZero, 3)
}

func TestStandardInfo(t *testing.T) {
	f := newStandardFixture()
	assert.Equal(t, "FG-500  lbf", string(f.send(t, CodeIdn, 0).Data))
	f.gauge.SetBootloader(device.SourceAux1, true)
	assert.Equal(t, BootloaderIdentity, string(f.send(t, CodeIdn, 1).Data))
	assert.Equal(t, sim.FirmwareVersion, string(f.send(t, CodeVerFw, 0).Data))

	f.acked(t, CodeSerial, cat([]byte{0, ArgSet}, []byte("SN42\x00\x00"))...)
	assert.Equal(t, "SN42", string(f.send(t, CodeSerial, 0, ArgGet).Data))
	f.nacked(t, frame.ExcNoImpl, CodeSerial, cat([]byte{1, ArgSet}, []byte("X"))...)
	f.nacked(t, frame.ExcWrongArgs, CodeModel, 3, ArgGet)

	f.acked(t, CodeUnits, cat([]byte{0, ArgSet}, []byte("N"))...)
	assert.Equal(t, "N", string(f.send(t, CodeUnits, 2, ArgGet).Data))
	f.nacked(t, frame.ExcWrongArgs, CodeUnits, cat([]byte{0, ArgSet}, []byte("furlong"))...)

	f.acked(t, CodeCapacity, cat([]byte{0, ArgSet}, frame.PutFloat32(250))...)
	assert.Equal(t, frame.PutFloat32(250), f.send(t, CodeCapacity, 0, ArgGet).Data)

	f.acked(t, CodeCalPoint, cat([]byte{0, ArgSet, 3}, frame.PutFloat32(12.5))...)
	assert.Equal(t, frame.PutFloat32(12.5), f.send(t, CodeCalPoint, 0, ArgGet, 3).Data)
	f.nacked(t, frame.ExcWrongArgs, CodeCalPoint, 0, ArgGet, device.NumCalPoints)

	f.acked(t, CodePolarity, ArgSet, 1)
	assert.Equal(t, []byte{1}, f.send(t, CodePolarity, ArgGet).Data)
	f.nacked(t, frame.ExcWrongArgs, CodePolarity, ArgSet, 2)
	f.nacked(t, frame.ExcWrongArgs, CodePolarity, ArgDefault)

	f.acked(t, CodeFeatureEn, featureLockHome, ArgSet, 1)
	assert.True(t, f.dev.Config.Bool(device.K(device.ParamLockHome)))
	f.nacked(t, frame.ExcWrongArgs, CodeFeatureEn, 4, ArgGet)

	assert.Equal(t, []byte{0x01}, f.send(t, CodeConnSrcs).Data)
	f.gauge.SetConnected(device.SourceAux2, true)
	assert.Equal(t, []byte{0x05}, f.send(t, CodeConnSrcs).Data)
}

func TestStandardOverloads(t *testing.T) {
	f := newStandardFixture()
	f.acked(t, CodeSetTime, frame.PutUint32(77)...)
	f.gauge.SetLoad(device.SourcePrim, 600)
	assert.Equal(t, frame.PutUint32(1), f.send(t, CodeOverloadNum, 0, ArgGet).Data)
	assert.Equal(t, cat([]byte{0}, frame.PutFloat32(600), frame.PutUint32(77)),
		f.send(t, CodeOverloadRec, 0, ArgGet, 0).Data)
	f.nacked(t, frame.ExcWrongArgs, CodeOverloadRec, 0, ArgGet, 1)
	f.nacked(t, frame.ExcWrongArgs, CodeOverloadNum, cat([]byte{0, ArgSet}, frame.PutUint32(1))...)
	f.acked(t, CodeOverloadNum, cat([]byte{0, ArgSet}, frame.PutUint32(0))...)
	assert.Equal(t, frame.PutUint32(0), f.send(t, CodeOverloadNum, 0, ArgGet).Data)
}

func TestStandardTesting(t *testing.T) {
	f := newStandardFixture()
	assert.Equal(t, []byte{0}, f.send(t, CodeTestSource, ArgGet, testSourceLoad).Data)
	assert.Equal(t, []byte{0}, f.send(t, CodeTestSource, ArgGet, testSourceExtension).Data)
	f.nacked(t, frame.ExcNoImpl, CodeTestSource, ArgGet, 3)
	f.nacked(t, frame.ExcNoImpl, CodeTestSource, ArgDefault)
	f.nacked(t, frame.ExcWrongArgs, CodeTestSource, ArgSet, testSourceLoad, 3)
	f.acked(t, CodeTestSource, ArgSet, testSourceLoad, 1)
	assert.Equal(t, device.SourceAux1, f.dev.SourceLoad())

	// the auxiliary source is not connected
	f.nacked(t, frame.ExcImproperEnv, CodeTestStart)
	f.acked(t, CodeTestSource, ArgSet, testSourceLoad, 0)
	f.nacked(t, frame.ExcImproperEnv, CodeTestStop)
	f.acked(t, CodeTestStart)
	assert.True(t, f.gauge.RunByHost())
	f.gauge.Track(8)
	assert.Equal(t, frame.PutFloat32(8), f.send(t, CodeTestResult, ArgGet, 0).Data)
	f.nacked(t, frame.ExcWrongArgs, CodeTestResult, ArgGet, device.NumResults)
	f.acked(t, CodeTestStop)
	f.nacked(t, frame.ExcImproperEnv, CodeTestStop)

	f.gauge.SetDFX(true)
	f.nacked(t, frame.ExcImproperEnv, CodeTestStart)
	f.gauge.SetDFX(false)

	f.acked(t, CodeUseGaugeParams, 1)
	f.nacked(t, frame.ExcWrongArgs, CodeUseGaugeParams, 2)

	f.acked(t, CodeTestLmtEn, ArgSet, 2, 1, 2)
	assert.Equal(t, []byte{1, 2}, f.send(t, CodeTestLmtEn, ArgGet, 2).Data)
	f.nacked(t, frame.ExcWrongArgs, CodeTestLmtEn, ArgSet, 2, 1, 9)
	f.nacked(t, frame.ExcWrongArgs, CodeTestLmtEn, ArgGet, device.NumResults)

	f.acked(t, CodeTestLmtHSP, cat([]byte{ArgSet, 4}, frame.PutFloat32(99.5))...)
	assert.Equal(t, frame.PutFloat32(99.5), f.send(t, CodeTestLmtHSP, ArgGet, 4).Data)
	f.nacked(t, frame.ExcWrongArgs, CodeTestLmtHSP, ArgGet)

	f.acked(t, CodeLoadAvgTimeout, cat([]byte{ArgSet}, frame.PutUint32(30))...)
	assert.Equal(t, frame.PutUint32(30), f.send(t, CodeLoadAvgTimeout, ArgGet).Data)

	f.acked(t, CodeTestCfgCurr, ArgSet, 4)
	assert.Equal(t, []byte{4}, f.send(t, CodeTestCfgCurr, ArgGet).Data)
	f.acked(t, CodeTestCfgCurr, ArgDefault, 4)
	assert.Equal(t, []byte{0, 0}, f.send(t, CodeTestLmtEn, ArgGet, 2).Data)
	f.nacked(t, frame.ExcWrongArgs, CodeTestCfgCurr, ArgSet, device.NumTestCfgs)
}

func TestStandardEvents(t *testing.T) {
	f := newStandardFixture()
	f.nacked(t, frame.ExcNoImpl, CodeEvent)
	f.acked(t, CodeEvtMask, cat([]byte{ArgSet}, frame.PutUint32(EvtUSBTestStop))...)
	assert.Equal(t, frame.PutUint32(EvtUSBTestStop), f.send(t, CodeEvtMask, ArgGet).Data)
}

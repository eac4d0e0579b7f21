package sim

import (
	"github.com/robotalks/gauge.go/pkg/device"
)

// Zero implements device.Tester.
func (g *Gauge) Zero(opt device.ZeroOption) {
	g.lock.Lock()
	defer g.lock.Unlock()
	load := g.Config.Uint32(device.K(device.ParamSourceLoad))
	switch opt {
	case device.ZeroSourcePrim, device.ZeroSourceAux1, device.ZeroSourceAux2:
		i := int(opt - device.ZeroSourcePrim)
		g.zeroOffset[i] = g.loads[i]
		return
	}
	s := device.Source(load)
	if !s.IsValid() {
		return
	}
	switch opt {
	case device.ZeroLoad, device.ZeroAll, device.ZeroLoadExtension, device.ZeroLoadResults:
		g.zeroOffset[idx(s)] = g.loads[idx(s)]
	}
	switch opt {
	case device.ZeroResults, device.ZeroAll, device.ZeroReset,
		device.ZeroLoadResults, device.ZeroExtensionResults:
		g.results = [device.NumResults]float32{}
		g.tBreak, g.cBreak = 0, 0
	}
}

// Start implements device.Tester.
func (g *Gauge) Start() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.testing || g.calibrating {
		return false
	}
	g.testing = true
	g.runByHost = false
	g.results = [device.NumResults]float32{}
	return true
}

// Stop implements device.Tester.
func (g *Gauge) Stop() bool {
	g.lock.Lock()
	if !g.testing {
		g.lock.Unlock()
		return false
	}
	g.testing, g.runByHost = false, false
	g.lock.Unlock()
	g.notify(EventTestStop)
	return true
}

// Testing tells if a test is running.
func (g *Gauge) Testing() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.testing
}

// RunByHost implements device.Tester.
func (g *Gauge) RunByHost() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.runByHost
}

// SetRunByHost implements device.Tester.
func (g *Gauge) SetRunByHost() {
	g.lock.Lock()
	g.runByHost = true
	g.lock.Unlock()
}

// ErrorConditions implements device.Tester.
func (g *Gauge) ErrorConditions() bool {
	load := device.Source(g.Config.Uint32(device.K(device.ParamSourceLoad)))
	g.lock.Lock()
	defer g.lock.Unlock()
	if !load.IsValid() {
		return true
	}
	return !g.connected[idx(load)] || g.overloaded[idx(load)] || g.calibrating
}

// Result implements device.Tester.
func (g *Gauge) Result(i uint8) float32 {
	g.lock.Lock()
	defer g.lock.Unlock()
	if int(i) < len(g.results) {
		return g.results[i]
	}
	return 0
}

// SetUseHostConfig implements device.Tester.
func (g *Gauge) SetUseHostConfig(on bool) {
	g.lock.Lock()
	g.useHost = on
	g.lock.Unlock()
}

// TensionBreak implements device.Tester.
func (g *Gauge) TensionBreak() float32 {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.tBreak
}

// CompressionBreak implements device.Tester.
func (g *Gauge) CompressionBreak() float32 {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.cBreak
}

// NormalReading implements device.Tester.
func (g *Gauge) NormalReading() float32 {
	return g.ReadAdjusted(device.Source(g.Config.Uint32(device.K(device.ParamSourceLoad))))
}

// Track feeds a reading into the running test. Results hold the peak
// tension and compression, and a drop below the break trigger after
// exceeding it records a break.
func (g *Gauge) Track(v float32) {
	var ev []Event
	g.lock.Lock()
	if g.testing {
		if v > g.results[0] {
			g.results[0] = v
		}
		if v < g.results[1] {
			g.results[1] = v
		}
		if g.Config.Bool(device.K(device.ParamBreakEnable)) {
			trigger := g.Config.Float32(device.K(device.ParamBreakTrigger))
			drop := g.Config.Float32(device.K(device.ParamBreakDrop)) / 100
			if peak := g.results[0]; g.tBreak == 0 && peak > trigger && v < peak*(1-drop) {
				g.tBreak = peak
				ev = append(ev, EventTensionBreak)
			}
			if peak := -g.results[1]; g.cBreak == 0 && peak > trigger && -v < peak*(1-drop) {
				g.cBreak = -peak
				ev = append(ev, EventCompressionBreak)
			}
		}
	}
	g.lock.Unlock()
	for _, e := range ev {
		g.notify(e)
	}
}

// LoadTestConfig implements device.Tester.
func (g *Gauge) LoadTestConfig(i uint8) bool {
	if i >= device.NumTestCfgs || g.Testing() {
		return false
	}
	return g.Config.SetUint32(device.K(device.ParamTestCfgIdx), uint32(i))
}

// ResetTestConfig implements device.Tester.
func (g *Gauge) ResetTestConfig(i uint8) bool {
	if i >= device.NumTestCfgs || g.Testing() {
		return false
	}
	cfg := g.Config
	for r := uint8(0); r < device.NumResults; r++ {
		cfg.SetBool(device.ParamLimitEnable.At(r), false)
		cfg.SetUint32(device.ParamLimitMethod.At(r), 0)
	}
	return cfg.SetUint32(device.K(device.ParamTestCfgStart), 0) &&
		cfg.SetUint32(device.K(device.ParamTestCfgStop), 0)
}

// SaveTestConfig implements device.Tester.
func (g *Gauge) SaveTestConfig(i uint8) bool {
	if i >= device.NumTestCfgs {
		return false
	}
	return g.Config.Save()
}

package sim

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/device"
)

// Versions reported by the simulated hardware.
const (
	FirmwareVersion = "1.4.0"
	HardwareVersion = "C"
)

// CurrentUser implements device.Users.
func (g *Gauge) CurrentUser() device.User {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.user
}

// SetAccess implements device.Users.
func (g *Gauge) SetAccess(user device.User, pass string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	pin, ok := g.pins[user]
	if !ok || pin != pass {
		return false
	}
	g.user = user
	return true
}

// ClearAccess implements device.Users.
func (g *Gauge) ClearAccess() {
	g.lock.Lock()
	g.user = device.UserNormal
	g.lock.Unlock()
}

// SetPin implements device.Users.
func (g *Gauge) SetPin(user device.User, oldPin, newPin string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	pin, ok := g.pins[user]
	if !ok || pin != oldPin || len(newPin) != len(DefaultPin) {
		return false
	}
	g.pins[user] = newPin
	return true
}

// ResetPin implements device.Users. Only a super user may reset pins.
func (g *Gauge) ResetPin(user device.User, pin string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if _, ok := g.pins[user]; !ok || g.user != device.UserSuper || len(pin) != len(DefaultPin) {
		return false
	}
	g.pins[user] = pin
	return true
}

// Sleeping implements device.System.
func (g *Gauge) Sleeping() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.sleeping
}

// SetTime implements device.System.
func (g *Gauge) SetTime(epoch uint32) bool {
	g.lock.Lock()
	g.epoch = epoch
	g.lock.Unlock()
	return true
}

func (g *Gauge) request(what string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.testing {
		return false
	}
	g.pending = append(g.pending, what)
	glog.Infof("request %s", what)
	return true
}

// RequestReboot implements device.System.
func (g *Gauge) RequestReboot() bool {
	return g.request("reboot")
}

// RequestSleep implements device.System.
func (g *Gauge) RequestSleep() bool {
	return g.request("sleep")
}

// RequestBootloader implements device.System.
func (g *Gauge) RequestBootloader() bool {
	return g.request("bootloader")
}

// SetCommActive implements device.System.
func (g *Gauge) SetCommActive() {
	g.lock.Lock()
	g.commActive++
	g.lock.Unlock()
}

// StartCalibration implements device.System.
func (g *Gauge) StartCalibration() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.calibrating || g.testing {
		return false
	}
	g.calibrating = true
	return true
}

// StopCalibration implements device.System.
func (g *Gauge) StopCalibration() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if !g.calibrating {
		return false
	}
	g.calibrating = false
	return true
}

// RequestRecovery implements device.System.
func (g *Gauge) RequestRecovery(target device.FormatTarget) {
	g.request(fmt.Sprintf("recovery %d", target))
}

// RequestUpdate implements device.System.
func (g *Gauge) RequestUpdate(module int) {
	if g.request(fmt.Sprintf("update %d", module)) {
		g.lock.Lock()
		g.updateStat = 0
		g.lock.Unlock()
		g.notify(EventUpdateStatus)
	}
}

// FirmwareVersion implements device.System.
func (g *Gauge) FirmwareVersion(s device.Source) string {
	if s != device.SourcePrim && g.InBootloader(s) {
		return "boot"
	}
	return FirmwareVersion
}

// HardwareVersion implements device.System.
func (g *Gauge) HardwareVersion(device.Source) string {
	return HardwareVersion
}

// UpdateStatus implements device.System.
func (g *Gauge) UpdateStatus() int32 {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.updateStat
}

// IsDFX implements device.System.
func (g *Gauge) IsDFX() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.dfx
}

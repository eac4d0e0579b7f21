package daemon

import (
	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/device/sim"
)

// eventBits maps a gauge event to the host and module event bits.
var eventBits = map[sim.Event]struct{ usb, tcm uint32 }{
	sim.EventOverload:         {command.EvtUSBOverload, command.EvtTCMTensionOverload},
	sim.EventTensionBreak:     {command.EvtUSBTensionBreak, command.EvtTCMTensionBreak},
	sim.EventCompressionBreak: {command.EvtUSBCompressionBreak, command.EvtTCMCompressionBreak},
	sim.EventTestStop:         {command.EvtUSBTestStop, command.EvtTCMTestStop},
	sim.EventBootError:        {command.EvtUSBBootError, 0},
	sim.EventUpdateStatus:     {command.EvtUSBUpdateStatus, 0},
}

func (d *Daemon) notify(ev sim.Event) {
	bits, ok := eventBits[ev]
	if !ok {
		return
	}
	if bits.usb != 0 {
		d.Pipeline.PostUSBEvent(bits.usb)
	}
	if bits.tcm != 0 {
		d.Pipeline.PostModuleEvent(bits.tcm)
	}
}

package mqtt

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/com"
	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/fault"
	"github.com/robotalks/gauge.go/pkg/framework"
	"github.com/robotalks/gauge.go/pkg/telemetry/msgs"
	"github.com/robotalks/gauge.go/pkg/watchdog"
)

// Topics under the device root.
const (
	TopicInfo    = "info"
	TopicReading = "reading"
	TopicEvent   = "event"
	TopicStatus  = "status"
	TopicCommand = "cmd"
	TopicReply   = "rsp"
)

// Defaults.
const (
	DefaultStatusInterval = time.Second
	PublishQueueSize      = 64
)

// Broker publishes payloads. Queue implements it.
type Broker interface {
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
}

type publication struct {
	topic  string
	msg    msgs.Message
	retain bool
}

// Bridge publishes readings, events and health of a gauge, and executes
// command frames received on its command topic.
type Bridge struct {
	Broker Broker
	// Root is the topic root of this gauge, usually its serial number.
	Root   string
	Device *device.Device
	// Commands executes remote frames. Optional.
	Commands *command.Dispatcher
	// Monitor, Faults and Pipeline feed the status report. Optional.
	Monitor  *watchdog.Monitor
	Faults   *fault.Sink
	Pipeline *com.Pipeline

	StatusInterval time.Duration

	pubCh      chan publication
	cmdLock    sync.Mutex
	dropped    uint64
	lastStatus time.Time
}

// NewBridge creates a Bridge.
func NewBridge(broker Broker, root string, dev *device.Device) *Bridge {
	return &Bridge{
		Broker:         broker,
		Root:           root,
		Device:         dev,
		StatusInterval: DefaultStatusInterval,
		pubCh:          make(chan publication, PublishQueueSize),
	}
}

// Attach makes q the broker, publishes the device info on every connect
// and subscribes the command topic.
func (b *Bridge) Attach(q *Queue) {
	b.Broker = q
	q.OnConnect = func(*Queue) { b.PublishInfo() }
	q.Sub(b.Topic(TopicCommand), Handler(b.HandleCommand))
}

// Topic returns the full topic of name under Root.
func (b *Bridge) Topic(name string) string {
	return b.Root + "/" + name
}

// Dropped returns the number of messages dropped on a full queue.
func (b *Bridge) Dropped() uint64 {
	return atomic.LoadUint64(&b.dropped)
}

// TapSample implements com.Tap.
func (b *Bridge) TapSample(s device.Sample) {
	b.enqueue(TopicReading, b.reading(s), false)
}

// TapEvent implements com.Tap.
func (b *Bridge) TapEvent(c com.Channel, bit uint32) {
	name := command.USBEventName(bit)
	if c == com.ChannelModule {
		name = command.TCMEventName(bit)
	}
	b.enqueue(TopicEvent, &msgs.Event{
		Channel:   c.String(),
		Bit:       bit,
		Name:      name,
		Timestamp: time.Now().UnixNano(),
	}, false)
}

func (b *Bridge) reading(s device.Sample) *msgs.Reading {
	cfg := b.Device.Config
	src := s.Source
	if !src.IsValid() {
		src = device.SourcePrim
	}
	unit := device.UnitName(cfg.Uint32(device.K(device.ParamUnits)))
	factor := device.ConvFactor(cfg.String(device.ParamCalUnits.Of(src)), unit)
	return &msgs.Reading{
		Source:    uint32(src.Offset()),
		Value:     s.Reading * factor,
		Unit:      unit,
		Timestamp: time.Now().UnixNano(),
	}
}

func (b *Bridge) enqueue(topic string, msg msgs.Message, retain bool) {
	select {
	case b.pubCh <- publication{topic: topic, msg: msg, retain: retain}:
	default:
		atomic.AddUint64(&b.dropped, 1)
	}
}

// Info builds the device info message.
func (b *Bridge) Info() *msgs.DeviceInfo {
	cfg := b.Device.Config
	return &msgs.DeviceInfo{
		Serial:   cfg.String(device.ParamSerial.Of(device.SourcePrim)),
		Model:    cfg.String(device.ParamModel.Of(device.SourcePrim)),
		Firmware: b.Device.System.FirmwareVersion(device.SourcePrim),
		Hardware: b.Device.System.HardwareVersion(device.SourcePrim),
	}
}

// PublishInfo queues the retained device info.
func (b *Bridge) PublishInfo() {
	b.enqueue(TopicInfo, b.Info(), true)
}

// Status builds the health report.
func (b *Bridge) Status() *msgs.Status {
	status := &msgs.Status{Timestamp: time.Now().UnixNano()}
	if m := b.Monitor; m != nil {
		for w, s := range m.Snapshot() {
			status.Workers = append(status.Workers, &msgs.WorkerStatus{
				Worker: watchdog.Worker(w).String(),
				State:  s.String(),
			})
		}
		status.Refreshes, status.Skipped = m.Refreshes(), m.Skipped()
	}
	if b.Faults != nil {
		status.Faults = b.Faults.Codes()
	}
	if b.Pipeline != nil {
		status.RxDropped = b.Pipeline.RxDropped()
	}
	return status
}

// HandleCommand is the handler of the command topic. The payload is a
// Typed CommandFrame, the response is published as a CommandReply.
func (b *Bridge) HandleCommand(topic string, payload []byte) {
	if b.Commands == nil {
		return
	}
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		glog.Warningf("%s: bad message: %v", topic, err)
		return
	}
	msg, err := typed.Decode()
	if err != nil {
		glog.Warningf("%s: decode error: %v", topic, err)
		return
	}
	req, ok := msg.(*msgs.CommandFrame)
	if !ok {
		glog.Warningf("%s: unexpected message %T", topic, msg)
		return
	}
	b.cmdLock.Lock()
	status, rsp := b.Commands.Dispatch(req.Frame)
	b.cmdLock.Unlock()
	if status != command.StatusDone {
		glog.Warningf("%s: incomplete frame % x", topic, req.Frame)
		return
	}
	if len(rsp) > 0 {
		b.enqueue(TopicReply, &msgs.CommandReply{Frame: rsp}, false)
	}
}

// Control implements framework.Controller. It queues a status report
// every StatusInterval.
func (b *Bridge) Control(ctx framework.ControlContext) error {
	now := ctx.Time()
	interval := b.StatusInterval
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	if now.Sub(b.lastStatus) < interval {
		return nil
	}
	b.lastStatus = now
	b.enqueue(TopicStatus, b.Status(), false)
	return nil
}

// AddToLoop installs the status report and the publisher.
func (b *Bridge) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvLow, b)
	l.AddRunnable(b)
}

// Run implements framework.Runnable. It publishes queued messages.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p := <-b.pubCh:
			b.publish(p)
		}
	}
}

func (b *Bridge) publish(p publication) {
	data, err := msgs.Encode(p.msg)
	if err != nil {
		glog.Errorf("encode %s error: %v", p.topic, err)
		return
	}
	token := b.Broker.PubWith(b.Topic(p.topic), data, 0, p.retain)
	if token.Wait() && token.Error() != nil {
		glog.Warningf("publish %s error: %v", p.topic, token.Error())
	}
}

package msgs

import "github.com/golang/protobuf/proto"

// TypeID Groups
const (
	GroupGauge   uint32 = 0x00100000
	GroupCommand uint32 = 0x00110000
)

// TypeIDs
const (
	ReadingTypeID      uint32 = TypeIDKindEvent | GroupGauge | 0x0001
	EventTypeID        uint32 = TypeIDKindEvent | GroupGauge | 0x0002
	StatusTypeID       uint32 = TypeIDKindEvent | GroupGauge | 0x0003
	DeviceInfoTypeID   uint32 = TypeIDKindEvent | GroupGauge | 0x0004
	CommandFrameTypeID uint32 = GroupCommand | 0x0001
	CommandReplyTypeID uint32 = CommandFrameTypeID | TypeIDMaskReply
)

// Reading is a burst reading converted to the display unit.
type Reading struct {
	Source    uint32  `protobuf:"varint,1,opt,name=source,proto3" json:"source,omitempty"`
	Value     float32 `protobuf:"fixed32,2,opt,name=value,proto3" json:"value,omitempty"`
	Unit      string  `protobuf:"bytes,3,opt,name=unit,proto3" json:"unit,omitempty"`
	Timestamp int64   `protobuf:"varint,4,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// NewMessage implements Message.
func (m *Reading) NewMessage() Message { return &Reading{} }

// TypeID implements Message.
func (m *Reading) TypeID() uint32 { return ReadingTypeID }

// ProtoMessage implements proto.Message.
func (m *Reading) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Reading) Reset() { *m = Reading{} }

// String implements proto.Message.
func (m *Reading) String() string { return proto.CompactTextString(m) }

// Event is an event delivered on one of the command links.
type Event struct {
	Channel   string `protobuf:"bytes,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Bit       uint32 `protobuf:"varint,2,opt,name=bit,proto3" json:"bit,omitempty"`
	Name      string `protobuf:"bytes,3,opt,name=name,proto3" json:"name,omitempty"`
	Timestamp int64  `protobuf:"varint,4,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// NewMessage implements Message.
func (m *Event) NewMessage() Message { return &Event{} }

// TypeID implements Message.
func (m *Event) TypeID() uint32 { return EventTypeID }

// ProtoMessage implements proto.Message.
func (m *Event) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Event) Reset() { *m = Event{} }

// String implements proto.Message.
func (m *Event) String() string { return proto.CompactTextString(m) }

// WorkerStatus is the liveness state of one worker.
type WorkerStatus struct {
	Worker string `protobuf:"bytes,1,opt,name=worker,proto3" json:"worker,omitempty"`
	State  string `protobuf:"bytes,2,opt,name=state,proto3" json:"state,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *WorkerStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *WorkerStatus) Reset() { *m = WorkerStatus{} }

// String implements proto.Message.
func (m *WorkerStatus) String() string { return proto.CompactTextString(m) }

// Status is the periodic health report.
type Status struct {
	Workers   []*WorkerStatus `protobuf:"bytes,1,rep,name=workers,proto3" json:"workers,omitempty"`
	Refreshes uint64          `protobuf:"varint,2,opt,name=refreshes,proto3" json:"refreshes,omitempty"`
	Skipped   uint64          `protobuf:"varint,3,opt,name=skipped,proto3" json:"skipped,omitempty"`
	Faults    []byte          `protobuf:"bytes,4,opt,name=faults,proto3" json:"faults,omitempty"`
	RxDropped uint64          `protobuf:"varint,5,opt,name=rx_dropped,json=rxDropped,proto3" json:"rx_dropped,omitempty"`
	Timestamp int64           `protobuf:"varint,6,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// NewMessage implements Message.
func (m *Status) NewMessage() Message { return &Status{} }

// TypeID implements Message.
func (m *Status) TypeID() uint32 { return StatusTypeID }

// ProtoMessage implements proto.Message.
func (m *Status) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// DeviceInfo is published retained when the bridge connects.
type DeviceInfo struct {
	Serial   string `protobuf:"bytes,1,opt,name=serial,proto3" json:"serial,omitempty"`
	Model    string `protobuf:"bytes,2,opt,name=model,proto3" json:"model,omitempty"`
	Firmware string `protobuf:"bytes,3,opt,name=firmware,proto3" json:"firmware,omitempty"`
	Hardware string `protobuf:"bytes,4,opt,name=hardware,proto3" json:"hardware,omitempty"`
}

// NewMessage implements Message.
func (m *DeviceInfo) NewMessage() Message { return &DeviceInfo{} }

// TypeID implements Message.
func (m *DeviceInfo) TypeID() uint32 { return DeviceInfoTypeID }

// ProtoMessage implements proto.Message.
func (m *DeviceInfo) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DeviceInfo) Reset() { *m = DeviceInfo{} }

// String implements proto.Message.
func (m *DeviceInfo) String() string { return proto.CompactTextString(m) }

// CommandFrame carries a sealed command frame sent remotely.
type CommandFrame struct {
	Frame []byte `protobuf:"bytes,1,opt,name=frame,proto3" json:"frame,omitempty"`
}

// NewMessage implements Message.
func (m *CommandFrame) NewMessage() Message { return &CommandFrame{} }

// TypeID implements Message.
func (m *CommandFrame) TypeID() uint32 { return CommandFrameTypeID }

// ProtoMessage implements proto.Message.
func (m *CommandFrame) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandFrame) Reset() { *m = CommandFrame{} }

// String implements proto.Message.
func (m *CommandFrame) String() string { return proto.CompactTextString(m) }

// CommandReply carries the sealed response to a CommandFrame.
type CommandReply struct {
	Frame []byte `protobuf:"bytes,1,opt,name=frame,proto3" json:"frame,omitempty"`
}

// NewMessage implements Message.
func (m *CommandReply) NewMessage() Message { return &CommandReply{} }

// TypeID implements Message.
func (m *CommandReply) TypeID() uint32 { return CommandReplyTypeID }

// ProtoMessage implements proto.Message.
func (m *CommandReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandReply) Reset() { *m = CommandReply{} }

// String implements proto.Message.
func (m *CommandReply) String() string { return proto.CompactTextString(m) }

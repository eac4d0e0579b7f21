package sh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/frame"
)

func TestFormatFrame(t *testing.T) {
	assert.Equal(t, "OK", FormatFrame(&frame.Frame{Code: command.CodeZero, Data: []byte{0}}))
	assert.Equal(t, "APPVER 01 02", FormatFrame(&frame.Frame{Code: command.CodeAppVer, Data: []byte{1, 2}}))
}

func TestFormatEvent(t *testing.T) {
	f := &frame.Frame{Code: command.CodeEvent, Data: frame.PutUint32(command.EvtUSBOverload)}
	assert.Equal(t, "EVENT "+command.USBEventName(command.EvtUSBOverload), FormatEvent(f))

	data := append(frame.PutUint32(command.EvtUSBTensionBreak), frame.PutFloat32(2.5)...)
	f = &frame.Frame{Code: command.CodeEvent, Data: data}
	assert.Equal(t, "EVENT "+command.USBEventName(command.EvtUSBTensionBreak)+" 2.5", FormatEvent(f))

	f = &frame.Frame{Code: command.CodeAppVer}
	assert.Contains(t, FormatEvent(f), "unsolicited")
}

func TestParseHex(t *testing.T) {
	b, err := ParseHex([]string{"01", "21", "0100"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x21, 0x01, 0x00}, b)
	_, err = ParseHex([]string{"zz"})
	assert.Error(t, err)
}

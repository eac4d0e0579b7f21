package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccumulatorBinary(t *testing.T) {
	for n := 0; n <= MaxDataLen; n++ {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i + 1)
		}
		sealed := AppendChecksum(EncodeResp(0x01, 0x20, data))
		var acc Accumulator
		for i, b := range sealed {
			st := acc.Accumulate(b)
			if i+1 < 4+n {
				require.Equalf(t, Processing, st, "len %d prefix %d", n, i+1)
			} else {
				require.Equalf(t, Complete, st, "len %d at %d", n, i+1)
			}
		}
		require.Equal(t, sealed, acc.Bytes())
		acc.Reset()
		require.Equal(t, 0, acc.Len())
	}
}

func TestAccumulatorASCII(t *testing.T) {
	acc := Accumulator{ASCII: true}
	for _, b := range []byte("DF3RST\r") {
		require.Equal(t, Processing, acc.Accumulate(b))
	}
	require.Equal(t, Complete, acc.Accumulate('\n'))
	require.Equal(t, "DF3RST\r\n", string(acc.Bytes()))

	acc.Reset()
	require.Equal(t, Processing, acc.Accumulate('\n'))
	acc.Reset()
	require.Equal(t, Processing, acc.Accumulate('\r'))
	require.Equal(t, Complete, acc.Accumulate('\n'))
}

func TestAccumulatorOverflow(t *testing.T) {
	acc := Accumulator{ASCII: true}
	for i := 0; i < MaxDataLen+MinLen; i++ {
		require.Equal(t, Processing, acc.Accumulate('x'))
	}
	require.Equal(t, Error, acc.Accumulate('x'))
	require.Equal(t, MaxDataLen+MinLen, acc.Len())
}

func TestFrameLen(t *testing.T) {
	require.Equal(t, 0, FrameLen([]byte{0x01, 0x02}))
	require.Equal(t, 4, FrameLen([]byte{0x01, 0x02, 0x00}))
	require.Equal(t, 9, FrameLen([]byte{0x01, 0x02, 0x05, 0x00}))
}

package frame

import "github.com/sigurn/crc8"

var crcTable = crc8.MakeTable(crc8.CRC8)

// Checksum calculates the CRC-8 of b.
func Checksum(b []byte) byte {
	return crc8.Checksum(b, crcTable)
}

// AppendChecksum appends the CRC-8 of b to b.
func AppendChecksum(b []byte) []byte {
	return append(b, Checksum(b))
}

// ChecksumValid checks the trailing byte of a complete frame.
func ChecksumValid(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	crc := crc8.Init(crcTable)
	crc = crc8.Update(crc, b[:len(b)-1], crcTable)
	return crc8.Complete(crc, crcTable) == b[len(b)-1]
}

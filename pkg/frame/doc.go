// Package frame provides the binary framing used between the gauge and its hosts.
package frame

// A binary frame is laid out as
//
//	[address][function code][data length][data ...][crc8]
//
// The checksum covers every byte before it. Multi-byte values inside the
// data are carried in the native byte order of the gauge, there is no
// byte order negotiation with the host.
//
// In ASCII mode a frame is a text line terminated by CR LF and carries
// no checksum.

// Package link connects byte streams to the communication pipeline.
//
// A Pump reads whatever the stream delivers and hands it to a Receiver,
// usually Pipeline.ReceiveUSB or Pipeline.ReceiveModule, and implements
// the transmit side of a port. Transports live in sub packages.
package link

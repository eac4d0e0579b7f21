// Package msgs defines the telemetry messages published by a gauge.
//
// Every payload is a Typed envelope whose TypeId selects the message
// carried in its Message bytes.
//
// Producer: gauged
// Consumer: gaugemon, dashboards
package msgs

// Package device implements the custom-mode session protocol: handshake,
// slot pre-selection, ack-gated page writes and correlated page reads, all
// serialized over a single timing-sensitive MIDI link supplied as a
// Transport.
package device

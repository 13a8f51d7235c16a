// Package sysex implements the Launch Control XL3 custom-mode wire format:
// page payload encode/decode, the two control-record layouts, label and color
// records, and the builders/parsers for every SysEx message the device
// exchanges during custom-mode transfers. Everything here is pure and
// stateless; session sequencing lives in internal/device.
package sysex

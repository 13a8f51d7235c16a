package sysex

import "errors"

var (
	ErrMalformedPage = errors.New("sysex: malformed page")
	ErrNameTooLong   = errors.New("sysex: name exceeds 18 bytes")
	ErrLabelTooLong  = errors.New("sysex: label exceeds 15 bytes")
	ErrBadControlID  = errors.New("sysex: control id out of range")
	ErrNotSysEx      = errors.New("sysex: not a sysex frame")
	ErrWrongVendor   = errors.New("sysex: vendor prefix mismatch")
)

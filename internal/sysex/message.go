package sysex

import (
	"bytes"
	"fmt"
)

// frame wraps a command payload in F0 + vendor prefix ... F7.
func frame(parts ...[]byte) []byte {
	out := []byte{SysExStart}
	out = append(out, vendorPrefix...)
	for _, p := range parts {
		out = append(out, p...)
	}
	return append(out, SysExEnd)
}

// body strips the frame delimiters and vendor prefix from an inbound message.
func body(msg []byte) ([]byte, error) {
	if len(msg) < 2 || msg[0] != SysExStart || msg[len(msg)-1] != SysExEnd {
		return nil, ErrNotSysEx
	}
	inner := msg[1 : len(msg)-1]
	if len(inner) < len(vendorPrefix) || !bytes.Equal(inner[:len(vendorPrefix)], vendorPrefix) {
		return nil, ErrWrongVendor
	}
	return inner[len(vendorPrefix):], nil
}

// HandshakeSyn builds the connection probe sent on connect.
func HandshakeSyn() []byte {
	return frame(cmdHandshakeSyn)
}

// ParseHandshakeSyn matches the connection probe. Device side, for tests.
func ParseHandshakeSyn(msg []byte) bool {
	b, err := body(msg)
	return err == nil && bytes.Equal(b, cmdHandshakeSyn)
}

// HandshakeAck builds a SYN-ACK carrying the unit serial number. Device
// side, for tests.
func HandshakeAck(serial string) []byte {
	return frame([]byte{cmdHandshakeSynAck}, []byte(serial))
}

// ParseHandshakeAck matches a SYN-ACK and returns the unit serial number
// carried as ASCII after the command byte.
func ParseHandshakeAck(msg []byte) (serial string, ok bool) {
	b, err := body(msg)
	if err != nil || len(b) < 1 || b[0] != cmdHandshakeSynAck {
		return "", false
	}
	return string(b[1:]), true
}

// ReadRequest builds a page read request for a slot.
func ReadRequest(page, slot byte) []byte {
	return frame(cmdReadRequest, []byte{page, slot})
}

// ParseReadResponse matches a page read response and returns its selector,
// slot and raw page payload.
func ParseReadResponse(msg []byte) (page, slot byte, payload []byte, ok bool) {
	b, err := body(msg)
	if err != nil || len(b) < 3 || b[0] != cmdReadResponse {
		return 0, 0, nil, false
	}
	return b[1], b[2], b[3:], true
}

// ReadResponse builds a page read response. The device side of the protocol,
// used by the simulated device in tests.
func ReadResponse(page, slot byte, payload []byte) []byte {
	return frame([]byte{cmdReadResponse, page, slot}, payload)
}

// WriteRequest builds a page write request for a slot.
func WriteRequest(page, slot byte, payload []byte) []byte {
	return frame(cmdWriteRequest, []byte{page, slot}, payload)
}

// ParseWriteRequest matches a page write request. Device side, for tests.
func ParseWriteRequest(msg []byte) (page, slot byte, payload []byte, ok bool) {
	b, err := body(msg)
	if err != nil || len(b) < len(cmdWriteRequest)+2 || !bytes.Equal(b[:len(cmdWriteRequest)], cmdWriteRequest) {
		return 0, 0, nil, false
	}
	rest := b[len(cmdWriteRequest):]
	return rest[0], rest[1], rest[2:], true
}

// WriteAck builds a write acknowledgement. Device side, for tests.
func WriteAck(page, status byte) []byte {
	return frame([]byte{cmdWriteAck, page, status})
}

// ParseWriteAck matches a write acknowledgement.
func ParseWriteAck(msg []byte) (page, status byte, ok bool) {
	b, err := body(msg)
	if err != nil || len(b) != 3 || b[0] != cmdWriteAck {
		return 0, 0, false
	}
	return b[1], b[2], true
}

// TemplateChange builds the slot-selection command that makes a slot the
// device's active one.
func TemplateChange(slot byte) []byte {
	return frame([]byte{cmdTemplateChange, slot})
}

// ParseTemplateChange matches a template change. Device side, for tests.
func ParseTemplateChange(msg []byte) (slot byte, ok bool) {
	b, err := body(msg)
	if err != nil || len(b) != 2 || b[0] != cmdTemplateChange {
		return 0, false
	}
	return b[1], true
}

// ParseReadRequest matches a page read request. Device side, for tests.
func ParseReadRequest(msg []byte) (page, slot byte, ok bool) {
	b, err := body(msg)
	if err != nil || len(b) != len(cmdReadRequest)+2 || !bytes.Equal(b[:len(cmdReadRequest)], cmdReadRequest) {
		return 0, 0, false
	}
	return b[len(cmdReadRequest)], b[len(cmdReadRequest)+1], true
}

// AuxSlotBurst returns the note-on / control-change / note-off sequence that
// selects a slot via the auxiliary control-surface port. The CC value is the
// slot offset from one of two bases split at the bank boundary.
func AuxSlotBurst(slot int) ([][]byte, error) {
	if slot < SlotMin || slot > SlotMax {
		return nil, fmt.Errorf("sysex: aux slot %d out of range", slot)
	}
	var cc byte
	if slot < auxSlotBankSplit {
		cc = auxSlotBaseLow + byte(slot)
	} else {
		cc = auxSlotBaseHigh + byte(slot-auxSlotBankSplit)
	}
	return [][]byte{
		{0x90 | auxChannel, auxNote, auxVelocity},
		{0xB0 | auxChannel, auxCC, cc},
		{0x80 | auxChannel, auxNote, 0x00},
	}, nil
}

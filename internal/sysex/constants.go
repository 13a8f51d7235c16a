package sysex

// SysEx frame delimiters.
const (
	SysExStart byte = 0xF0
	SysExEnd   byte = 0xF7
)

// Vendor prefix carried after 0xF0 on every message: 4-byte manufacturer id
// followed by the 1-byte device id for the Launch Control XL3.
var vendorPrefix = []byte{0x00, 0x20, 0x29, 0x02, 0x15}

// Command bytes following the vendor prefix.
var (
	cmdHandshakeSyn = []byte{0x01, 0x00}
	cmdReadRequest  = []byte{0x05, 0x00, 0x40}
	cmdWriteRequest = []byte{0x05, 0x00, 0x45}
)

const (
	cmdHandshakeSynAck byte = 0x02
	cmdReadResponse    byte = 0x10
	cmdWriteAck        byte = 0x15
	cmdTemplateChange  byte = 0x77
)

// Write-ack status bytes. 0x06 is the only accepted status; 0x09 has been
// captured when the target slot was not the device's active slot.
const (
	StatusAccepted      byte = 0x06
	StatusSlotNotActive byte = 0x09
)

// Page payload framing.
var pageMarker = []byte{0x01, 0x20}

var pageReserved = []byte{0x00, 0x00, 0x00}

// Page selector bytes. Page A carries control ids 0x10-0x27, page B 0x28-0x3F.
const (
	PageA byte = 0x00
	PageB byte = 0x03
)

// Control id space. 48 controls, split across the two pages.
const (
	ControlIDMin  byte = 0x10
	ControlIDMax  byte = 0x3F
	PageBFirstID  byte = 0x28
	ControlsPage  int  = 24
	ControlsTotal int  = 48
)

// Name field limits. Length byte 0x1F marks a factory (immutable) mode; no
// name bytes follow it.
const (
	NameLenMax      = 18
	nameFactoryByte = 0x1F
)

// Control-definition records. Read responses use the 11-byte layout headed by
// 0x48; write requests use the 10-byte compact layout headed by 0x49. The 0x40
// mid-record marker sits between the behavior and min-value bytes in both.
const (
	readRecordMarker  byte = 0x48
	writeRecordMarker byte = 0x49
	recordDefType     byte = 0x02
	recordMidMarker   byte = 0x40
	readRecordLen          = 11
	writeRecordLen         = 10
)

// Label records: marker = 0x60 + length (length 0-15), then id, then ASCII.
// Color records: 0x78, id, color byte.
const (
	labelMarkerBase byte = 0x60
	LabelLenMax          = 15
	colorMarker     byte = 0x78
)

// On page B the device numbers label records for controls 0x28-0x2B one id
// low (0x27-0x2A). Wire id 0x2B never occurs. Firmware quirk, reproduced
// as-is on both encode and decode.
const (
	labelQuirkWireLo byte = 0x27
	labelQuirkWireHi byte = 0x2A
)

// Slots: 15 user-writable custom mode locations.
const (
	SlotMin = 0
	SlotMax = 14
)

// Aux-port slot selection burst: note-on, CC, note-off on the control-surface
// port. The CC value addresses the slot from one of two bases depending on
// which side of the bank boundary the slot falls.
const (
	auxChannel       byte = 0x0F
	auxNote          byte = 0x0C
	auxVelocity      byte = 0x7F
	auxCC            byte = 0x1E
	auxSlotBaseLow   byte = 0x68
	auxSlotBaseHigh  byte = 0x78
	auxSlotBankSplit      = 8
)

package sysex

import "fmt"

// ControlRecord is one control definition as it appears on the wire. All
// fields are single 7-bit bytes; the format has no multi-byte integers.
type ControlRecord struct {
	ID       byte
	Type     byte
	Channel  byte
	Behavior byte
	Min      byte
	CC       byte
	Max      byte
}

// RecordLayout selects between the two control-record shapes: the 11-byte
// layout returned in read responses and the 10-byte compact layout sent in
// write requests. Which one is canonical varies by firmware revision, so both
// are first-class.
type RecordLayout int

const (
	ReadLayout RecordLayout = iota
	WriteLayout
)

func (l RecordLayout) marker() byte {
	if l == WriteLayout {
		return writeRecordMarker
	}
	return readRecordMarker
}

func (l RecordLayout) stride() int {
	if l == WriteLayout {
		return writeRecordLen
	}
	return readRecordLen
}

func appendControl(dst []byte, r ControlRecord, layout RecordLayout) []byte {
	dst = append(dst, layout.marker(), r.ID, recordDefType, r.Type, r.Channel, r.Behavior,
		recordMidMarker, r.Min, r.CC, r.Max)
	if layout == ReadLayout {
		dst = append(dst, 0x00)
	}
	return dst
}

// decodeControlAt parses the record at a fixed offset. Records are located by
// offset and stride only; scanning forward for marker values would misparse
// as soon as a data byte (min value in particular) happens to equal 0x48.
func decodeControlAt(data []byte, off int, layout RecordLayout) (ControlRecord, error) {
	stride := layout.stride()
	if off+stride > len(data) {
		return ControlRecord{}, fmt.Errorf("%w: truncated control record at offset %d", ErrMalformedPage, off)
	}
	rec := data[off : off+stride]
	if rec[0] != layout.marker() {
		return ControlRecord{}, fmt.Errorf("%w: control record marker 0x%02X at offset %d", ErrMalformedPage, rec[0], off)
	}
	if !validControlID(rec[1]) {
		return ControlRecord{}, fmt.Errorf("%w: control id 0x%02X", ErrMalformedPage, rec[1])
	}
	if rec[2] != recordDefType || rec[6] != recordMidMarker {
		return ControlRecord{}, fmt.Errorf("%w: control record structure at offset %d", ErrMalformedPage, off)
	}
	return ControlRecord{
		ID:       rec[1],
		Type:     rec[3],
		Channel:  rec[4],
		Behavior: rec[5],
		Min:      rec[7],
		CC:       rec[8],
		Max:      rec[9],
	}, nil
}

// IsBlank reports whether the record is the all-zero placeholder written for
// unconfigured positions.
func (r ControlRecord) IsBlank() bool {
	return r.Type == 0 && r.Channel == 0 && r.Behavior == 0 && r.Min == 0 && r.CC == 0 && r.Max == 0
}

// LabelRecord is one control's text label. ID is the control id in model
// space (after quirk correction), not the raw wire id.
type LabelRecord struct {
	ID   byte
	Text string
}

// ColorRecord assigns an LED color code to a control.
type ColorRecord struct {
	ID    byte
	Color byte
}

func appendLabel(dst []byte, page byte, l LabelRecord) ([]byte, error) {
	if len(l.Text) > LabelLenMax {
		return nil, fmt.Errorf("%w: %q", ErrLabelTooLong, l.Text)
	}
	dst = append(dst, encodeLabelLen(len(l.Text)), labelWireID(page, l.ID))
	return append(dst, l.Text...), nil
}

func appendColor(dst []byte, c ColorRecord) []byte {
	return append(dst, colorMarker, c.ID, c.Color)
}

// labelWireID maps a control id to the id byte written in its label record.
// Page B labels for controls 0x28-0x2B are numbered one low by the firmware.
func labelWireID(page, id byte) byte {
	if page == PageB && id > labelQuirkWireLo && id <= labelQuirkWireHi+1 {
		return id - 1
	}
	return id
}

// labelModeID is the inverse mapping applied while decoding.
func labelModeID(page, wire byte) byte {
	if page == PageB && wire >= labelQuirkWireLo && wire <= labelQuirkWireHi {
		return wire + 1
	}
	return wire
}

package sysex

import (
	"bytes"
	"fmt"
)

// Page is the on-wire unit of a custom mode: one of two halves, each carrying
// 24 control records plus the annotation (label/color) section. Pages exist
// only between a CustomMode value and the wire; they are never persisted.
type Page struct {
	Selector byte
	Name     string
	Factory  bool

	// Controls holds exactly 24 records in ascending control-id order.
	// Unconfigured positions are blank records with the id still set.
	Controls [ControlsPage]ControlRecord

	Labels []LabelRecord
	Colors []ColorRecord
}

// EncodePage serializes a page. The layout picks between the read-response
// and write-request record shapes. Encoding is deterministic: the same page
// always produces byte-identical output.
func EncodePage(p *Page, layout RecordLayout) ([]byte, error) {
	if p.Selector != PageA && p.Selector != PageB {
		return nil, fmt.Errorf("%w: page selector 0x%02X", ErrMalformedPage, p.Selector)
	}

	out := make([]byte, 0, 6+1+NameLenMax+ControlsPage*readRecordLen+len(p.Labels)*(2+LabelLenMax)+len(p.Colors)*3)
	out = append(out, pageMarker...)
	out = append(out, p.Selector)
	out = append(out, pageReserved...)

	var err error
	out, err = appendName(out, p.Name, p.Factory)
	if err != nil {
		return nil, err
	}

	lo, hi := PageRange(p.Selector)
	for i, rec := range p.Controls {
		want := lo + byte(i)
		if rec.ID != want {
			return nil, fmt.Errorf("%w: control record %d has id 0x%02X, want 0x%02X", ErrMalformedPage, i, rec.ID, want)
		}
		out = appendControl(out, rec, layout)
	}

	for _, l := range p.Labels {
		if l.ID < lo || l.ID > hi {
			return nil, fmt.Errorf("%w: label id 0x%02X on page 0x%02X", ErrBadControlID, l.ID, p.Selector)
		}
		out, err = appendLabel(out, p.Selector, l)
		if err != nil {
			return nil, err
		}
	}
	for _, c := range p.Colors {
		if c.ID < lo || c.ID > hi {
			return nil, fmt.Errorf("%w: color id 0x%02X on page 0x%02X", ErrBadControlID, c.ID, p.Selector)
		}
		out = appendColor(out, c)
	}
	return out, nil
}

// DecodePage parses a page payload. The fixed header and all 24 control
// records must be structurally intact; the annotation section ends at the
// first terminator condition and anything after it is padding, since device
// responses may be padded out to a minimum SysEx length.
func DecodePage(data []byte, layout RecordLayout) (*Page, error) {
	if len(data) < len(pageMarker)+1+len(pageReserved) {
		return nil, fmt.Errorf("%w: short page header", ErrMalformedPage)
	}
	if !bytes.Equal(data[:2], pageMarker) {
		return nil, fmt.Errorf("%w: page marker % 02X", ErrMalformedPage, data[:2])
	}
	p := &Page{Selector: data[2]}
	if p.Selector != PageA && p.Selector != PageB {
		return nil, fmt.Errorf("%w: page selector 0x%02X", ErrMalformedPage, p.Selector)
	}
	if !bytes.Equal(data[3:6], pageReserved) {
		return nil, fmt.Errorf("%w: reserved bytes % 02X", ErrMalformedPage, data[3:6])
	}

	name, factory, n, err := decodeName(data[6:])
	if err != nil {
		return nil, err
	}
	p.Name, p.Factory = name, factory

	off := 6 + n
	lo, _ := PageRange(p.Selector)
	stride := layout.stride()
	for i := 0; i < ControlsPage; i++ {
		rec, err := decodeControlAt(data, off, layout)
		if err != nil {
			return nil, err
		}
		if rec.ID != lo+byte(i) {
			return nil, fmt.Errorf("%w: control record %d out of order (id 0x%02X)", ErrMalformedPage, i, rec.ID)
		}
		p.Controls[i] = rec
		off += stride
	}

	decodeAnnotations(p, data[off:])
	return p, nil
}

// decodeAnnotations scans label and color records until a terminator
// condition: a marker byte outside both record families, an id byte outside
// the control-id space, or truncation. None of these are errors.
func decodeAnnotations(p *Page, data []byte) {
	off := 0
	for off < len(data) {
		m := data[off]
		switch {
		case m == colorMarker:
			if off+3 > len(data) || !validControlID(data[off+1]) {
				return
			}
			p.Colors = append(p.Colors, ColorRecord{ID: data[off+1], Color: data[off+2]})
			off += 3
		default:
			l, ok := decodeLabelLen(m)
			if !ok || off+2+l > len(data) {
				return
			}
			wire := data[off+1]
			if !validControlID(wire) {
				return
			}
			p.Labels = append(p.Labels, LabelRecord{
				ID:   labelModeID(p.Selector, wire),
				Text: string(data[off+2 : off+2+l]),
			})
			off += 2 + l
		}
	}
}

package sysex

import "fmt"

// appendName appends the length-prefixed mode name field. Factory modes carry
// the 0x1F sentinel length and no name bytes.
func appendName(dst []byte, name string, factory bool) ([]byte, error) {
	if factory {
		return append(dst, nameFactoryByte), nil
	}
	if len(name) > NameLenMax {
		return nil, fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}
	dst = append(dst, byte(len(name)))
	return append(dst, name...), nil
}

// decodeName reads a name field at the start of data and returns the name,
// the factory flag and the number of bytes consumed. A length byte above 18
// that is not the factory sentinel is malformed: name fields, unlike label
// markers, are never a soft terminator.
func decodeName(data []byte) (name string, factory bool, n int, err error) {
	if len(data) == 0 {
		return "", false, 0, fmt.Errorf("%w: missing name field", ErrMalformedPage)
	}
	l := data[0]
	if l == nameFactoryByte {
		return "", true, 1, nil
	}
	if l > NameLenMax {
		return "", false, 0, fmt.Errorf("%w: name length byte 0x%02X", ErrMalformedPage, l)
	}
	if len(data) < 1+int(l) {
		return "", false, 0, fmt.Errorf("%w: truncated name field", ErrMalformedPage)
	}
	return string(data[1 : 1+int(l)]), false, 1 + int(l), nil
}

// encodeLabelLen offsets a raw label length into the marker byte space.
func encodeLabelLen(n int) byte {
	return labelMarkerBase + byte(n)
}

// decodeLabelLen recovers a label length from a marker byte. ok is false when
// the byte is outside the marker range, which terminates the label section
// rather than failing the decode.
func decodeLabelLen(b byte) (n int, ok bool) {
	if b < labelMarkerBase || b > labelMarkerBase+LabelLenMax {
		return 0, false
	}
	return int(b - labelMarkerBase), true
}

// validControlID reports whether id addresses one of the 48 controls.
func validControlID(id byte) bool {
	return id >= ControlIDMin && id <= ControlIDMax
}

// PageFor returns the page selector owning a control id.
func PageFor(id byte) byte {
	if id < PageBFirstID {
		return PageA
	}
	return PageB
}

// PageRange returns the first and last control id carried by a page.
func PageRange(page byte) (lo, hi byte) {
	if page == PageA {
		return ControlIDMin, PageBFirstID - 1
	}
	return PageBFirstID, ControlIDMax
}

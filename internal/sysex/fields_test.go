package sysex

import (
	"errors"
	"strings"
	"testing"
)

func TestNameFieldRoundTrip(t *testing.T) {
	for n := 0; n <= NameLenMax; n++ {
		name := strings.Repeat("A", n)
		enc, err := appendName(nil, name, false)
		if err != nil {
			t.Fatalf("encode name len %d: %v", n, err)
		}
		got, factory, consumed, err := decodeName(enc)
		if err != nil {
			t.Fatalf("decode name len %d: %v", n, err)
		}
		if factory || got != name || consumed != len(enc) {
			t.Fatalf("round trip len %d: got %q factory=%v consumed=%d", n, got, factory, consumed)
		}
	}
}

func TestNameFieldTooLong(t *testing.T) {
	if _, err := appendName(nil, strings.Repeat("A", NameLenMax+1), false); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

func TestNameFieldFactorySentinel(t *testing.T) {
	enc, err := appendName(nil, "", true)
	if err != nil {
		t.Fatalf("encode factory: %v", err)
	}
	if len(enc) != 1 || enc[0] != nameFactoryByte {
		t.Fatalf("unexpected factory encoding % 02X", enc)
	}
	name, factory, n, err := decodeName(enc)
	if err != nil {
		t.Fatalf("decode factory: %v", err)
	}
	if name != "" || !factory || n != 1 {
		t.Fatalf("factory decode: name=%q factory=%v n=%d", name, factory, n)
	}
}

func TestNameFieldRejectsBadLength(t *testing.T) {
	// 19 is above the limit but below the factory sentinel: hard error, not
	// a terminator.
	_, _, _, err := decodeName([]byte{19, 'A'})
	if !errors.Is(err, ErrMalformedPage) {
		t.Fatalf("expected ErrMalformedPage for length 19, got %v", err)
	}
	_, _, _, err = decodeName([]byte{0x25})
	if !errors.Is(err, ErrMalformedPage) {
		t.Fatalf("expected ErrMalformedPage for length 0x25, got %v", err)
	}
}

func TestLabelLenRoundTrip(t *testing.T) {
	for n := 0; n <= LabelLenMax; n++ {
		got, ok := decodeLabelLen(encodeLabelLen(n))
		if !ok || got != n {
			t.Fatalf("label len %d: got %d ok=%v", n, got, ok)
		}
	}
}

func TestLabelLenOutOfRangeIsTerminator(t *testing.T) {
	for _, b := range []byte{0x00, 0x10, labelMarkerBase - 1, labelMarkerBase + LabelLenMax + 1, 0x7F} {
		if _, ok := decodeLabelLen(b); ok {
			t.Fatalf("marker 0x%02X should terminate, not decode", b)
		}
	}
}

func TestPageForRanges(t *testing.T) {
	if PageFor(ControlIDMin) != PageA || PageFor(PageBFirstID-1) != PageA {
		t.Fatalf("page A range wrong")
	}
	if PageFor(PageBFirstID) != PageB || PageFor(ControlIDMax) != PageB {
		t.Fatalf("page B range wrong")
	}
}

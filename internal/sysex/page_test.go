package sysex

import (
	"bytes"
	"errors"
	"testing"
)

func testPage(selector byte) *Page {
	p := &Page{Selector: selector, Name: "TESTMOD"}
	lo, _ := PageRange(selector)
	for i := 0; i < ControlsPage; i++ {
		p.Controls[i] = ControlRecord{ID: lo + byte(i)}
	}
	p.Controls[0] = ControlRecord{
		ID: lo, Type: 0x05, Channel: 0, Behavior: 0x00, Min: 0, CC: 13, Max: 127,
	}
	return p
}

func TestPageRoundTrip(t *testing.T) {
	for _, layout := range []RecordLayout{ReadLayout, WriteLayout} {
		p := testPage(PageA)
		p.Labels = []LabelRecord{{ID: 0x10, Text: "Volume"}, {ID: 0x11, Text: "Pan"}}
		p.Colors = []ColorRecord{{ID: 0x18, Color: 0x0F}}

		enc, err := EncodePage(p, layout)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := DecodePage(enc, layout)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Name != p.Name || got.Factory || got.Selector != PageA {
			t.Fatalf("header mismatch: %+v", got)
		}
		if got.Controls != p.Controls {
			t.Fatalf("control records mismatch")
		}
		if len(got.Labels) != 2 || got.Labels[0] != p.Labels[0] || got.Labels[1] != p.Labels[1] {
			t.Fatalf("labels mismatch: %+v", got.Labels)
		}
		if len(got.Colors) != 1 || got.Colors[0] != p.Colors[0] {
			t.Fatalf("colors mismatch: %+v", got.Colors)
		}
	}
}

func TestPageEncodeIdempotent(t *testing.T) {
	p := testPage(PageB)
	p.Labels = []LabelRecord{{ID: 0x30, Text: "FX"}}
	a, err := EncodePage(p, WriteLayout)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := EncodePage(p, WriteLayout)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("encoding is not deterministic")
	}
}

func TestPageLabelQuirkOnWire(t *testing.T) {
	p := testPage(PageB)
	p.Labels = []LabelRecord{{ID: 0x28, Text: "SendA"}}
	enc, err := EncodePage(p, ReadLayout)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// The label record sits right after the 24 control records: marker, then
	// the wire id, which the quirk shifts down to 0x27.
	idx := 6 + 1 + len(p.Name) + ControlsPage*readRecordLen
	if enc[idx] != encodeLabelLen(5) || enc[idx+1] != 0x27 {
		t.Fatalf("wire label record % 02X, want marker 0x%02X id 0x27", enc[idx:idx+2], encodeLabelLen(5))
	}
	got, err := DecodePage(enc, ReadLayout)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Labels) != 1 || got.Labels[0].ID != 0x28 || got.Labels[0].Text != "SendA" {
		t.Fatalf("quirk label decoded wrong: %+v", got.Labels)
	}
}

func TestPageDecodeBadHeader(t *testing.T) {
	p := testPage(PageA)
	enc, err := EncodePage(p, ReadLayout)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	bad := append([]byte(nil), enc...)
	bad[0] = 0x7F
	if _, err := DecodePage(bad, ReadLayout); !errors.Is(err, ErrMalformedPage) {
		t.Fatalf("bad marker: expected ErrMalformedPage, got %v", err)
	}

	bad = append([]byte(nil), enc...)
	bad[4] = 0x01
	if _, err := DecodePage(bad, ReadLayout); !errors.Is(err, ErrMalformedPage) {
		t.Fatalf("bad reserved: expected ErrMalformedPage, got %v", err)
	}

	bad = append([]byte(nil), enc...)
	bad[2] = 0x05
	if _, err := DecodePage(bad, ReadLayout); !errors.Is(err, ErrMalformedPage) {
		t.Fatalf("bad selector: expected ErrMalformedPage, got %v", err)
	}
}

func TestPageEncodeRejectsForeignAnnotationIDs(t *testing.T) {
	p := testPage(PageA)
	p.Labels = []LabelRecord{{ID: 0x30, Text: "Elsewhere"}}
	if _, err := EncodePage(p, ReadLayout); !errors.Is(err, ErrBadControlID) {
		t.Fatalf("page B label on page A: expected ErrBadControlID, got %v", err)
	}
	p.Labels = nil
	p.Colors = []ColorRecord{{ID: 0x0F, Color: 0x10}}
	if _, err := EncodePage(p, ReadLayout); !errors.Is(err, ErrBadControlID) {
		t.Fatalf("out-of-range color id: expected ErrBadControlID, got %v", err)
	}
}

func TestPageDecodeTrailingPaddingTolerated(t *testing.T) {
	p := testPage(PageA)
	p.Labels = []LabelRecord{{ID: 0x10, Text: "Cutoff"}}
	enc, err := EncodePage(p, ReadLayout)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Devices pad responses out to a minimum length; a sub-marker byte ends
	// the label section and everything after it is ignored.
	enc = append(enc, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
	got, err := DecodePage(enc, ReadLayout)
	if err != nil {
		t.Fatalf("decode padded page: %v", err)
	}
	if len(got.Labels) != 1 || got.Labels[0].Text != "Cutoff" {
		t.Fatalf("labels mismatch after padding: %+v", got.Labels)
	}
}

func TestPageDecodeLabelTerminatorByLowID(t *testing.T) {
	p := testPage(PageA)
	enc, err := EncodePage(p, ReadLayout)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// A structurally valid marker followed by an id below the control space
	// also terminates the section.
	enc = append(enc, encodeLabelLen(3), 0x02, 'a', 'b', 'c')
	got, err := DecodePage(enc, ReadLayout)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Labels) != 0 {
		t.Fatalf("expected no labels, got %+v", got.Labels)
	}
}

func TestPageDecodeLabelTerminatorByHighID(t *testing.T) {
	p := testPage(PageA)
	enc, err := EncodePage(p, ReadLayout)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// An id above the control space is garbage or padding, never a label.
	enc = append(enc, encodeLabelLen(3), 0x50, 'x', 'y', 'z')
	got, err := DecodePage(enc, ReadLayout)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Labels) != 0 {
		t.Fatalf("expected no labels, got %+v", got.Labels)
	}
}

func TestPageDecodeFactoryName(t *testing.T) {
	p := testPage(PageA)
	p.Name = ""
	p.Factory = true
	enc, err := EncodePage(p, ReadLayout)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodePage(enc, ReadLayout)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Factory || got.Name != "" {
		t.Fatalf("factory page decoded wrong: %+v", got)
	}
}

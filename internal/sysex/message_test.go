package sysex

import (
	"bytes"
	"testing"
)

func TestHandshakeMessages(t *testing.T) {
	syn := HandshakeSyn()
	if !ParseHandshakeSyn(syn) {
		t.Fatalf("SYN did not match its own parser")
	}
	ack := HandshakeAck("LX28374650")
	serial, ok := ParseHandshakeAck(ack)
	if !ok || serial != "LX28374650" {
		t.Fatalf("SYN-ACK parse: serial=%q ok=%v", serial, ok)
	}
	if ParseHandshakeSyn(ack) {
		t.Fatalf("SYN-ACK must not parse as SYN")
	}
}

func TestReadMessages(t *testing.T) {
	req := ReadRequest(PageB, 7)
	page, slot, ok := ParseReadRequest(req)
	if !ok || page != PageB || slot != 7 {
		t.Fatalf("read request parse: page=0x%02X slot=%d ok=%v", page, slot, ok)
	}

	payload := []byte{0x01, 0x20, PageB}
	resp := ReadResponse(PageB, 7, payload)
	page, slot, got, ok := ParseReadResponse(resp)
	if !ok || page != PageB || slot != 7 || !bytes.Equal(got, payload) {
		t.Fatalf("read response parse: page=0x%02X slot=%d payload=% 02X ok=%v", page, slot, got, ok)
	}
}

func TestWriteMessages(t *testing.T) {
	payload := []byte{0x01, 0x20, PageA}
	req := WriteRequest(PageA, 3, payload)
	page, slot, got, ok := ParseWriteRequest(req)
	if !ok || page != PageA || slot != 3 || !bytes.Equal(got, payload) {
		t.Fatalf("write request parse: page=0x%02X slot=%d ok=%v", page, slot, ok)
	}

	ack := WriteAck(PageA, StatusAccepted)
	page, status, ok := ParseWriteAck(ack)
	if !ok || page != PageA || status != StatusAccepted {
		t.Fatalf("write ack parse: page=0x%02X status=0x%02X ok=%v", page, status, ok)
	}
	if _, _, _, ok := ParseReadResponse(ack); ok {
		t.Fatalf("write ack must not parse as read response")
	}
}

func TestTemplateChange(t *testing.T) {
	msg := TemplateChange(12)
	slot, ok := ParseTemplateChange(msg)
	if !ok || slot != 12 {
		t.Fatalf("template change parse: slot=%d ok=%v", slot, ok)
	}
}

func TestRejectForeignFrames(t *testing.T) {
	if _, ok := ParseHandshakeAck([]byte{0xF0, 0x7E, 0x00, 0x06, 0x02, 0xF7}); ok {
		t.Fatalf("foreign vendor frame accepted")
	}
	if _, _, ok := ParseWriteAck([]byte{0x90, 0x3C, 0x7F}); ok {
		t.Fatalf("channel message accepted as sysex")
	}
}

func TestAuxSlotBurst(t *testing.T) {
	low, err := AuxSlotBurst(2)
	if err != nil {
		t.Fatalf("burst slot 2: %v", err)
	}
	if len(low) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(low))
	}
	if low[0][0] != 0x90|auxChannel || low[2][0] != 0x80|auxChannel {
		t.Fatalf("burst framing wrong: % 02X / % 02X", low[0], low[2])
	}
	if low[1][2] != auxSlotBaseLow+2 {
		t.Fatalf("slot 2 CC value 0x%02X, want 0x%02X", low[1][2], auxSlotBaseLow+2)
	}

	high, err := AuxSlotBurst(12)
	if err != nil {
		t.Fatalf("burst slot 12: %v", err)
	}
	if high[1][2] != auxSlotBaseHigh+4 {
		t.Fatalf("slot 12 CC value 0x%02X, want 0x%02X", high[1][2], auxSlotBaseHigh+4)
	}

	if _, err := AuxSlotBurst(15); err == nil {
		t.Fatalf("slot 15 must be rejected")
	}
}

package device

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSlot    = errors.New("device: invalid slot")
	ErrConnectTimeout = errors.New("device: connect timeout")
	ErrReadTimeout    = errors.New("device: read timeout")
	ErrWriteTimeout   = errors.New("device: write timeout")
	ErrWriteRejected  = errors.New("device: write rejected")
	ErrDisconnected   = errors.New("device: disconnected")
	ErrBusy           = errors.New("device: session not ready")
)

// ReadTimeoutError names the slot and page that never answered.
type ReadTimeoutError struct {
	Slot int
	Page byte
}

func (e *ReadTimeoutError) Error() string {
	return fmt.Sprintf("device: read timeout on slot %d page 0x%02X", e.Slot, e.Page)
}

func (e *ReadTimeoutError) Unwrap() error { return ErrReadTimeout }

// WriteTimeoutError names the slot and page whose acknowledgement never came.
type WriteTimeoutError struct {
	Slot int
	Page byte
}

func (e *WriteTimeoutError) Error() string {
	return fmt.Sprintf("device: write timeout on slot %d page 0x%02X", e.Slot, e.Page)
}

func (e *WriteTimeoutError) Unwrap() error { return ErrWriteTimeout }

// WriteRejectedError carries the non-success status byte the device returned,
// most commonly 0x09 when the target slot was not pre-selected.
type WriteRejectedError struct {
	Slot   int
	Page   byte
	Status byte
}

func (e *WriteRejectedError) Error() string {
	return fmt.Sprintf("device: write to slot %d page 0x%02X rejected with status 0x%02X", e.Slot, e.Page, e.Status)
}

func (e *WriteRejectedError) Unwrap() error { return ErrWriteRejected }

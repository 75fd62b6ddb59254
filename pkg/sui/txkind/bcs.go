package txkind

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

const addressLength = 32

// writer accumulates BCS-encoded output.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) uleb(value uint64) {
	for value >= 0x80 {
		w.buf.WriteByte(byte(value&0x7f) | 0x80)
		value >>= 7
	}
	w.buf.WriteByte(byte(value))
}

func (w *writer) u8(value byte) {
	w.buf.WriteByte(value)
}

func (w *writer) u16(value uint16) {
	var out [2]byte
	binary.LittleEndian.PutUint16(out[:], value)
	w.buf.Write(out[:])
}

func (w *writer) u64(value uint64) {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], value)
	w.buf.Write(out[:])
}

func (w *writer) bool(value bool) {
	if value {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// vecBytes writes a length-prefixed byte vector.
func (w *writer) vecBytes(value []byte) {
	w.uleb(uint64(len(value)))
	w.buf.Write(value)
}

func (w *writer) str(value string) {
	w.vecBytes([]byte(value))
}

// address writes a 32-byte account/object address, left-padded.
func (w *writer) address(value string) error {
	raw, err := decodeAddress(value)
	if err != nil {
		return err
	}
	w.buf.Write(raw)
	return nil
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}

func decodeAddress(value string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	if trimmed == "" {
		return nil, fmt.Errorf("empty address")
	}
	if len(trimmed)%2 == 1 {
		trimmed = "0" + trimmed
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("address %q is not hex: %w", value, err)
	}
	if len(raw) > addressLength {
		return nil, fmt.Errorf("address %q longer than %d bytes", value, addressLength)
	}
	padded := make([]byte, addressLength)
	copy(padded[addressLength-len(raw):], raw)
	return padded, nil
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"bytes"
	"encoding"
	"encoding/hex"
	"fmt"
)

// Bytes32 array of 32 bytes. Identity keys and asset ids are Bytes32.
type Bytes32 [32]byte

var (
	_ encoding.TextMarshaler   = Bytes32{}
	_ encoding.TextUnmarshaler = (*Bytes32)(nil)
)

// String implements stringer.
func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

// AbbrevString returns abbrev string presentation.
func (b Bytes32) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", b[:4], b[28:])
}

// Bytes returns byte slice form of Bytes32.
func (b Bytes32) Bytes() []byte {
	return b[:]
}

// IsZero returns if Bytes32 has all zero bytes.
func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// Compare orders two values byte-wise.
func (b Bytes32) Compare(other Bytes32) int {
	return bytes.Compare(b[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Bytes32) UnmarshalText(text []byte) error {
	parsed, err := ParseBytes32(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBytes32 converts a hex string, with or without 0x prefix, into Bytes32.
func ParseBytes32(s string) (Bytes32, error) {
	var b Bytes32
	if err := decodeFixedHex(s, b[:]); err != nil {
		return Bytes32{}, err
	}
	return b, nil
}

// MustParseBytes32 is like ParseBytes32 but panics on error.
func MustParseBytes32(s string) Bytes32 {
	b, err := ParseBytes32(s)
	if err != nil {
		panic(err)
	}
	return b
}

// BytesToBytes32 converts bytes slice into Bytes32.
// Longer input is cropped from the left, shorter input is left-padded with zeros.
func BytesToBytes32(b []byte) (out Bytes32) {
	if len(b) > len(out) {
		b = b[len(b)-len(out):]
	}
	copy(out[len(out)-len(b):], b)
	return
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// AddressLength length of address in bytes.
const AddressLength = common.AddressLength

// Address is the recipient of funding stream rewards.
type Address common.Address

// String implements the stringer interface.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Bytes returns byte slice form of address.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero returns if address has all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress converts a hex string into Address.
func ParseAddress(s string) (Address, error) {
	var a Address
	if err := decodeFixedHex(s, a[:]); err != nil {
		return Address{}, err
	}
	return a, nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// BytesToAddress converts bytes slice into address.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}

func decodeFixedHex(s string, out []byte) error {
	if len(s) == len(out)*2+2 {
		if strings.ToLower(s[:2]) != "0x" {
			return errors.New("invalid prefix")
		}
		s = s[2:]
	} else if len(s) != len(out)*2 {
		return errors.New("invalid length")
	}
	if _, err := hex.Decode(out, []byte(s)); err != nil {
		return errors.Wrap(err, "decode hex")
	}
	return nil
}

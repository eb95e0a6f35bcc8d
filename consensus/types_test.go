// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressOf(t *testing.T) {
	var k PublicKey
	for i := range k {
		k[i] = byte(i)
	}

	want := sha256.Sum256(k[:])
	addr := AddressOf(k)
	assert.Equal(t, want[:20], addr.Bytes())
	assert.Equal(t, addr, k.Address())
}

func TestPublicKeyText(t *testing.T) {
	k := PublicKey{1, 2, 3}
	text, err := k.MarshalText()
	require.NoError(t, err)

	var decoded PublicKey
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, k, decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("0x01")))

	assert.Equal(t, -1, PublicKey{1}.Compare(PublicKey{2}))
	assert.Equal(t, 0, k.Compare(decoded))
}

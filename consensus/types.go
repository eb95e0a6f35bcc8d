// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package consensus defines the records exchanged with the consensus engine:
// the evidence and votes it reports at block start and the validator power
// updates it receives at block end.
package consensus

import (
	"bytes"
	"encoding/hex"

	"github.com/minio/sha256-simd"

	"github.com/vechain/stake/thor"
)

// PublicKeyLength is the length of an ed25519 consensus public key.
const PublicKeyLength = 32

// AddressLength is the length of a consensus address.
const AddressLength = 20

// PublicKey is a validator's rotatable ed25519 consensus key.
type PublicKey [PublicKeyLength]byte

// Bytes returns byte slice form of the key.
func (k PublicKey) Bytes() []byte { return k[:] }

func (k PublicKey) String() string { return "0x" + hex.EncodeToString(k[:]) }

// Compare orders keys byte-wise.
func (k PublicKey) Compare(other PublicKey) int { return bytes.Compare(k[:], other[:]) }

// Address derives the consensus address of the key.
func (k PublicKey) Address() Address { return AddressOf(k) }

// MarshalText implements encoding.TextMarshaler.
func (k PublicKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PublicKey) UnmarshalText(text []byte) error {
	b, err := thor.ParseBytes32(string(text))
	if err != nil {
		return err
	}
	*k = PublicKey(b)
	return nil
}

// Address is the 20-byte address the consensus engine uses to refer to a
// validator in votes and evidence.
type Address [AddressLength]byte

// AddressOf returns the first 20 bytes of the SHA-256 digest of the key.
func AddressOf(k PublicKey) (addr Address) {
	sum := sha256.Sum256(k[:])
	copy(addr[:], sum[:AddressLength])
	return
}

// Bytes returns byte slice form of the address.
func (a Address) Bytes() []byte { return a[:] }

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// EvidenceType identifies the kind of byzantine behavior.
type EvidenceType uint8

const (
	EvidenceTypeDuplicateVote EvidenceType = 1
	EvidenceTypeLightClient   EvidenceType = 2
)

// Evidence is proof of byzantine behavior by the validator at Address.
type Evidence struct {
	Type             EvidenceType
	Address          Address
	Height           uint64
	TotalVotingPower int64
}

// VoteInfo reports whether a validator signed the previous block.
type VoteInfo struct {
	Address         Address
	SignedLastBlock bool
}

// CommitInfo is the vote information of the last commit.
type CommitInfo struct {
	Round int32
	Votes []VoteInfo
}

// ValidatorUpdate sets the voting power of a consensus key.
// Power 0 removes the key from the validator set.
type ValidatorUpdate struct {
	PubKey PublicKey
	Power  int64
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package event defines the records the staking engine emits while it
// processes a block. Observers consume them after the block commits.
package event

import (
	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

// Event is any staking event.
type Event interface {
	isEvent()
}

type StateChanged struct {
	Validator thor.Bytes32
	From, To  validator.State
}

type BondingChanged struct {
	Validator thor.Bytes32
	From, To  validator.BondingState
}

// SlashReason names the infraction behind a slash.
type SlashReason string

const (
	SlashDowntime    SlashReason = "downtime"
	SlashMisbehavior SlashReason = "misbehavior"
)

type Slashed struct {
	Validator thor.Bytes32
	Epoch     uint64
	Reason    SlashReason
	Rate      uint64 // retained fraction, 1e8 scale
}

type MissedBlocks struct {
	Validator thor.Bytes32
	Height    uint64
	Missed    uint64
}

type PowerChanged struct {
	Validator thor.Bytes32
	Power     uint64
}

type CommissionPaid struct {
	Validator thor.Bytes32
	Recipient thor.Address
	Epoch     uint64
	Amount    uint64
}

type EpochEnded struct {
	Epoch thor.Epoch
}

type ValidatorAdded struct {
	Validator    thor.Bytes32
	ConsensusKey consensus.PublicKey
}

func (StateChanged) isEvent()   {}
func (BondingChanged) isEvent() {}
func (Slashed) isEvent()        {}
func (MissedBlocks) isEvent()   {}
func (PowerChanged) isEvent()   {}
func (CommissionPaid) isEvent() {}
func (EpochEnded) isEvent()     {}
func (ValidatorAdded) isEvent() {}

// Log collects events in emission order.
type Log struct {
	events []Event
}

func (l *Log) Append(e Event) {
	l.events = append(l.events, e)
}

// Events returns the collected events.
func (l *Log) Events() []Event {
	return l.events
}

func (l *Log) Len() int {
	return len(l.events)
}

// Filter returns the events of type T.
func Filter[T Event](l *Log) []T {
	var out []T
	for _, e := range l.events {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

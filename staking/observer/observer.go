// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package observer reports the staking events of committed blocks as
// metrics.
package observer

import (
	"github.com/vechain/stake/log"
	"github.com/vechain/stake/metrics"
	"github.com/vechain/stake/staking/event"
	"github.com/vechain/stake/staking/validator"
)

var (
	logger = log.WithContext("pkg", "observer")

	metricValidatorsGaugeVec   = metrics.LazyLoadGaugeVec("staking_validators", []string{"state"})
	metricMissedBlocksGaugeVec = metrics.LazyLoadGaugeVec("staking_missed_blocks", []string{"validator"})
	metricSlashingsCounterVec  = metrics.LazyLoadCounterVec("staking_slashings", []string{"reason"})
	metricEpochsCounter        = metrics.LazyLoadCounter("staking_epochs")
	metricCommissionCounter    = metrics.LazyLoadCounter("staking_commission_minted")
)

// Observer keeps the per-state validator count, fed by state changes.
type Observer struct {
	counts map[validator.State]int64
}

// New creates an observer seeded with the current number of validators in
// each state.
func New(counts map[validator.State]int64) *Observer {
	o := &Observer{counts: make(map[validator.State]int64, len(validator.States))}
	for _, st := range validator.States {
		o.counts[st] = counts[st]
		o.report(st)
	}
	return o
}

func (o *Observer) report(st validator.State) {
	metricValidatorsGaugeVec().SetWithLabel(o.counts[st], map[string]string{"state": st.String()})
}

// Count returns the number of validators last seen in the state.
func (o *Observer) Count(st validator.State) int64 {
	return o.counts[st]
}

// Observe reports the events of one committed block.
func (o *Observer) Observe(height uint64, events []event.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case event.ValidatorAdded:
			o.counts[validator.Inactive]++
			o.report(validator.Inactive)
		case event.StateChanged:
			o.counts[e.From]--
			o.counts[e.To]++
			o.report(e.From)
			o.report(e.To)
		case event.Slashed:
			metricSlashingsCounterVec().AddWithLabel(1, map[string]string{"reason": string(e.Reason)})
		case event.MissedBlocks:
			metricMissedBlocksGaugeVec().SetWithLabel(int64(e.Missed), map[string]string{"validator": e.Validator.AbbrevString()})
		case event.CommissionPaid:
			metricCommissionCounter().Add(int64(e.Amount))
		case event.EpochEnded:
			metricEpochsCounter().Add(1)
			logger.Info("epoch committed", "epoch", e.Epoch.Index, "height", height,
				"active", o.counts[validator.Active], "jailed", o.counts[validator.Jailed])
		}
	}
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/vechain/stake/app"
	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/staking"
	"github.com/vechain/stake/staking/validator"
)

// producer stands in for the consensus engine: it commits empty blocks
// signed by every validator of the current set.
type producer struct {
	app *app.App
	set map[consensus.PublicKey]int64
}

func newProducer(a *app.App) (*producer, error) {
	p := &producer{app: a, set: make(map[consensus.PublicKey]int64)}
	err := a.View(func(s *staking.Staking, _ uint64) error {
		infos, err := s.ValidatorList()
		if err != nil {
			return err
		}
		for _, info := range infos {
			if info.Status.State == validator.Active && info.Status.VotingPower > 0 {
				p.set[info.Validator.ConsensusKey] = int64(info.Status.VotingPower)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *producer) commitInfo() consensus.CommitInfo {
	var info consensus.CommitInfo
	for ck := range p.set {
		info.Votes = append(info.Votes, consensus.VoteInfo{Address: consensus.AddressOf(ck), SignedLastBlock: true})
	}
	return info
}

func (p *producer) apply(updates []consensus.ValidatorUpdate) {
	for _, u := range updates {
		if u.Power == 0 {
			delete(p.set, u.PubKey)
		} else {
			p.set[u.PubKey] = u.Power
		}
	}
}

// Produce executes and commits the next block.
func (p *producer) Produce() error {
	height := p.app.Height() + 1
	if err := p.app.BeginBlock(height, nil, p.commitInfo()); err != nil {
		return err
	}
	updates, err := p.app.EndBlock()
	if err != nil {
		return err
	}
	events, err := p.app.Commit()
	if err != nil {
		return err
	}
	p.apply(updates)
	logger.Debug("block produced", "height", height, "validators", len(p.set), "events", len(events))
	return nil
}

// Run produces a block every interval until ctx is done or limit blocks
// were produced. A zero limit runs until ctx is done.
func (p *producer) Run(ctx context.Context, interval time.Duration, limit uint64) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := uint64(0); limit == 0 || n < limit; n++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := p.Produce(); err != nil {
			return err
		}
	}
	return nil
}

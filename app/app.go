// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package app drives the staking engine block by block over a persistent
// store. A block is executed between BeginBlock and Commit; its writes
// reach the store atomically on Commit.
package app

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/genesis"
	"github.com/vechain/stake/kv"
	"github.com/vechain/stake/log"
	"github.com/vechain/stake/staking"
	"github.com/vechain/stake/staking/delegation"
	"github.com/vechain/stake/staking/event"
	"github.com/vechain/stake/staking/observer"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/state"
	"github.com/vechain/stake/thor"
)

var logger = log.WithContext("pkg", "app")

var (
	// ErrHalted is returned by every block method once a block failed.
	ErrHalted = errors.New("app halted")
	// ErrNotInitialized is returned before InitChain.
	ErrNotInitialized = errors.New("chain not initialized")

	errNoBlock = errors.New("no block in progress")
)

const (
	heightKey  = "app/height"
	genesisKey = "app/genesis"
)

type block struct {
	state   *state.State
	staking *staking.Staking
	bctx    *staking.BlockContext
	ended   bool
}

// App is the staking application.
type App struct {
	store kv.Store

	mu            sync.Mutex
	initialized   bool
	height        uint64
	epochDuration uint64
	observer      *observer.Observer
	block         *block
	halted        error
}

// New opens the app over the store, resuming from the last committed
// block if any.
func New(store kv.Store) (*App, error) {
	a := &App{store: store}

	st := state.New(store)
	h, found, err := state.NewSlot[uint64](st, heightKey).Get()
	if err != nil {
		return nil, err
	}
	if !found {
		return a, nil
	}
	if err := a.resume(st, h); err != nil {
		return nil, err
	}
	logger.Info("app resumed", "height", h)
	return a, nil
}

func (a *App) resume(st *state.State, height uint64) error {
	s := staking.New(st)
	cp, err := s.Params().Load()
	if err != nil {
		return err
	}
	counts, err := s.StateCounts()
	if err != nil {
		return err
	}
	a.initialized = true
	a.height = height
	a.epochDuration = cp.EpochDuration
	a.observer = observer.New(counts)
	return nil
}

// InitChain writes the genesis state. On a store already initialized with
// the same genesis it does nothing.
func (a *App) InitChain(g *genesis.Genesis) ([]consensus.ValidatorUpdate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := state.New(a.store)
	genesisSlot := state.NewSlot[thor.Bytes32](st, genesisKey)
	if a.initialized {
		id, _, err := genesisSlot.Get()
		if err != nil {
			return nil, err
		}
		if id != g.ID() {
			return nil, errors.Errorf("genesis mismatch: stored %s, given %s", id.AbbrevString(), g.ID().AbbrevString())
		}
		return nil, nil
	}

	s := staking.New(st)
	bctx := staking.NewBlockContext(0, g.Params().EpochDuration)
	if err := s.InitChain(bctx, g.Staking()); err != nil {
		return nil, errors.WithMessage(err, "init chain")
	}
	if err := genesisSlot.Set(g.ID()); err != nil {
		return nil, err
	}
	if err := state.NewSlot[uint64](st, heightKey).Set(0); err != nil {
		return nil, err
	}
	if err := commit(st); err != nil {
		return nil, err
	}
	if err := a.resume(st, 0); err != nil {
		return nil, err
	}
	logger.Info("chain initialized", "genesis", g.ID().AbbrevString(), "name", g.Name(), "validators", len(bctx.ValidatorUpdates))
	return bctx.ValidatorUpdates, nil
}

func commit(st *state.State) error {
	stage, err := st.Stage()
	if err != nil {
		return err
	}
	return stage.Commit()
}

// Height returns the last committed height.
func (a *App) Height() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.height
}

// Halted returns the error that stopped the app, nil if running.
func (a *App) Halted() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.halted
}

func (a *App) halt(err error) error {
	a.halted = err
	a.block = nil
	logger.Error("app halted", "height", a.height+1, "err", err)
	return err
}

func (a *App) check() error {
	if a.halted != nil {
		return ErrHalted
	}
	if !a.initialized {
		return ErrNotInitialized
	}
	return nil
}

// BeginBlock starts the block following the last committed one.
func (a *App) BeginBlock(height uint64, evidence []consensus.Evidence, info consensus.CommitInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(); err != nil {
		return err
	}
	if a.block != nil {
		return errors.New("block already in progress")
	}
	if height != a.height+1 {
		return errors.Errorf("block height %d, want %d", height, a.height+1)
	}

	st := state.New(a.store)
	b := &block{
		state:   st,
		staking: staking.New(st),
		bctx:    staking.NewBlockContext(height, a.epochDuration),
	}
	if err := b.staking.BeginBlock(b.bctx, evidence, info); err != nil {
		return a.halt(errors.WithMessagef(err, "begin block %d", height))
	}
	a.block = b
	return nil
}

func (a *App) current() (*block, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	if a.block == nil || a.block.ended {
		return nil, errNoBlock
	}
	return a.block, nil
}

// Delegate queues a delegation in the current block. A rejected
// delegation leaves the block untouched.
func (a *App) Delegate(d delegation.Delegate) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, err := a.current()
	if err != nil {
		return err
	}
	return b.staking.Delegate(b.bctx, d)
}

// Undelegate queues an undelegation in the current block.
func (a *App) Undelegate(u delegation.Undelegate) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, err := a.current()
	if err != nil {
		return err
	}
	return b.staking.Undelegate(b.bctx, u)
}

// DefineValidator adds a new validator or updates a known one. A rejected
// definition leaves the block untouched.
func (a *App) DefineValidator(v *validator.Validator) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, err := a.current()
	if err != nil {
		return err
	}
	existing, err := b.staking.Registry().Validator(v.IdentityKey)
	if err != nil {
		return a.halt(err)
	}

	checkpoint := b.state.NewCheckpoint()
	events := b.bctx.Events
	if existing == nil {
		err = b.staking.AddValidator(b.bctx, v)
	} else {
		err = b.staking.UpdateValidator(b.bctx, v)
	}
	if err != nil {
		b.state.RevertTo(checkpoint)
		b.bctx.Events = events
		return err
	}
	return nil
}

// EndBlock closes the current block and returns the validator updates for
// the consensus engine.
func (a *App) EndBlock() ([]consensus.ValidatorUpdate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, err := a.current()
	if err != nil {
		return nil, err
	}
	if err := b.staking.EndBlock(b.bctx); err != nil {
		return nil, a.halt(errors.WithMessagef(err, "end block %d", b.bctx.Height))
	}
	b.ended = true
	return b.bctx.ValidatorUpdates, nil
}

// Commit persists the ended block and returns its events.
func (a *App) Commit() ([]event.Event, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(); err != nil {
		return nil, err
	}
	b := a.block
	if b == nil || !b.ended {
		return nil, errors.New("block not ended")
	}
	height := b.bctx.Height
	if err := state.NewSlot[uint64](b.state, heightKey).Set(height); err != nil {
		return nil, a.halt(err)
	}
	if err := commit(b.state); err != nil {
		return nil, a.halt(errors.WithMessagef(err, "commit block %d", height))
	}

	a.height = height
	a.block = nil
	events := b.bctx.Events.Events()
	a.observer.Observe(height, events)
	logger.Debug("block committed", "height", height, "events", len(events), "updates", len(b.bctx.ValidatorUpdates))
	return events, nil
}

// View runs fn over a snapshot of the last committed state.
func (a *App) View(fn func(s *staking.Staking, height uint64) error) error {
	snapshot := a.store.Snapshot()
	defer snapshot.Release()

	st := state.New(snapshot)
	height, found, err := state.NewSlot[uint64](st, heightKey).Get()
	if err != nil {
		return err
	}
	if !found {
		return ErrNotInitialized
	}
	return fn(staking.New(st), height)
}

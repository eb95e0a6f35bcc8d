// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides the block-scoped view of the staking state.
//
// A State reads through to a kv.Store and buffers every write in a revertible
// overlay. Nothing reaches the store until the Stage built from it is
// committed, at which point all changes are written in a single atomic batch.
package state

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package engine adapts a storage backend to kv.Store.
package engine

import (
	"io"

	"github.com/vechain/stake/kv"
)

// Engine is a closable kv store.
type Engine interface {
	kv.Store
	io.Closer
}

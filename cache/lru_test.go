// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	_, err := NewLRU("bad", 0)
	assert.Error(t, err)

	c, err := NewLRU("test", 2)
	require.NoError(t, err)

	loads := 0
	loader := func(key interface{}) (interface{}, error) {
		loads++
		return key.(int) * 10, nil
	}

	for i := 0; i < 2; i++ {
		v, err := c.GetOrLoad(1, loader)
		require.NoError(t, err)
		assert.Equal(t, 10, v)
	}
	assert.Equal(t, 1, loads)

	_, err = c.GetOrLoad(2, loader)
	require.NoError(t, err)
	_, err = c.GetOrLoad(3, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	// 1 was evicted
	_, err = c.GetOrLoad(1, loader)
	require.NoError(t, err)
	assert.Equal(t, 4, loads)

	hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(4), miss)

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestLRULoadError(t *testing.T) {
	c, err := NewLRU("test", 4)
	require.NoError(t, err)

	_, err = c.GetOrLoad("k", func(interface{}) (interface{}, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	assert.Zero(t, c.Len())
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stake/stackedmap"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := map[string]string{"foo": "bar"}

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 1, "", "", "foo", []any{"bar", true, nil}},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", []any{"baz", true, nil}},
		{func() {}, 2, "foo", "baz1", "foo", []any{"baz1", true, nil}},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", []any{"qux", true, nil}},
		{func() { sm.Pop() }, 2, "", "", "foo", []any{"baz1", true, nil}},
		{func() { sm.Pop() }, 1, "", "", "foo", []any{"bar", true, nil}},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(0) }, 0, "", "", "", nil},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, M(sm.Get(test.getKey)))
		}
	}
}

func TestStackedMapRepeatedPutThenPop(t *testing.T) {
	sm := stackedmap.New(func(string) (int, bool, error) { return 0, false, nil })

	sm.Put("a", 1)
	depth := sm.Push()
	sm.Put("a", 2)
	sm.Put("a", 3)
	sm.PopTo(depth)

	v, ok, err := sm.Get("a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestStackedMapJournal(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(string) (string, bool, error) { return "", false, nil })

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}
	i := 0
	sm.Journal(func(k, v string) bool {
		assert.Equal(kvs[i].k, k)
		assert.Equal(kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(len(kvs), i)

	i = 0
	sm.Journal(func(string, string) bool {
		i++
		return false
	})
	assert.Equal(1, i, "Journal traverse should abort")
}

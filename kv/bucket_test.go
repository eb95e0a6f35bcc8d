// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errNotFound = errors.New("not found")

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errNotFound
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func TestBucketGetter(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}

	tests := []struct {
		b    Bucket
		key  string
		want string
	}{
		{Bucket(""), "k1", "v1"},
		{Bucket("k"), "1", "v1"},
		{Bucket("k"), "2", "v2"},
		{Bucket("k1"), "", "v1"},
	}
	for _, tt := range tests {
		got, err := tt.b.NewGetter(m).Get([]byte(tt.key))
		assert.NoError(t, err)
		assert.Equal(t, tt.want, string(got))
	}

	g := Bucket("x").NewGetter(m)
	_, err := g.Get([]byte("k1"))
	assert.True(t, g.IsNotFound(err))

	has, err := Bucket("k").NewGetter(m).Has([]byte("2"))
	assert.NoError(t, err)
	assert.True(t, has)
}

func TestBucketPutter(t *testing.T) {
	m := mem{}
	p := Bucket("staking/").NewPutter(m)

	assert.NoError(t, p.Put([]byte("a"), []byte("1")))
	assert.Equal(t, "1", m["staking/a"])

	assert.NoError(t, p.Delete([]byte("a")))
	assert.Empty(t, m)
}

func TestPrefixRange(t *testing.T) {
	r := PrefixRange([]byte{0x01, 0xff})
	assert.Equal(t, []byte{0x01, 0xff}, r.Start)
	assert.Equal(t, []byte{0x02}, r.Limit)
}

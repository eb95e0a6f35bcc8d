// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContextFollowsRoot(t *testing.T) {
	logger := WithContext("pkg", "staking")

	var buf bytes.Buffer
	Init(&buf, LvlInfo, false)
	defer Discard()

	logger.Info("epoch ended", "index", 7)
	logger.Debug("hidden")
	logger.New("validator", "0x01").Warn("jailed")

	out := buf.String()
	assert.Contains(t, out, "epoch ended")
	assert.Contains(t, out, "pkg=staking")
	assert.Contains(t, out, "index=7")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "validator=0x01")
}

func TestCritDoesNotExit(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, LvlTrace, false)
	defer Discard()

	Root().Crit("halting", "height", 3)
	assert.Contains(t, buf.String(), "halting")
}

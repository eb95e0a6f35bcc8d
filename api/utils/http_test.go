// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"bad request", BadRequest(errors.New("bad id")), http.StatusBadRequest},
		{"not found", errors.WithMessage(NotFound(errors.New("no such validator")), "lookup"), http.StatusNotFound},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
				if tt.err != nil {
					return tt.err
				}
				return WriteJSON(w, M{"ok": true})
			})
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))

			var body M
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), body["error"])
			} else {
				assert.Equal(t, true, body["ok"])
			}
		})
	}
}

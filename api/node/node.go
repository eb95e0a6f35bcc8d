// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stake/api/utils"
)

// Status reports the progress of the app.
type Status interface {
	Height() uint64
	Halted() error
}

type Node struct {
	status Status
}

func New(status Status) *Node {
	return &Node{status}
}

type status struct {
	Height uint64 `json:"height"`
	Halted bool   `json:"halted"`
	Reason string `json:"reason,omitempty"`
}

func (n *Node) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	st := status{Height: n.status.Height()}
	if err := n.status.Halted(); err != nil {
		st.Halted = true
		st.Reason = err.Error()
	}
	return utils.WriteJSON(w, st)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /node/status").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetStatus))
}

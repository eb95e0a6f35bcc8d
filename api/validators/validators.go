// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stake/api/utils"
	"github.com/vechain/stake/cache"
	"github.com/vechain/stake/staking"
	"github.com/vechain/stake/thor"
)

// HeightHeader carries the height a response was read at.
const HeightHeader = "x-stake-height"

// Viewer reads the last committed staking state.
type Viewer interface {
	View(fn func(s *staking.Staking, height uint64) error) error
}

// committed state never changes, so views are cached per height
type cacheKey struct {
	height uint64
	id     thor.Bytes32
}

type Validators struct {
	viewer Viewer
	cache  *cache.LRU
}

func New(viewer Viewer, cacheSize int) (*Validators, error) {
	c, err := cache.NewLRU("validators", cacheSize)
	if err != nil {
		return nil, err
	}
	return &Validators{viewer: viewer, cache: c}, nil
}

func (v *Validators) load(s *staking.Staking, key cacheKey) (*Validator, error) {
	val, err := v.cache.GetOrLoad(key, func(interface{}) (interface{}, error) {
		info, err := s.ValidatorInfo(key.id)
		if err != nil || info == nil {
			return (*Validator)(nil), err
		}
		return convertValidator(info), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*Validator), nil
}

func (v *Validators) handleGetValidators(w http.ResponseWriter, req *http.Request) error {
	filter := req.URL.Query().Get("state")

	var (
		list   []*Validator
		height uint64
	)
	err := v.viewer.View(func(s *staking.Staking, h uint64) error {
		height = h
		ids, err := s.ValidatorIdentityList()
		if err != nil {
			return err
		}
		list = make([]*Validator, 0, len(ids))
		for _, id := range ids {
			val, err := v.load(s, cacheKey{h, id})
			if err != nil {
				return err
			}
			if val == nil {
				return errors.Errorf("validator %s has no definition", id.AbbrevString())
			}
			if filter == "" || val.State == filter {
				list = append(list, val)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.Header().Set(HeightHeader, strconv.FormatUint(height, 10))
	return utils.WriteJSON(w, list)
}

func (v *Validators) handleGetValidator(w http.ResponseWriter, req *http.Request) error {
	id, err := thor.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}

	var (
		val    *Validator
		height uint64
	)
	err = v.viewer.View(func(s *staking.Staking, h uint64) error {
		height = h
		val, err = v.load(s, cacheKey{h, id})
		return err
	})
	if err != nil {
		return err
	}
	if val == nil {
		return utils.NotFound(errors.Errorf("validator %s not found", id))
	}
	w.Header().Set(HeightHeader, strconv.FormatUint(height, 10))
	return utils.WriteJSON(w, val)
}

func (v *Validators) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /validators").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetValidators))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /validators/{id}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetValidator))
}

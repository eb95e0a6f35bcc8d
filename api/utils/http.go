// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// HTTPError creates an error responded with the given status code.
func HTTPError(cause error, status int) error {
	return &httpError{cause: cause, status: status}
}

// BadRequest creates a 400 error.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// NotFound creates a 404 error.
func NotFound(cause error) error {
	return HTTPError(cause, http.StatusNotFound)
}

// StatusOf returns the status code err is responded with.
func StatusOf(err error) int {
	var he *httpError
	if errors.As(err, &he) {
		return he.status
	}
	return http.StatusInternalServerError
}

// HandlerFunc is an http.HandlerFunc that returns an error. An error made
// by HTTPError is responded with its status, any other one with 500.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc converts HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			_ = WriteJSONStatus(w, StatusOf(err), M{"error": err.Error()})
		}
	}
}

// JSONContentType is the content type of every response.
const JSONContentType = "application/json; charset=utf-8"

// WriteJSON responds obj in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj interface{}) error {
	return WriteJSONStatus(w, http.StatusOK, obj)
}

// WriteJSONStatus responds obj in JSON encoding with the status code.
func WriteJSONStatus(w http.ResponseWriter, status int, obj interface{}) error {
	w.Header().Set("Content-Type", JSONContentType)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(obj)
}

// M is a shortcut for map[string]interface{}.
type M map[string]interface{}

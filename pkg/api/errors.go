// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	ErrMissingBaseURL = errors.New("api base url is required")
	ErrEmptyInitData  = errors.New("telegram init data is empty")
)

// NetworkError is a transport failure: the request never produced an HTTP
// response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response.
type APIError struct {
	Status int
	// Message is the backend's string `detail`, or "API error <status>".
	Message string
	// Detail is the raw `detail` value, which may be an object.
	Detail json.RawMessage
	Body   []byte
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{
		Status:  status,
		Message: fmt.Sprintf("API error %d", status),
		Body:    body,
	}
	if !gjson.ValidBytes(body) {
		return e
	}
	detail := gjson.GetBytes(body, "detail")
	if !detail.Exists() {
		return e
	}
	e.Detail = json.RawMessage(detail.Raw)
	if detail.Type == gjson.String && detail.Str != "" {
		e.Message = detail.Str
	}
	return e
}

func (e *APIError) Error() string {
	return e.Message
}

// ConflictDealID returns the id of the already existing deal carried by a
// 409 on deal creation. The id may sit at the top level or inside detail.
func (e *APIError) ConflictDealID() (int64, bool) {
	if e.Status != http.StatusConflict || !gjson.ValidBytes(e.Body) {
		return 0, false
	}
	for _, path := range []string{"deal_id", "detail.deal_id"} {
		r := gjson.GetBytes(e.Body, path)
		if r.Exists() && r.Int() > 0 {
			return r.Int(), true
		}
	}
	return 0, false
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Message is the text shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

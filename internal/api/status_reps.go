// Package api contains the JSON representations used by the service's REST endpoints.
package api

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
)

// StatusRep is the JSON representation returned by the status endpoint.
//
// This is exported for use in test code.
type StatusRep struct {
	Values     map[string]ValueStatusRep `json:"values"`
	Status     string                    `json:"status"`
	Version    string                    `json:"version"`
	InstanceID string                    `json:"instanceId"`
}

// ValueStatusRep is the per-value JSON representation returned by the status endpoint.
//
// This is exported for use in test code.
type ValueStatusRep struct {
	URI         string                     `json:"uri"`
	State       string                     `json:"state"`
	Stale       bool                       `json:"stale"`
	LastRefresh ldtime.UnixMillisecondTime `json:"lastRefresh,omitempty"`
	LastError   *RefreshErrorRep           `json:"lastError,omitempty"`
}

// RefreshErrorRep is the optional error information in ValueStatusRep.
//
// This is exported for use in test code.
type RefreshErrorRep struct {
	Message string                     `json:"message"`
	Time    ldtime.UnixMillisecondTime `json:"time"`
}

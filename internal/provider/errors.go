package provider

import "errors"

// ErrUpstream collapses every upstream failure mode: transport error, non-2xx
// status, or a success envelope that is false or empty. The APIs give no way to
// tell a network outage from an application-level rejection, so callers get one
// category to match with errors.Is.
var ErrUpstream = errors.New("upstream rejected request")

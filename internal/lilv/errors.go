// Package lilv binds liblilv-0 to the lv2 host model.
//
// Building with cgo requires lilv development files discoverable by
// pkg-config. Without cgo New always returns ErrUnavailable.
package lilv

import "errors"

// ErrUnavailable is returned when the lilv runtime cannot be used.
var ErrUnavailable = errors.New("lilv runtime is not available")

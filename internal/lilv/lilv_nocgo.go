//go:build !cgo

package lilv

import "github.com/dudk/lv2host/lv2"

// New always fails when built without cgo.
func New() (lv2.World, error) {
	return nil, ErrUnavailable
}

// Package lv2 describes LV2 plugins from the host side and runs a single
// plugin instance over an in-memory signal.
//
// The plugin world, plugins and instances are interfaces so the host logic
// can be exercised without the native runtime. The cgo binding lives in
// internal/lilv.
package lv2

import (
	"errors"
	"fmt"
	"math"
)

// Well-known LV2 class URIs used to classify ports.
const (
	InputPortURI   = "http://lv2plug.in/ns/lv2core#InputPort"
	OutputPortURI  = "http://lv2plug.in/ns/lv2core#OutputPort"
	AudioPortURI   = "http://lv2plug.in/ns/lv2core#AudioPort"
	ControlPortURI = "http://lv2plug.in/ns/lv2core#ControlPort"
	CVPortURI      = "http://lv2plug.in/ns/lv2core#CVPort"
)

var (
	// ErrPluginNotFound is returned when the world has no plugin with requested URI.
	ErrPluginNotFound = errors.New("plugin not found")
	// ErrInstantiate is returned when plugin failed to create an instance.
	ErrInstantiate = errors.New("failed to instantiate plugin")
	// ErrNoAudioOutputs is returned when plugin cannot produce any signal.
	ErrNoAudioOutputs = errors.New("plugin has no audio outputs")
)

// World is a registry of installed plugins.
type World interface {
	// LoadAll discovers all installed plugin bundles.
	LoadAll() error
	// NumPlugins returns the number of discovered plugins.
	NumPlugins() int
	// Plugin returns plugin by its URI. ErrPluginNotFound is returned if
	// there is no such plugin.
	Plugin(uri string) (Plugin, error)
	Close() error
}

// Plugin is a discovered, not yet instantiated plugin.
type Plugin interface {
	URI() string
	Name() string
	Ports() []Port
	Instantiate(sampleRate float64) (Instance, error)
}

// Instance is an instantiated plugin.
type Instance interface {
	// Connect allocates host buffer of frames length, connects it to the
	// port and returns a view of it. Buffers stay valid until Close.
	Connect(index uint32, frames int) ([]float32, error)
	Activate()
	Run(frames int)
	Deactivate()
	// Close releases the instance and all connected buffers.
	Close() error
}

// Direction of the port.
type Direction int

const (
	// Input port is read by plugin.
	Input Direction = iota
	// Output port is written by plugin.
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Kind of data the port carries.
type Kind int

const (
	// Other ports are atom, event and unknown ports.
	Other Kind = iota
	// Audio port carries a block of samples.
	Audio
	// Control port carries a single value.
	Control
	// CV port carries a block of control samples.
	CV
)

func (k Kind) String() string {
	switch k {
	case Audio:
		return "audio"
	case Control:
		return "control"
	case CV:
		return "cv"
	default:
		return "other"
	}
}

// Port describes a single plugin port. Range values are NaN when plugin
// doesn't declare them.
type Port struct {
	Index     uint32
	Symbol    string
	Name      string
	Direction Direction
	Kind      Kind
	Default   float32
	Min       float32
	Max       float32
}

func (p Port) String() string {
	return fmt.Sprintf("%d %s (%s %s)", p.Index, p.Symbol, p.Kind, p.Direction)
}

// Value returns the value control input is set to: default clamped to the
// range. If default is not declared, minimum is used, then zero.
func (p Port) Value() float32 {
	v := p.Default
	if isNaN(v) {
		v = p.Min
	}
	if isNaN(v) {
		return 0
	}
	if !isNaN(p.Min) && v < p.Min {
		v = p.Min
	}
	if !isNaN(p.Max) && v > p.Max {
		v = p.Max
	}
	return v
}

// Unset is the value of undeclared range properties.
func Unset() float32 {
	return float32(math.NaN())
}

func isNaN(v float32) bool {
	return v != v
}

// Package mock provides in-memory lv2 worlds and allows to test the host
// without native plugins.
package mock

import (
	"fmt"

	"github.com/dudk/lv2host/lv2"
)

// World mocks lv2.World.
type World struct {
	Plugins     []*Plugin
	ErrorOnLoad error
	Loaded      bool
	Closed      bool
}

// LoadAll implements lv2.World.
func (w *World) LoadAll() error {
	if w.ErrorOnLoad != nil {
		return w.ErrorOnLoad
	}
	w.Loaded = true
	return nil
}

// NumPlugins implements lv2.World. Plugins are visible only after load.
func (w *World) NumPlugins() int {
	if !w.Loaded {
		return 0
	}
	return len(w.Plugins)
}

// Plugin implements lv2.World.
func (w *World) Plugin(uri string) (lv2.Plugin, error) {
	if w.Loaded {
		for _, p := range w.Plugins {
			if p.PluginURI == uri {
				return p, nil
			}
		}
	}
	return nil, fmt.Errorf("%s: %w", uri, lv2.ErrPluginNotFound)
}

// Close implements lv2.World.
func (w *World) Close() error {
	w.Closed = true
	return nil
}

// RunFunc is the plugin's run callback. Buffers are mapped to port index.
type RunFunc func(buffers map[uint32][]float32, frames int)

// Plugin mocks lv2.Plugin.
type Plugin struct {
	PluginURI          string
	PluginName         string
	PortList           []lv2.Port
	RunFunc            RunFunc
	ErrorOnInstantiate error
	ErrorOnConnect     error
	// Instances lists all created instances.
	Instances []*Instance
}

// URI implements lv2.Plugin.
func (p *Plugin) URI() string {
	return p.PluginURI
}

// Name implements lv2.Plugin.
func (p *Plugin) Name() string {
	return p.PluginName
}

// Ports implements lv2.Plugin.
func (p *Plugin) Ports() []lv2.Port {
	return p.PortList
}

// Instantiate implements lv2.Plugin.
func (p *Plugin) Instantiate(sampleRate float64) (lv2.Instance, error) {
	if p.ErrorOnInstantiate != nil {
		return nil, p.ErrorOnInstantiate
	}
	i := &Instance{
		SampleRate: sampleRate,
		Buffers:    make(map[uint32][]float32),
		plugin:     p,
	}
	p.Instances = append(p.Instances, i)
	return i, nil
}

// Instance mocks lv2.Instance.
type Instance struct {
	SampleRate float64
	Buffers    map[uint32][]float32
	Hooks
	counter

	plugin *Plugin
}

// Hooks records instance life cycle calls.
type Hooks struct {
	Activated   bool
	Deactivated bool
	Closed      bool
}

// Connect implements lv2.Instance.
func (i *Instance) Connect(index uint32, frames int) ([]float32, error) {
	if i.plugin.ErrorOnConnect != nil {
		return nil, i.plugin.ErrorOnConnect
	}
	if int(index) >= len(i.plugin.PortList) {
		return nil, fmt.Errorf("port %d doesn't exist", index)
	}
	buf := make([]float32, frames)
	i.Buffers[index] = buf
	return buf, nil
}

// Activate implements lv2.Instance.
func (i *Instance) Activate() {
	i.Activated = true
}

// Run implements lv2.Instance.
func (i *Instance) Run(frames int) {
	i.advance(frames)
	if i.plugin.RunFunc != nil {
		i.plugin.RunFunc(i.Buffers, frames)
	}
}

// Deactivate implements lv2.Instance.
func (i *Instance) Deactivate() {
	i.Deactivated = true
}

// Close implements lv2.Instance.
func (i *Instance) Close() error {
	i.Closed = true
	i.Buffers = nil
	return nil
}

// counter counts run calls and frames.
type counter struct {
	runs   int
	frames int
}

func (c *counter) advance(frames int) {
	c.runs++
	c.frames += frames
}

// Count returns number of runs and processed frames.
func (c *counter) Count() (int, int) {
	return c.runs, c.frames
}

// Port returns port description with undeclared range.
func Port(index uint32, symbol string, kind lv2.Kind, dir lv2.Direction) lv2.Port {
	return lv2.Port{
		Index:     index,
		Symbol:    symbol,
		Name:      symbol,
		Kind:      kind,
		Direction: dir,
		Default:   lv2.Unset(),
		Min:       lv2.Unset(),
		Max:       lv2.Unset(),
	}
}

// Control returns control input port description with range.
func Control(index uint32, symbol string, def, lo, hi float32) lv2.Port {
	p := Port(index, symbol, lv2.Control, lv2.Input)
	p.Default, p.Min, p.Max = def, lo, hi
	return p
}

// Pedal returns a plugin laid out like a mono pedal: audio input at 0,
// audio output at 1, gain at 2 and bypass at 3. Output is input multiplied
// by gain, or a copy of input when bypass is above 0.5.
func Pedal(uri string) *Plugin {
	return &Plugin{
		PluginURI:  uri,
		PluginName: "Pedal",
		PortList: []lv2.Port{
			Port(0, "in", lv2.Audio, lv2.Input),
			Port(1, "out", lv2.Audio, lv2.Output),
			Control(2, "gain", 2, 0, 10),
			Control(3, "bypass", 0, 0, 1),
		},
		RunFunc: func(b map[uint32][]float32, frames int) {
			gain := b[2][0]
			if b[3][0] > 0.5 {
				gain = 1
			}
			for i := 0; i < frames; i++ {
				b[1][i] = b[0][i] * gain
			}
		},
	}
}

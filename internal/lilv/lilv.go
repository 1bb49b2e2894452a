//go:build cgo

package lilv

/*
#cgo pkg-config: lilv-0
#include <stdlib.h>
#include <lilv/lilv.h>

static void host_connect(LilvInstance* i, uint32_t port, void* data) {
	lilv_instance_connect_port(i, port, data);
}

static void host_activate(LilvInstance* i) {
	lilv_instance_activate(i);
}

static void host_run(LilvInstance* i, uint32_t frames) {
	lilv_instance_run(i, frames);
}

static void host_deactivate(LilvInstance* i) {
	lilv_instance_deactivate(i);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/dudk/lv2host/lv2"
)

// World wraps LilvWorld.
type World struct {
	w       *C.LilvWorld
	classes classes
}

// classes are URI nodes used to classify ports.
type classes struct {
	input, output, audio, control, cv *C.LilvNode
}

// New creates a new empty world. Plugins are discovered with LoadAll.
func New() (lv2.World, error) {
	w := C.lilv_world_new()
	if w == nil {
		return nil, ErrUnavailable
	}
	world := &World{w: w}
	world.classes = classes{
		input:   world.uri(lv2.InputPortURI),
		output:  world.uri(lv2.OutputPortURI),
		audio:   world.uri(lv2.AudioPortURI),
		control: world.uri(lv2.ControlPortURI),
		cv:      world.uri(lv2.CVPortURI),
	}
	return world, nil
}

func (w *World) uri(s string) *C.LilvNode {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return C.lilv_new_uri(w.w, cs)
}

// LoadAll loads all installed bundles. LV2_PATH is respected.
func (w *World) LoadAll() error {
	C.lilv_world_load_all(w.w)
	return nil
}

// NumPlugins returns number of discovered plugins.
func (w *World) NumPlugins() int {
	return int(C.lilv_plugins_size(C.lilv_world_get_all_plugins(w.w)))
}

// Plugin finds plugin by URI.
func (w *World) Plugin(uri string) (lv2.Plugin, error) {
	node := w.uri(uri)
	if node == nil {
		return nil, fmt.Errorf("invalid uri %q: %w", uri, lv2.ErrPluginNotFound)
	}
	defer C.lilv_node_free(node)
	p := C.lilv_plugins_get_by_uri(C.lilv_world_get_all_plugins(w.w), node)
	if p == nil {
		return nil, fmt.Errorf("%s: %w", uri, lv2.ErrPluginNotFound)
	}
	return &Plugin{p: p, world: w}, nil
}

// Close frees the world. Plugins obtained from it must not be used after.
func (w *World) Close() error {
	for _, n := range []*C.LilvNode{w.classes.input, w.classes.output, w.classes.audio, w.classes.control, w.classes.cv} {
		C.lilv_node_free(n)
	}
	C.lilv_world_free(w.w)
	w.w = nil
	return nil
}

// Plugin wraps LilvPlugin.
type Plugin struct {
	p     *C.LilvPlugin
	world *World
}

// URI of the plugin.
func (p *Plugin) URI() string {
	return C.GoString(C.lilv_node_as_uri(C.lilv_plugin_get_uri(p.p)))
}

// Name of the plugin.
func (p *Plugin) Name() string {
	n := C.lilv_plugin_get_name(p.p)
	if n == nil {
		return ""
	}
	defer C.lilv_node_free(n)
	return C.GoString(C.lilv_node_as_string(n))
}

// Ports returns descriptions of all plugin ports.
func (p *Plugin) Ports() []lv2.Port {
	num := int(C.lilv_plugin_get_num_ports(p.p))
	if num == 0 {
		return nil
	}
	mins := newFloats(num)
	defer mins.free()
	maxs := newFloats(num)
	defer maxs.free()
	defs := newFloats(num)
	defer defs.free()
	C.lilv_plugin_get_port_ranges_float(p.p, mins.ptr(), maxs.ptr(), defs.ptr())

	c := p.world.classes
	ports := make([]lv2.Port, 0, num)
	for i := 0; i < num; i++ {
		port := C.lilv_plugin_get_port_by_index(p.p, C.uint32_t(i))
		desc := lv2.Port{
			Index:   uint32(i),
			Symbol:  C.GoString(C.lilv_node_as_string(C.lilv_port_get_symbol(p.p, port))),
			Default: defs.s[i],
			Min:     mins.s[i],
			Max:     maxs.s[i],
		}
		if name := C.lilv_port_get_name(p.p, port); name != nil {
			desc.Name = C.GoString(C.lilv_node_as_string(name))
			C.lilv_node_free(name)
		}
		if bool(C.lilv_port_is_a(p.p, port, c.output)) {
			desc.Direction = lv2.Output
		}
		switch {
		case bool(C.lilv_port_is_a(p.p, port, c.audio)):
			desc.Kind = lv2.Audio
		case bool(C.lilv_port_is_a(p.p, port, c.control)):
			desc.Kind = lv2.Control
		case bool(C.lilv_port_is_a(p.p, port, c.cv)):
			desc.Kind = lv2.CV
		}
		ports = append(ports, desc)
	}
	return ports
}

// Instantiate creates plugin instance without host features.
func (p *Plugin) Instantiate(sampleRate float64) (lv2.Instance, error) {
	i := C.lilv_plugin_instantiate(p.p, C.double(sampleRate), nil)
	if i == nil {
		return nil, fmt.Errorf("%s at %v Hz: %w", p.URI(), sampleRate, lv2.ErrInstantiate)
	}
	return &Instance{i: i, buffers: make(map[uint32]*floats)}, nil
}

// Instance wraps LilvInstance. Port buffers are allocated in C memory
// because plugin keeps the pointers between calls.
type Instance struct {
	i       *C.LilvInstance
	buffers map[uint32]*floats
}

// Connect allocates buffer and connects it to the port. Previously
// connected buffer of the same port is released.
func (i *Instance) Connect(index uint32, frames int) ([]float32, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d for port %d", frames, index)
	}
	buf := newFloats(frames)
	C.host_connect(i.i, C.uint32_t(index), unsafe.Pointer(buf.ptr()))
	if old, ok := i.buffers[index]; ok {
		old.free()
	}
	i.buffers[index] = buf
	return buf.s, nil
}

// Activate instance.
func (i *Instance) Activate() {
	C.host_activate(i.i)
}

// Run instance for a number of frames.
func (i *Instance) Run(frames int) {
	C.host_run(i.i, C.uint32_t(frames))
}

// Deactivate instance.
func (i *Instance) Deactivate() {
	C.host_deactivate(i.i)
}

// Close frees instance and its buffers.
func (i *Instance) Close() error {
	if i.i == nil {
		return nil
	}
	C.lilv_instance_free(i.i)
	i.i = nil
	for index, buf := range i.buffers {
		buf.free()
		delete(i.buffers, index)
	}
	return nil
}

// floats is a zeroed float array in C memory.
type floats struct {
	p unsafe.Pointer
	s []float32
}

func newFloats(n int) *floats {
	p := C.calloc(C.size_t(n), C.size_t(C.sizeof_float))
	return &floats{
		p: p,
		s: unsafe.Slice((*float32)(p), n),
	}
}

func (f *floats) ptr() *C.float {
	return (*C.float)(f.p)
}

func (f *floats) free() {
	C.free(f.p)
	f.p = nil
	f.s = nil
}

package lv2

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dudk/lv2host/log"
)

// Processor runs plugin instance over the whole signal at once.
type Processor struct {
	ports    []Port
	instance Instance
	log      logrus.FieldLogger
}

// ProcessorOption configures processor.
type ProcessorOption func(*Processor)

// WithLogger sets logger to processor. If this option is not provided,
// silent logger is used.
func WithLogger(l logrus.FieldLogger) ProcessorOption {
	return func(p *Processor) {
		p.log = l
	}
}

// NewProcessor creates processor for instance of plugin with provided ports.
func NewProcessor(ports []Port, instance Instance, options ...ProcessorOption) *Processor {
	p := &Processor{
		ports:    ports,
		instance: instance,
		log:      log.Silent(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Process runs the instance once over the whole input. Output has the same
// shape as input and channels not written by the plugin are silent.
func (p *Processor) Process(in [][]float64) ([][]float64, error) {
	numChannels := len(in)
	frames := 0
	if numChannels > 0 {
		frames = len(in[0])
	}
	out := make([][]float64, numChannels)
	for i := range out {
		out[i] = make([]float64, frames)
	}

	inputs, outputs := p.audioPorts()
	if len(outputs) == 0 {
		return nil, ErrNoAudioOutputs
	}
	if frames == 0 {
		p.log.Warn("empty signal, plugin is not run")
		return out, nil
	}

	for k, port := range inputs {
		buf, err := p.instance.Connect(port.Index, frames)
		if err != nil {
			return nil, fmt.Errorf("connect %v: %w", port, err)
		}
		ch := in[k%numChannels]
		for i := range buf {
			buf[i] = float32(ch[i])
		}
		p.log.Debugf("channel %d -> %v", k%numChannels, port)
	}

	outBufs := make([][]float32, len(outputs))
	for k, port := range outputs {
		buf, err := p.instance.Connect(port.Index, frames)
		if err != nil {
			return nil, fmt.Errorf("connect %v: %w", port, err)
		}
		outBufs[k] = buf
	}

	if err := p.connectOthers(frames); err != nil {
		return nil, err
	}

	p.instance.Activate()
	p.instance.Run(frames)
	p.instance.Deactivate()

	for c := 0; c < numChannels && c < len(outBufs); c++ {
		for i, v := range outBufs[c] {
			out[c][i] = float64(v)
		}
		p.log.Debugf("%v -> channel %d", outputs[c], c)
	}
	return out, nil
}

// audioPorts returns audio inputs and outputs in index order.
func (p *Processor) audioPorts() (inputs, outputs []Port) {
	for _, port := range p.ports {
		if port.Kind != Audio {
			continue
		}
		if port.Direction == Input {
			inputs = append(inputs, port)
		} else {
			outputs = append(outputs, port)
		}
	}
	return
}

// connectOthers connects control and cv ports. Control inputs are set to
// their default values.
func (p *Processor) connectOthers(frames int) error {
	for _, port := range p.ports {
		switch port.Kind {
		case Control:
			buf, err := p.instance.Connect(port.Index, 1)
			if err != nil {
				return fmt.Errorf("connect %v: %w", port, err)
			}
			if port.Direction == Input {
				buf[0] = port.Value()
				p.log.Debugf("%v = %v", port, buf[0])
			}
		case CV:
			if _, err := p.instance.Connect(port.Index, frames); err != nil {
				return fmt.Errorf("connect %v: %w", port, err)
			}
		case Other:
			p.log.Warnf("%v is not connected", port)
		}
	}
	return nil
}

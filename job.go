package lv2host

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/dudk/lv2host/log"
	"github.com/dudk/lv2host/lv2"
	"github.com/dudk/lv2host/metric"
	"github.com/dudk/lv2host/wav"
)

// Defaults of the job configuration.
const (
	DefaultInput      = "input.wav"
	DefaultOutput     = "output.wav"
	DefaultPluginURI  = "http://github.com/buzzobuono/spicepedal"
	DefaultSampleRate = 44100
	DefaultBitDepth   = 16
)

// ErrInvalidConfig is returned when job is configured with invalid values.
var ErrInvalidConfig = errors.New("invalid config")

// Config defines what job processes.
type Config struct {
	Input     string
	Output    string
	PluginURI string
	// SampleRate plugin is instantiated with.
	SampleRate float64
	// BitDepth of the output file. Zero keeps input bit depth.
	BitDepth int
}

// DefaultConfig returns config with default values.
func DefaultConfig() Config {
	return Config{
		Input:      DefaultInput,
		Output:     DefaultOutput,
		PluginURI:  DefaultPluginURI,
		SampleRate: DefaultSampleRate,
		BitDepth:   DefaultBitDepth,
	}
}

// Validate checks all values and reports all problems at once.
func (c Config) Validate() error {
	var problems []string
	if c.Input == "" {
		problems = append(problems, "input is empty")
	}
	if c.Output == "" {
		problems = append(problems, "output is empty")
	}
	if c.PluginURI == "" {
		problems = append(problems, "plugin uri is empty")
	}
	if c.SampleRate <= 0 {
		problems = append(problems, fmt.Sprintf("sample rate %v is not positive", c.SampleRate))
	}
	switch c.BitDepth {
	case 0, 16, 24, 32:
	default:
		problems = append(problems, fmt.Sprintf("bit depth %d is not one of 16, 24, 32", c.BitDepth))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Job processes a single file with a single plugin. The world is owned by
// caller and is not closed by job.
type Job struct {
	id     string
	world  lv2.World
	config Config
	log    logrus.FieldLogger
}

// Option provides a way to set functional parameters to job.
type Option func(*Job)

// WithLogger sets logger to Job. If this option is not provided, silent
// logger is used.
func WithLogger(l logrus.FieldLogger) Option {
	return func(j *Job) {
		j.log = l
	}
}

// New creates a new job.
func New(world lv2.World, c Config, options ...Option) *Job {
	j := &Job{
		id:     xid.New().String(),
		world:  world,
		config: c,
		log:    log.Silent(),
	}
	for _, option := range options {
		option(j)
	}
	return j
}

// ID returns unique id of the job.
func (j *Job) ID() string {
	return j.id
}

// Run executes all steps sequentially. Context is checked before every
// step, the plugin run itself cannot be interrupted.
func (j *Job) Run(ctx context.Context) (metric.Report, error) {
	if err := j.config.Validate(); err != nil {
		return metric.Report{}, err
	}
	l := j.log.WithField("run", j.id)

	var (
		plugin   lv2.Plugin
		instance lv2.Instance
		in       Buffer
		out      Buffer
		input    wav.Asset
		report   metric.Report
	)
	defer func() {
		if instance != nil {
			instance.Close()
		}
	}()

	steps := []struct {
		Step
		fn func() error
	}{
		{StepLoad, func() error {
			if err := j.world.LoadAll(); err != nil {
				return err
			}
			l.Debugf("discovered %d plugins", j.world.NumPlugins())
			return nil
		}},
		{StepFind, func() (err error) {
			plugin, err = j.world.Plugin(j.config.PluginURI)
			if err == nil {
				l.Infof("found %q <%s>", plugin.Name(), plugin.URI())
			}
			return
		}},
		{StepInit, func() (err error) {
			instance, err = plugin.Instantiate(j.config.SampleRate)
			return
		}},
		{StepRead, func() (err error) {
			input, err = wav.Read(j.config.Input)
			if err != nil {
				return err
			}
			in = input.Data
			l.Infof("read %s: %d frames x %d channels at %d Hz", j.config.Input, in.Size(), in.NumChannels(), input.SampleRate)
			if float64(input.SampleRate) != j.config.SampleRate {
				l.Warnf("file sample rate %d Hz differs from plugin sample rate %v Hz", input.SampleRate, j.config.SampleRate)
			}
			return nil
		}},
		{StepRun, func() error {
			p := lv2.NewProcessor(plugin.Ports(), instance, lv2.WithLogger(l))
			stop := metric.Meter(plugin.URI(), input.SampleRate)()
			result, err := p.Process(in)
			if err != nil {
				return err
			}
			out = result
			report = stop(in, out)
			return nil
		}},
		{StepWrite, func() error {
			bitDepth := j.config.BitDepth
			if bitDepth == 0 {
				bitDepth = input.BitDepth
			}
			return wav.Write(j.config.Output, wav.Asset{
				Data:       out,
				SampleRate: input.SampleRate,
				BitDepth:   bitDepth,
			})
		}},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return metric.Report{}, stepError(s.Step, err)
		}
		l.WithField("step", s.Step).Debug("start")
		if err := s.fn(); err != nil {
			return metric.Report{}, stepError(s.Step, err)
		}
	}
	l.WithFields(report.Fields()).Info("done")
	return report, nil
}

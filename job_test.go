package lv2host_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dudk/lv2host"
	"github.com/dudk/lv2host/internal/mock"
	"github.com/dudk/lv2host/lv2"
	"github.com/dudk/lv2host/wav"
)

const pedalURI = lv2host.DefaultPluginURI

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// setup writes input file and returns config pointing to it.
func setup(t *testing.T, data [][]float64, sampleRate int) lv2host.Config {
	t.Helper()
	dir := t.TempDir()
	c := lv2host.DefaultConfig()
	c.Input = filepath.Join(dir, "input.wav")
	c.Output = filepath.Join(dir, "output.wav")
	require.NoError(t, wav.Write(c.Input, wav.Asset{Data: data, SampleRate: sampleRate, BitDepth: 16}))
	return c
}

func TestRun(t *testing.T) {
	in := [][]float64{
		{0.1, -0.1, 0.2, -0.2, 0.3, -0.3},
		{0.4, 0.4, 0.4, 0.4, 0.4, 0.4},
	}
	c := setup(t, in, 48000)
	plugin := mock.Pedal(pedalURI)
	world := &mock.World{Plugins: []*mock.Plugin{plugin}}

	job := lv2host.New(world, c)
	assert.NotEmpty(t, job.ID())
	report, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, pedalURI, report.Plugin)
	assert.Equal(t, 6, report.Frames)
	assert.Equal(t, 2, report.NumChannels)
	assert.False(t, world.Closed, "world is owned by caller")

	require.Len(t, plugin.Instances, 1)
	i := plugin.Instances[0]
	assert.Equal(t, float64(lv2host.DefaultSampleRate), i.SampleRate)
	assert.True(t, i.Closed)
	runs, frames := i.Count()
	assert.Equal(t, 1, runs)
	assert.Equal(t, 6, frames)

	out, err := wav.Read(c.Output)
	require.NoError(t, err)
	assert.Equal(t, 48000, out.SampleRate)
	assert.Equal(t, lv2host.DefaultBitDepth, out.BitDepth)
	require.Equal(t, 2, out.NumChannels())
	assert.InDeltaSlice(t, []float64{0.2, -0.2, 0.4, -0.4, 0.6, -0.6}, out.Data[0], 2.0/0x8000)
	assert.Equal(t, make([]float64, 6), out.Data[1])
}

func TestRunKeepBitDepth(t *testing.T) {
	c := setup(t, [][]float64{{0.5, 0.25}}, 44100)
	c.BitDepth = 0
	world := &mock.World{Plugins: []*mock.Plugin{mock.Pedal(pedalURI)}}

	_, err := lv2host.New(world, c).Run(context.Background())
	require.NoError(t, err)
	out, err := wav.Read(c.Output)
	require.NoError(t, err)
	assert.Equal(t, 16, out.BitDepth)
}

func TestRunErrors(t *testing.T) {
	errLoad := errors.New("load error")
	errInit := errors.New("init error")
	var tests = []struct {
		name    string
		world   func() *mock.World
		config  func(lv2host.Config) lv2host.Config
		step    lv2host.Step
		target  error
		written bool
	}{
		{
			name: "load",
			world: func() *mock.World {
				return &mock.World{ErrorOnLoad: errLoad}
			},
			step:   lv2host.StepLoad,
			target: errLoad,
		},
		{
			name: "plugin not found",
			world: func() *mock.World {
				return &mock.World{Plugins: []*mock.Plugin{mock.Pedal("urn:other")}}
			},
			step:   lv2host.StepFind,
			target: lv2.ErrPluginNotFound,
		},
		{
			name: "instantiate",
			world: func() *mock.World {
				p := mock.Pedal(pedalURI)
				p.ErrorOnInstantiate = errInit
				return &mock.World{Plugins: []*mock.Plugin{p}}
			},
			step:   lv2host.StepInit,
			target: errInit,
		},
		{
			name: "missing input",
			world: func() *mock.World {
				return &mock.World{Plugins: []*mock.Plugin{mock.Pedal(pedalURI)}}
			},
			config: func(c lv2host.Config) lv2host.Config {
				c.Input = filepath.Join(filepath.Dir(c.Input), "missing.wav")
				return c
			},
			step:   lv2host.StepRead,
			target: os.ErrNotExist,
		},
		{
			name: "no outputs",
			world: func() *mock.World {
				p := mock.Pedal(pedalURI)
				p.PortList = p.PortList[:1]
				return &mock.World{Plugins: []*mock.Plugin{p}}
			},
			step:   lv2host.StepRun,
			target: lv2.ErrNoAudioOutputs,
		},
		{
			name: "output directory doesn't exist",
			world: func() *mock.World {
				return &mock.World{Plugins: []*mock.Plugin{mock.Pedal(pedalURI)}}
			},
			config: func(c lv2host.Config) lv2host.Config {
				c.Output = filepath.Join(filepath.Dir(c.Output), "missing", "output.wav")
				return c
			},
			step:   lv2host.StepWrite,
			target: os.ErrNotExist,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := setup(t, [][]float64{{0.1, 0.2}}, 44100)
			if test.config != nil {
				c = test.config(c)
			}
			world := test.world()
			_, err := lv2host.New(world, c).Run(context.Background())

			var runErr *lv2host.ErrorRun
			require.ErrorAs(t, err, &runErr)
			assert.Equal(t, test.step, runErr.Step)
			assert.ErrorIs(t, err, test.target)
			for _, p := range world.Plugins {
				for _, i := range p.Instances {
					assert.True(t, i.Closed)
				}
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	c := setup(t, [][]float64{{0.1}}, 44100)
	world := &mock.World{Plugins: []*mock.Plugin{mock.Pedal(pedalURI)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lv2host.New(world, c).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, world.Loaded)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, lv2host.DefaultConfig().Validate())

	err := lv2host.Config{BitDepth: 8}.Validate()
	assert.ErrorIs(t, err, lv2host.ErrInvalidConfig)
	for _, problem := range []string{"input", "output", "plugin uri", "sample rate", "bit depth"} {
		assert.Contains(t, err.Error(), problem)
	}

	world := &mock.World{}
	_, err = lv2host.New(world, lv2host.Config{}).Run(context.Background())
	assert.ErrorIs(t, err, lv2host.ErrInvalidConfig)
	assert.False(t, world.Loaded)
}

// Package metric measures plugin runs.
//
// Every measured run is also accounted in expvar counters, so they are
// available to any process that exposes expvar handler.
package metric

import (
	"expvar"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

const label = "lv2host"

var (
	runs   = expvar.NewInt(label + ".Runs")
	frames = expvar.NewInt(label + ".Frames")
)

// Level of the signal.
type Level struct {
	Peak float64
	RMS  float64
}

// Report is a result of measured run.
type Report struct {
	Plugin      string
	SampleRate  int
	NumChannels int
	Frames      int
	// Duration of the signal.
	Duration time.Duration
	// Elapsed is the time spent in processing.
	Elapsed time.Duration
	In      Level
	Out     Level
}

// RealtimeFactor returns how many times processing was faster than signal
// duration.
func (r Report) RealtimeFactor() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Duration) / float64(r.Elapsed)
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %d frames x %d channels (%v) processed in %v, x%.1f realtime, peak %.3f -> %.3f, rms %.3f -> %.3f",
		r.Plugin, r.Frames, r.NumChannels, r.Duration, r.Elapsed, r.RealtimeFactor(),
		r.In.Peak, r.Out.Peak, r.In.RMS, r.Out.RMS)
}

// Fields returns report as logrus fields.
func (r Report) Fields() logrus.Fields {
	return logrus.Fields{
		"plugin":   r.Plugin,
		"frames":   r.Frames,
		"channels": r.NumChannels,
		"duration": r.Duration,
		"elapsed":  r.Elapsed,
		"realtime": r.RealtimeFactor(),
		"in.peak":  r.In.Peak,
		"out.peak": r.Out.Peak,
		"in.rms":   r.In.RMS,
		"out.rms":  r.Out.RMS,
	}
}

// StartFunc starts the measurement. It's returned by Meter to postpone the
// capture until processing actually starts.
type StartFunc func() StopFunc

// StopFunc captures the report once processing is done.
type StopFunc func(in, out [][]float64) Report

// Meter creates new meter closure for the plugin.
func Meter(plugin string, sampleRate int) StartFunc {
	return func() StopFunc {
		startedAt := time.Now()
		return func(in, out [][]float64) Report {
			elapsed := time.Since(startedAt)
			r := Report{
				Plugin:      plugin,
				SampleRate:  sampleRate,
				NumChannels: len(in),
				Elapsed:     elapsed,
				In:          LevelOf(in),
				Out:         LevelOf(out),
			}
			if len(in) > 0 {
				r.Frames = len(in[0])
			}
			r.Duration = DurationOf(sampleRate, r.Frames)
			runs.Add(1)
			frames.Add(int64(r.Frames))
			return r
		}
	}
}

// DurationOf returns time duration of frames at provided sample rate.
func DurationOf(sampleRate, frames int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}

// LevelOf returns peak and RMS across all channels.
func LevelOf(data [][]float64) Level {
	var (
		l     Level
		sum   float64
		count int
	)
	for _, ch := range data {
		if len(ch) == 0 {
			continue
		}
		if peak := math.Max(math.Abs(floats.Max(ch)), math.Abs(floats.Min(ch))); peak > l.Peak {
			l.Peak = peak
		}
		sum += floats.Dot(ch, ch)
		count += len(ch)
	}
	if count > 0 {
		l.RMS = math.Sqrt(sum / float64(count))
	}
	return l
}

// Runs returns number of measured runs.
func Runs() int64 {
	return runs.Value()
}

// Frames returns number of measured frames.
func Frames() int64 {
	return frames.Value()
}

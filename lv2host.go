/*
Package lv2host runs a single LV2 plugin over a whole wav file.

A run is a fixed sequence of steps:

    load   - discover installed plugins;
    find   - locate the plugin by URI;
    init   - instantiate the plugin at a fixed sample rate;
    read   - decode the input file into memory;
    run    - process the whole signal in one call;
    write  - encode the result into the output file.

There is no streaming: the plugin sees the entire signal at once. Output has
the same shape as input, channels not produced by the plugin are silent.

    world, err := lilv.New()
    ...
    job := lv2host.New(world, lv2host.DefaultConfig())
    report, err := job.Run(ctx)
*/
package lv2host

// Buffer is a two-dimensional signal where first dimension is channel.
type Buffer [][]float64

// NumChannels returns number of channels in buffer.
func (b Buffer) NumChannels() int {
	return len(b)
}

// Size returns number of frames in buffer.
func (b Buffer) Size() int {
	if len(b) == 0 || b[0] == nil {
		return 0
	}
	return len(b[0])
}

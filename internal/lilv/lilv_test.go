//go:build lv2

package lilv_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/lv2host/internal/lilv"
	"github.com/dudk/lv2host/lv2"
)

// pluginEnv names the plugin used in integration test. Any plugin with at
// least one audio output will do.
const pluginEnv = "LV2HOST_TEST_PLUGIN"

func TestWorld(t *testing.T) {
	uri := os.Getenv(pluginEnv)
	if uri == "" {
		t.Skipf("%s is not set", pluginEnv)
	}
	world, err := lilv.New()
	require.NoError(t, err)
	defer world.Close()
	require.NoError(t, world.LoadAll())
	assert.NotZero(t, world.NumPlugins())

	_, err = world.Plugin("urn:lv2host:missing")
	assert.ErrorIs(t, err, lv2.ErrPluginNotFound)

	plugin, err := world.Plugin(uri)
	require.NoError(t, err)
	assert.Equal(t, uri, plugin.URI())
	ports := plugin.Ports()
	require.NotEmpty(t, ports)

	instance, err := plugin.Instantiate(44100)
	require.NoError(t, err)
	defer instance.Close()

	in := [][]float64{make([]float64, 1024)}
	out, err := lv2.NewProcessor(ports, instance).Process(in)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Len(t, out[0], 1024)
}

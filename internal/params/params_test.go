package params_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3b0rn/localsearch/internal/errkind"
	"github.com/r3b0rn/localsearch/internal/params"
)

func TestParameterGetReturnsDefaultWhenUnset(t *testing.T) {
	def := 0.95
	p := params.NewParameter("cooling_rate", "cooling schedule factor", &def)
	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, 0.95, v)
	assert.False(t, p.IsSet())
}

func TestParameterGetFailsWithoutDefaultOrValue(t *testing.T) {
	p := params.NewParameter[int]("min_tenure", "tabu tenure lower bound", nil)
	_, err := p.Get()
	require.Error(t, err)
	assert.True(t, errkind.Of(err, errkind.ParameterNotSet))
}

func TestParameterSetOverridesDefault(t *testing.T) {
	def := 3
	p := params.NewParameter("min_tenure", "", &def)
	p.Set(5)
	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.True(t, p.IsSet())
}

func TestBoxSetStringCoercesByDeclaredType(t *testing.T) {
	b := params.NewBox("sa")
	rate := b.Float64("cooling_rate", "", nil)
	samples := b.Int("max_neighbors_sampled", "", nil)
	random := b.Bool("random_state", "", nil)

	require.NoError(t, b.SetString("cooling_rate", "0.9"))
	require.NoError(t, b.SetString("max_neighbors_sampled", "50"))
	require.NoError(t, b.SetString("random_state", "true"))

	assert.Equal(t, 0.9, rate.MustGet())
	assert.Equal(t, 50, samples.MustGet())
	assert.Equal(t, true, random.MustGet())

	assert.Error(t, b.SetString("unknown", "1"))
}

func TestBoxJSONRoundTrip(t *testing.T) {
	b := params.NewBox("ts")
	minT := 3
	maxT := 7
	maxParam := b.Int("max_tenure", "", &maxT)
	b.Int("min_tenure", "", &minT)

	doc := b.ToJSON()
	assert.EqualValues(t, 3, doc["min_tenure"])
	assert.EqualValues(t, 7, doc["max_tenure"])

	require.NoError(t, b.FromJSON(map[string]any{"max_tenure": float64(9)}))
	assert.Equal(t, 9, maxParam.MustGet())
}

func TestRegistryJSONRoundTrip(t *testing.T) {
	r := params.NewRegistry()
	rate := 0.9
	r.Box("sa").Float64("cooling_rate", "", &rate)

	data, err := r.ToJSON()
	require.NoError(t, err)

	r2 := params.NewRegistry()
	target := r2.Box("sa").Float64("cooling_rate", "", nil)
	require.NoError(t, r2.FromJSON(data))
	assert.Equal(t, 0.9, target.MustGet())
}

func TestRegistryBindPFlagsAppliesOverride(t *testing.T) {
	r := params.NewCoreRegistry(nil)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	r.BindPFlags(fs)

	require.NoError(t, fs.Parse([]string{"--sa::cooling_rate", "0.8"}))
	require.NoError(t, r.ApplyPFlags(fs))

	rate, ok := r.Box("sa").Float64Param("cooling_rate")
	require.True(t, ok)
	assert.Equal(t, 0.8, rate.MustGet())
}

func TestNewCoreRegistryCoversSpecTable(t *testing.T) {
	r := params.NewCoreRegistry(nil)
	for _, tc := range []struct{ prefix, name string }{
		{"solver", "init_trials"},
		{"solver", "random_state"},
		{"solver", "timeout"},
		{"runner", "max_iterations"},
		{"runner", "max_evaluations"},
		{"hc", "max_idle_iterations"},
		{"sa", "start_temperature"},
		{"sa", "min_temperature"},
		{"sa", "cooling_rate"},
		{"sa", "max_neighbors_sampled"},
		{"sa", "max_neighbors_accepted"},
		{"ts", "min_tenure"},
		{"ts", "max_tenure"},
	} {
		box := r.Box(tc.prefix)
		_, exists := box.ToJSON()[tc.name]
		assert.True(t, exists, "%s::%s should be registered by NewCoreRegistry", tc.prefix, tc.name)
	}
}
